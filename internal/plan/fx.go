package plan

import (
	"github.com/trackwise/billing/internal/plan/repository"
	"github.com/trackwise/billing/internal/plan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("plan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

package order

import (
	"github.com/trackwise/billing/internal/order/repository"
	"github.com/trackwise/billing/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

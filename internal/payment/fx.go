package payment

import (
	"github.com/trackwise/billing/internal/payment/repository"
	"github.com/trackwise/billing/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)

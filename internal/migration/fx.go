package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/trackwise/billing/internal/config"
	invoicedomain "github.com/trackwise/billing/internal/invoice/domain"
	orderdomain "github.com/trackwise/billing/internal/order/domain"
	paymentdomain "github.com/trackwise/billing/internal/payment/domain"
	plandomain "github.com/trackwise/billing/internal/plan/domain"
	"github.com/trackwise/billing/internal/seed"
	userdomain "github.com/trackwise/billing/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// SQL migrations target postgres; other dialects are for
			// local runs where the gorm schema is enough.
			if err := conn.AutoMigrate(
				&plandomain.Plan{},
				&userdomain.User{},
				&orderdomain.Order{},
				&paymentdomain.Payment{},
				&invoicedomain.Invoice{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDefaultPlans {
			return seed.EnsureDefaultPlans(conn, node)
		}
		return nil
	}),
)

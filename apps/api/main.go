package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/trackwise/billing/internal/clock"
	"github.com/trackwise/billing/internal/config"
	"github.com/trackwise/billing/internal/gateway"
	"github.com/trackwise/billing/internal/gateway/manual"
	gatewaymidtrans "github.com/trackwise/billing/internal/gateway/midtrans"
	"github.com/trackwise/billing/internal/invoice"
	"github.com/trackwise/billing/internal/migration"
	"github.com/trackwise/billing/internal/observability"
	"github.com/trackwise/billing/internal/order"
	"github.com/trackwise/billing/internal/payment"
	"github.com/trackwise/billing/internal/plan"
	"github.com/trackwise/billing/internal/server"
	"github.com/trackwise/billing/internal/subscription"
	"github.com/trackwise/billing/internal/user"
	"github.com/trackwise/billing/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Payment gateways
		fx.Provide(
			fx.Annotate(manual.New, fx.ResultTags(`group:"gateways"`)),
			fx.Annotate(gatewaymidtrans.New, fx.ResultTags(`group:"gateways"`)),
		),
		gateway.Module,

		// Billing domain
		plan.Module,
		user.Module,
		invoice.Module,
		order.Module,
		payment.Module,
		subscription.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackwise/billing/internal/clock"
	"github.com/trackwise/billing/internal/gateway"
	"github.com/trackwise/billing/internal/gateway/manual"
	"github.com/trackwise/billing/internal/identity"
	"github.com/trackwise/billing/internal/observability/metrics"
	orderdomain "github.com/trackwise/billing/internal/order/domain"
	orderrepo "github.com/trackwise/billing/internal/order/repository"
	paymentdomain "github.com/trackwise/billing/internal/payment/domain"
	paymentrepo "github.com/trackwise/billing/internal/payment/repository"
	plandomain "github.com/trackwise/billing/internal/plan/domain"
	planrepo "github.com/trackwise/billing/internal/plan/repository"
	userdomain "github.com/trackwise/billing/internal/user/domain"
	userrepo "github.com/trackwise/billing/internal/user/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&plandomain.Plan{},
		&userdomain.User{},
		&orderdomain.Order{},
		&paymentdomain.Payment{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

type fixture struct {
	db   *gorm.DB
	svc  orderdomain.Service
	node *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	svc := NewService(Params{
		DB:          db,
		OrderRepo:   orderrepo.Provide(),
		PaymentRepo: paymentrepo.Provide(),
		PlanRepo:    planrepo.Provide(),
		UserRepo:    userrepo.Provide(),
		Registry:    gateway.NewRegistry(manual.New()),
		Clock:       clock.NewFakeClock(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)),
		Node:        node,
		Metrics:     metrics.NewBillingMetrics(prometheus.NewRegistry()),
		Logger:      zap.NewNop(),
	})

	return &fixture{db: db, svc: svc, node: node}
}

func (f *fixture) createPlan(t *testing.T, price string) plandomain.Plan {
	plan := plandomain.Plan{
		ID:           f.node.Generate(),
		Name:         "Test Plan",
		Slug:         "test-plan-" + f.node.Generate().String(),
		Price:        decimal.RequireFromString(price),
		Currency:     "USD",
		BillingCycle: plandomain.BillingCycleMonthly,
		IsPublic:     true,
	}
	require.NoError(t, f.db.Create(&plan).Error)
	return plan
}

func (f *fixture) createUser(t *testing.T) userdomain.User {
	user := userdomain.User{
		ID:                 f.node.Generate(),
		Email:              f.node.Generate().String() + "@example.com",
		Role:               "user",
		SubscriptionStatus: userdomain.SubscriptionStatusFree,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func asUser(user userdomain.User) context.Context {
	return identity.WithIdentity(context.Background(), identity.Identity{
		UserID: user.ID,
		Role:   identity.RoleUser,
	})
}

func (f *fixture) countRows(t *testing.T, model any) int64 {
	var count int64
	require.NoError(t, f.db.Model(model).Count(&count).Error)
	return count
}

func TestPlaceManualOrder(t *testing.T) {
	f := newFixture(t)
	plan := f.createPlan(t, "9.99")
	user := f.createUser(t)

	resp, err := f.svc.Place(asUser(user), orderdomain.PlaceOrderRequest{
		PlanID:         plan.ID.String(),
		Amount:         9.99,
		Currency:       "usd",
		PaymentGateway: "manual",
	})
	require.NoError(t, err)

	assert.Equal(t, "manual", resp.Gateway.Gateway)
	assert.NotEmpty(t, resp.Gateway.Reference)
	assert.NotEmpty(t, resp.Gateway.Message)

	var order orderdomain.Order
	require.NoError(t, f.db.First(&order, "id = ?", resp.OrderID).Error)
	assert.Equal(t, orderdomain.OrderStatusPending, order.Status)
	assert.Equal(t, "USD", order.Currency)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, resp.PaymentID, *order.PaymentID)

	var payment paymentdomain.Payment
	require.NoError(t, f.db.First(&payment, "id = ?", resp.PaymentID).Error)
	assert.Equal(t, paymentdomain.PaymentStatusPending, payment.Status)
	assert.Equal(t, order.ID, payment.OrderID)
	assert.Equal(t, "USD", payment.Currency)
	assert.True(t, payment.Amount.Equal(plan.Price))
	require.NotNil(t, payment.ProcessedAt)
}

func TestPlaceFreePlanOrder(t *testing.T) {
	f := newFixture(t)
	plan := f.createPlan(t, "0")
	user := f.createUser(t)

	resp, err := f.svc.Place(asUser(user), orderdomain.PlaceOrderRequest{
		PlanID:         plan.ID.String(),
		Amount:         0,
		Currency:       "usd",
		PaymentGateway: "manual",
	})
	require.NoError(t, err)

	var payment paymentdomain.Payment
	require.NoError(t, f.db.First(&payment, "id = ?", resp.PaymentID).Error)
	assert.True(t, payment.Amount.IsZero())
	assert.Equal(t, "USD", payment.Currency)
}

func TestPlaceOrderUnknownGatewayLeavesNoRows(t *testing.T) {
	f := newFixture(t)
	plan := f.createPlan(t, "9.99")
	user := f.createUser(t)

	_, err := f.svc.Place(asUser(user), orderdomain.PlaceOrderRequest{
		PlanID:         plan.ID.String(),
		Amount:         9.99,
		Currency:       "USD",
		PaymentGateway: "paypal",
	})
	require.ErrorIs(t, err, gateway.ErrGatewayNotSupported)

	assert.EqualValues(t, 0, f.countRows(t, &orderdomain.Order{}))
	assert.EqualValues(t, 0, f.countRows(t, &paymentdomain.Payment{}))
}

func TestPlaceOrderAmountMustMatchPrice(t *testing.T) {
	f := newFixture(t)
	plan := f.createPlan(t, "9.99")
	user := f.createUser(t)

	_, err := f.svc.Place(asUser(user), orderdomain.PlaceOrderRequest{
		PlanID:         plan.ID.String(),
		Amount:         "9.98",
		Currency:       "USD",
		PaymentGateway: "manual",
	})
	require.ErrorIs(t, err, orderdomain.ErrAmountPriceMismatch)
	assert.Contains(t, err.Error(), "9.98")
	assert.Contains(t, err.Error(), "9.99")

	assert.EqualValues(t, 0, f.countRows(t, &orderdomain.Order{}))
}

func TestPlaceOrderStringAmount(t *testing.T) {
	f := newFixture(t)
	plan := f.createPlan(t, "99.99")
	user := f.createUser(t)

	_, err := f.svc.Place(asUser(user), orderdomain.PlaceOrderRequest{
		PlanID:         plan.ID.String(),
		Amount:         "99.99",
		Currency:       "USD",
		PaymentGateway: "manual",
	})
	require.NoError(t, err)
}

func TestPlaceOrderValidation(t *testing.T) {
	f := newFixture(t)
	plan := f.createPlan(t, "9.99")
	user := f.createUser(t)
	ctx := asUser(user)

	cases := []struct {
		name string
		req  orderdomain.PlaceOrderRequest
		want error
	}{
		{
			name: "missing plan",
			req:  orderdomain.PlaceOrderRequest{Amount: 9.99, Currency: "USD", PaymentGateway: "manual"},
			want: orderdomain.ErrMissingPlan,
		},
		{
			name: "missing currency",
			req:  orderdomain.PlaceOrderRequest{PlanID: plan.ID.String(), Amount: 9.99, PaymentGateway: "manual"},
			want: orderdomain.ErrMissingCurrency,
		},
		{
			name: "missing gateway",
			req:  orderdomain.PlaceOrderRequest{PlanID: plan.ID.String(), Amount: 9.99, Currency: "USD"},
			want: orderdomain.ErrMissingGateway,
		},
		{
			name: "missing amount",
			req:  orderdomain.PlaceOrderRequest{PlanID: plan.ID.String(), Currency: "USD", PaymentGateway: "manual"},
			want: orderdomain.ErrMissingAmount,
		},
		{
			name: "non-numeric amount",
			req:  orderdomain.PlaceOrderRequest{PlanID: plan.ID.String(), Amount: "abc", Currency: "USD", PaymentGateway: "manual"},
			want: orderdomain.ErrAmountNotNumeric,
		},
		{
			name: "unknown plan",
			req:  orderdomain.PlaceOrderRequest{PlanID: "123456", Amount: 9.99, Currency: "USD", PaymentGateway: "manual"},
			want: plandomain.ErrPlanNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Place(ctx, tc.req)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

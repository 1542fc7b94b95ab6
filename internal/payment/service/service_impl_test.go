package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackwise/billing/internal/clock"
	"github.com/trackwise/billing/internal/identity"
	paymentdomain "github.com/trackwise/billing/internal/payment/domain"
	paymentrepo "github.com/trackwise/billing/internal/payment/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&paymentdomain.Payment{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

type fixture struct {
	db   *gorm.DB
	svc  paymentdomain.Service
	node *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	db := setupTestDB(t)
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	svc := NewService(Params{
		DB:     db,
		Repo:   paymentrepo.Provide(),
		Clock:  clock.NewFakeClock(time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)),
		Logger: zap.NewNop(),
	})

	return &fixture{db: db, svc: svc, node: node}
}

func (f *fixture) createPayment(t *testing.T, userID snowflake.ID, amount string, status paymentdomain.PaymentStatus) paymentdomain.Payment {
	payment := paymentdomain.Payment{
		ID:       f.node.Generate(),
		UserID:   userID,
		OrderID:  f.node.Generate(),
		Amount:   decimal.RequireFromString(amount),
		Currency: "USD",
		Gateway:  "manual",
		Purpose:  paymentdomain.PurposeSubscription,
		Status:   status,
	}
	require.NoError(t, f.db.Create(&payment).Error)
	return payment
}

func asUser(userID snowflake.ID) context.Context {
	return identity.WithIdentity(context.Background(), identity.Identity{
		UserID: userID,
		Role:   identity.RoleUser,
	})
}

func asAdmin(userID snowflake.ID) context.Context {
	return identity.WithIdentity(context.Background(), identity.Identity{
		UserID: userID,
		Role:   identity.RoleAdmin,
	})
}

func TestConfirmManualStringAmount(t *testing.T) {
	f := newFixture(t)
	owner := f.node.Generate()
	payment := f.createPayment(t, owner, "99.99", paymentdomain.PaymentStatusPending)

	// Clients often send the amount as a string; "99.99" must
	// reconcile against the stored 99.99.
	out, err := f.svc.ConfirmManual(asUser(owner), paymentdomain.ConfirmManualRequest{
		PaymentID:            payment.ID.String(),
		Amount:               "99.99",
		Currency:             "usd",
		PaymentGateway:       "Manual",
		GatewayTransactionID: "tx-123",
	})
	require.NoError(t, err)

	assert.Equal(t, paymentdomain.PaymentStatusPending, out.Status)
	assert.Equal(t, "manual", out.Gateway)
	assert.Equal(t, "tx-123", out.GatewayTransactionID)

	var stored paymentdomain.Payment
	require.NoError(t, f.db.First(&stored, "id = ?", payment.ID).Error)
	assert.Equal(t, paymentdomain.PaymentStatusPending, stored.Status)
	assert.Equal(t, "tx-123", stored.GatewayTransactionID)
}

func TestConfirmManualNotOwner(t *testing.T) {
	f := newFixture(t)
	owner := f.node.Generate()
	stranger := f.node.Generate()
	payment := f.createPayment(t, owner, "99.99", paymentdomain.PaymentStatusPending)

	_, err := f.svc.ConfirmManual(asUser(stranger), paymentdomain.ConfirmManualRequest{
		PaymentID: payment.ID.String(),
		Amount:    "99.99",
		Currency:  "USD",
	})
	require.ErrorIs(t, err, paymentdomain.ErrPaymentNotOwned)
}

func TestConfirmManualNotPending(t *testing.T) {
	f := newFixture(t)
	owner := f.node.Generate()
	payment := f.createPayment(t, owner, "99.99", paymentdomain.PaymentStatusSucceeded)

	_, err := f.svc.ConfirmManual(asUser(owner), paymentdomain.ConfirmManualRequest{
		PaymentID: payment.ID.String(),
		Amount:    "99.99",
		Currency:  "USD",
	})
	require.ErrorIs(t, err, paymentdomain.ErrPaymentNotPending)
}

func TestConfirmManualAmountMismatch(t *testing.T) {
	f := newFixture(t)
	owner := f.node.Generate()
	payment := f.createPayment(t, owner, "99.99", paymentdomain.PaymentStatusPending)

	_, err := f.svc.ConfirmManual(asUser(owner), paymentdomain.ConfirmManualRequest{
		PaymentID: payment.ID.String(),
		Amount:    "89.99",
		Currency:  "USD",
	})
	require.ErrorIs(t, err, paymentdomain.ErrAmountMismatch)
}

func TestConfirmManualCurrencyMismatch(t *testing.T) {
	f := newFixture(t)
	owner := f.node.Generate()
	payment := f.createPayment(t, owner, "99.99", paymentdomain.PaymentStatusPending)

	_, err := f.svc.ConfirmManual(asUser(owner), paymentdomain.ConfirmManualRequest{
		PaymentID: payment.ID.String(),
		Amount:    "99.99",
		Currency:  "EUR",
	})
	require.ErrorIs(t, err, paymentdomain.ErrCurrencyMismatch)
}

func TestConfirmManualNotFound(t *testing.T) {
	f := newFixture(t)
	owner := f.node.Generate()

	_, err := f.svc.ConfirmManual(asUser(owner), paymentdomain.ConfirmManualRequest{
		PaymentID: f.node.Generate().String(),
		Amount:    "99.99",
		Currency:  "USD",
	})
	require.ErrorIs(t, err, paymentdomain.ErrPaymentNotFound)
}

func TestRejectPayment(t *testing.T) {
	f := newFixture(t)
	owner := f.node.Generate()
	admin := f.node.Generate()
	payment := f.createPayment(t, owner, "99.99", paymentdomain.PaymentStatusPending)

	t.Run("non-admin may not reject", func(t *testing.T) {
		_, err := f.svc.Reject(asUser(owner), paymentdomain.RejectRequest{
			PaymentID: payment.ID.String(),
		})
		require.ErrorIs(t, err, paymentdomain.ErrPaymentNotOwned)
	})

	t.Run("admin rejects pending payment", func(t *testing.T) {
		out, err := f.svc.Reject(asAdmin(admin), paymentdomain.RejectRequest{
			PaymentID: payment.ID.String(),
		})
		require.NoError(t, err)
		assert.Equal(t, paymentdomain.PaymentStatusFailed, out.Status)
		require.NotNil(t, out.ProcessedAt)
	})

	t.Run("second reject conflicts", func(t *testing.T) {
		_, err := f.svc.Reject(asAdmin(admin), paymentdomain.RejectRequest{
			PaymentID: payment.ID.String(),
		})
		require.ErrorIs(t, err, paymentdomain.ErrPaymentNotPending)
	})
}

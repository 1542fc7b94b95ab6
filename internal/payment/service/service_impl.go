package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/trackwise/billing/internal/clock"
	"github.com/trackwise/billing/internal/identity"
	"github.com/trackwise/billing/internal/money"
	paymentdomain "github.com/trackwise/billing/internal/payment/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Repo   paymentdomain.Repository
	Clock  clock.Clock
	Logger *zap.Logger
}

type service struct {
	db    *gorm.DB
	repo  paymentdomain.Repository
	clock clock.Clock
	log   *zap.Logger
}

func NewService(p Params) paymentdomain.Service {
	return &service{
		db:    p.DB,
		repo:  p.Repo,
		clock: p.Clock,
		log:   p.Logger.Named("payment.service"),
	}
}

func (s *service) ConfirmManual(ctx context.Context, req paymentdomain.ConfirmManualRequest) (paymentdomain.Payment, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return paymentdomain.Payment{}, paymentdomain.ErrPaymentNotOwned
	}

	paymentID, err := parseID(req.PaymentID)
	if err != nil {
		return paymentdomain.Payment{}, paymentdomain.ErrPaymentNotFound
	}

	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return paymentdomain.Payment{}, err
	}
	if payment == nil {
		return paymentdomain.Payment{}, paymentdomain.ErrPaymentNotFound
	}

	if payment.UserID != caller.UserID {
		s.log.Warn("manual confirmation rejected: caller does not own payment",
			zap.Int64("payment_id", int64(payment.ID)),
			zap.Int64("payment_user_id", int64(payment.UserID)),
			zap.Int64("caller_id", int64(caller.UserID)),
		)
		return paymentdomain.Payment{}, paymentdomain.ErrPaymentNotOwned
	}

	if payment.Status != paymentdomain.PaymentStatusPending {
		return paymentdomain.Payment{}, paymentdomain.ErrPaymentNotPending
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		return paymentdomain.Payment{}, paymentdomain.ErrAmountMismatch
	}
	if !money.TolerantEqual(amount, payment.Amount) {
		return paymentdomain.Payment{}, paymentdomain.ErrAmountMismatch
	}
	if money.NormalizeCurrency(req.Currency) != payment.Currency {
		return paymentdomain.Payment{}, paymentdomain.ErrCurrencyMismatch
	}

	// Evidence only. Status stays pending until review.
	payment.Gateway = strings.ToLower(strings.TrimSpace(req.PaymentGateway))
	payment.GatewayTransactionID = strings.TrimSpace(req.GatewayTransactionID)
	payment.UpdatedAt = s.clock.Now()
	if err := s.repo.Save(ctx, s.db, payment); err != nil {
		return paymentdomain.Payment{}, err
	}

	return *payment, nil
}

func (s *service) Reject(ctx context.Context, req paymentdomain.RejectRequest) (paymentdomain.Payment, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok || !caller.IsAdmin() {
		return paymentdomain.Payment{}, paymentdomain.ErrPaymentNotOwned
	}

	paymentID, err := parseID(req.PaymentID)
	if err != nil {
		return paymentdomain.Payment{}, paymentdomain.ErrPaymentNotFound
	}

	payment, err := s.repo.FindByID(ctx, s.db, paymentID)
	if err != nil {
		return paymentdomain.Payment{}, err
	}
	if payment == nil {
		return paymentdomain.Payment{}, paymentdomain.ErrPaymentNotFound
	}
	if payment.Status != paymentdomain.PaymentStatusPending {
		return paymentdomain.Payment{}, paymentdomain.ErrPaymentNotPending
	}

	now := s.clock.Now()
	payment.Status = paymentdomain.PaymentStatusFailed
	payment.ProcessedAt = &now
	payment.UpdatedAt = now
	if err := s.repo.Save(ctx, s.db, payment); err != nil {
		return paymentdomain.Payment{}, err
	}

	s.log.Info("payment rejected",
		zap.Int64("payment_id", int64(payment.ID)),
		zap.Int64("admin_id", int64(caller.UserID)),
	)
	return *payment, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ID(id), nil
}

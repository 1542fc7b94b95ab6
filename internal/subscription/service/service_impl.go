package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/trackwise/billing/internal/clock"
	"github.com/trackwise/billing/internal/identity"
	invoicedomain "github.com/trackwise/billing/internal/invoice/domain"
	"github.com/trackwise/billing/internal/money"
	"github.com/trackwise/billing/internal/observability/metrics"
	orderdomain "github.com/trackwise/billing/internal/order/domain"
	paymentdomain "github.com/trackwise/billing/internal/payment/domain"
	plandomain "github.com/trackwise/billing/internal/plan/domain"
	subscriptiondomain "github.com/trackwise/billing/internal/subscription/domain"
	userdomain "github.com/trackwise/billing/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	UserRepo    userdomain.Repository
	PlanRepo    plandomain.Repository
	OrderRepo   orderdomain.Repository
	PaymentRepo paymentdomain.Repository
	InvoiceRepo invoicedomain.Repository
	Clock       clock.Clock
	Node        *snowflake.Node
	Metrics     *metrics.BillingMetrics
	Logger      *zap.Logger
}

type service struct {
	db          *gorm.DB
	userRepo    userdomain.Repository
	planRepo    plandomain.Repository
	orderRepo   orderdomain.Repository
	paymentRepo paymentdomain.Repository
	invoiceRepo invoicedomain.Repository
	clock       clock.Clock
	node        *snowflake.Node
	metrics     *metrics.BillingMetrics
	log         *zap.Logger
}

func NewService(p Params) subscriptiondomain.Service {
	return &service{
		db:          p.DB,
		userRepo:    p.UserRepo,
		planRepo:    p.PlanRepo,
		orderRepo:   p.OrderRepo,
		paymentRepo: p.PaymentRepo,
		invoiceRepo: p.InvoiceRepo,
		clock:       p.Clock,
		node:        p.Node,
		metrics:     p.Metrics,
		log:         p.Logger.Named("subscription.service"),
	}
}

func (s *service) Activate(ctx context.Context, req subscriptiondomain.ActivateRequest) (subscriptiondomain.ActivateResponse, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return subscriptiondomain.ActivateResponse{}, userdomain.ErrUserNotFound
	}

	targetID, err := s.resolveTarget(caller, req.AppliedUserID)
	if err != nil {
		return subscriptiondomain.ActivateResponse{}, err
	}

	paymentID, err := parseID(req.PaymentID)
	if err != nil {
		return subscriptiondomain.ActivateResponse{}, paymentdomain.ErrPaymentNotFound
	}
	planID, err := parseID(req.NewPlanID)
	if err != nil {
		return subscriptiondomain.ActivateResponse{}, plandomain.ErrPlanNotFound
	}

	var resp subscriptiondomain.ActivateResponse
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		out, err := s.activate(ctx, tx, caller, targetID, planID, paymentID)
		if err != nil {
			return err
		}
		resp = out
		return nil
	})
	if txErr != nil {
		if s.metrics != nil && errors.Is(txErr, paymentdomain.ErrPaymentAlreadyFinalized) {
			s.metrics.ActivationConflicts.Inc()
		}
		return subscriptiondomain.ActivateResponse{}, txErr
	}
	return resp, nil
}

// resolveTarget decides whose subscription the activation applies to.
// Admins act on behalf of a user and must say which one; everyone
// else may only act on themselves.
func (s *service) resolveTarget(caller identity.Identity, appliedUserID string) (snowflake.ID, error) {
	applied := strings.TrimSpace(appliedUserID)

	if caller.IsAdmin() {
		if applied == "" {
			return 0, subscriptiondomain.ErrAppliedUserRequired
		}
		return parseIDOr(applied, subscriptiondomain.ErrAppliedUserRequired)
	}

	if applied != "" {
		id, err := parseIDOr(applied, subscriptiondomain.ErrAppliedUserForbidden)
		if err != nil {
			return 0, err
		}
		if id != caller.UserID {
			s.log.Warn("activation rejected: non-admin supplied another user",
				zap.Int64("caller_id", int64(caller.UserID)),
				zap.Int64("applied_user_id", int64(id)),
			)
			return 0, subscriptiondomain.ErrAppliedUserForbidden
		}
	}
	return caller.UserID, nil
}

func (s *service) activate(ctx context.Context, tx *gorm.DB, caller identity.Identity, targetID, planID, paymentID snowflake.ID) (subscriptiondomain.ActivateResponse, error) {
	var zero subscriptiondomain.ActivateResponse

	payment, err := s.paymentRepo.FindByID(ctx, tx, paymentID)
	if err != nil {
		return zero, err
	}
	if payment == nil {
		return zero, paymentdomain.ErrPaymentNotFound
	}
	if payment.UserID == 0 {
		return zero, subscriptiondomain.ErrPaymentUserMissing
	}

	if payment.UserID != targetID {
		s.log.Warn("activation rejected: payment belongs to another user",
			zap.Int64("payment_id", int64(payment.ID)),
			zap.Int64("payment_user_id", int64(payment.UserID)),
			zap.Int64("target_user_id", int64(targetID)),
			zap.Int64("caller_id", int64(caller.UserID)),
		)
		return zero, subscriptiondomain.ErrPaymentNotEligible
	}

	// Fast idempotency check. The claim below closes the race this
	// read leaves open.
	if payment.InvoiceID != nil {
		return zero, paymentdomain.ErrPaymentAlreadyFinalized
	}

	user, err := s.userRepo.FindByID(ctx, tx, targetID)
	if err != nil {
		return zero, err
	}
	if user == nil {
		return zero, userdomain.ErrUserNotFound
	}

	plan, err := s.planRepo.FindByID(ctx, tx, int64(planID))
	if err != nil {
		return zero, err
	}
	if plan == nil {
		return zero, plandomain.ErrPlanNotFound
	}

	order, err := s.orderRepo.FindByID(ctx, tx, payment.OrderID)
	if err != nil {
		return zero, err
	}
	if order == nil {
		return zero, orderdomain.ErrOrderNotFound
	}

	// Paying for plan A never activates plan B.
	if payment.PlanID != nil && *payment.PlanID != plan.ID {
		s.log.Warn("activation rejected: payment was made for a different plan",
			zap.Int64("payment_id", int64(payment.ID)),
			zap.Int64("payment_plan_id", int64(*payment.PlanID)),
			zap.Int64("requested_plan_id", int64(plan.ID)),
		)
		return zero, subscriptiondomain.ErrPlanMismatch
	}

	// Free plans activate regardless of the recorded amount.
	if !plan.Price.IsZero() && !money.TolerantEqual(payment.Amount, plan.Price) {
		s.log.Warn("activation rejected: amount does not match plan price",
			zap.Int64("payment_id", int64(payment.ID)),
			zap.String("payment_amount", payment.Amount.String()),
			zap.String("plan_price", plan.Price.String()),
		)
		return zero, fmt.Errorf("%w: paid %s, plan price %s",
			subscriptiondomain.ErrAmountNotEligible, payment.Amount.String(), plan.Price.String())
	}

	alreadyOnPlan := user.PlanID != nil && *user.PlanID == plan.ID
	if !plan.IsPublic && !caller.IsAdmin() && !alreadyOnPlan {
		s.log.Warn("activation rejected: plan is not publicly available",
			zap.Int64("plan_id", int64(plan.ID)),
			zap.Int64("target_user_id", int64(targetID)),
		)
		return zero, subscriptiondomain.ErrPlanNotAvailable
	}

	now := s.clock.Now()

	// Renewal extends the current period instead of restarting it.
	start := now
	if user.SubscriptionStatus == userdomain.SubscriptionStatusActive &&
		alreadyOnPlan && user.SubscriptionEndDate != nil {
		start = *user.SubscriptionEndDate
	}
	end := plandomain.NextBillingDate(start, plan.BillingCycle)

	status := userdomain.SubscriptionStatusActive
	if plan.IsFree() {
		status = userdomain.SubscriptionStatusFree
	}
	user.PlanID = &plan.ID
	user.SubscriptionStatus = status
	user.SubscriptionStartDate = &start
	user.SubscriptionEndDate = end
	user.TrialEndsAt = nil
	user.UpdatedAt = now

	order.Status = orderdomain.OrderStatusActive
	order.StartDate = &start
	order.EndDate = end
	order.RenewalDate = end
	order.Amount = payment.Amount
	order.Currency = payment.Currency
	order.UpdatedAt = now

	payment.Status = paymentdomain.PaymentStatusSucceeded
	payment.PlanID = &plan.ID
	if payment.ProcessedAt == nil {
		payment.ProcessedAt = &now
	}
	payment.UpdatedAt = now

	invoice := &invoicedomain.Invoice{
		ID:                    s.node.Generate(),
		Number:                "INV-" + ulid.Make().String(),
		UserID:                user.ID,
		PaymentID:             payment.ID,
		PlanID:                plan.ID,
		Amount:                payment.Amount,
		Currency:              payment.Currency,
		Status:                invoicedomain.InvoiceStatusPaid,
		SubscriptionStartDate: start,
		SubscriptionEndDate:   end,
		CreatedAt:             now,
	}

	// Invoice first: writing it and claiming the payment's invoice
	// slot is what makes a concurrent second activation lose.
	if err := s.invoiceRepo.Create(ctx, tx, invoice); err != nil {
		return zero, err
	}
	claimed, err := s.paymentRepo.ClaimInvoice(ctx, tx, payment.ID, invoice.ID)
	if err != nil {
		return zero, err
	}
	if !claimed {
		return zero, paymentdomain.ErrPaymentAlreadyFinalized
	}
	payment.InvoiceID = &invoice.ID
	order.InvoiceID = &invoice.ID

	if err := s.orderRepo.Save(ctx, tx, order); err != nil {
		return zero, err
	}
	if err := s.paymentRepo.Save(ctx, tx, payment); err != nil {
		return zero, err
	}
	if err := s.userRepo.Save(ctx, tx, user); err != nil {
		return zero, err
	}

	if s.metrics != nil {
		s.metrics.Activations.WithLabelValues(string(plan.BillingCycle)).Inc()
	}
	s.log.Info("plan activated",
		zap.Int64("user_id", int64(user.ID)),
		zap.Int64("plan_id", int64(plan.ID)),
		zap.Int64("payment_id", int64(payment.ID)),
		zap.Int64("invoice_id", int64(invoice.ID)),
	)

	return subscriptiondomain.ActivateResponse{
		Subscription: subscriptiondomain.SubscriptionProjection{
			UserID:    user.ID.String(),
			PlanID:    plan.ID.String(),
			PlanSlug:  plan.Slug,
			Status:    string(user.SubscriptionStatus),
			StartDate: user.SubscriptionStartDate,
			EndDate:   user.SubscriptionEndDate,
		},
		Order: subscriptiondomain.OrderProjection{
			ID:          order.ID.String(),
			Status:      string(order.Status),
			Amount:      order.Amount,
			Currency:    order.Currency,
			StartDate:   order.StartDate,
			EndDate:     order.EndDate,
			RenewalDate: order.RenewalDate,
			InvoiceID:   invoice.ID.String(),
		},
		Payment: subscriptiondomain.PaymentProjection{
			ID:          payment.ID.String(),
			Status:      string(payment.Status),
			Amount:      payment.Amount,
			Currency:    payment.Currency,
			Gateway:     payment.Gateway,
			InvoiceID:   invoice.ID.String(),
			ProcessedAt: payment.ProcessedAt,
		},
		Invoice: subscriptiondomain.InvoiceProjection{
			ID:                    invoice.ID.String(),
			Number:                invoice.Number,
			Amount:                invoice.Amount,
			Currency:              invoice.Currency,
			Status:                string(invoice.Status),
			SubscriptionStartDate: invoice.SubscriptionStartDate,
			SubscriptionEndDate:   invoice.SubscriptionEndDate,
		},
	}, nil
}

func (s *service) Me(ctx context.Context) (subscriptiondomain.SubscriptionProjection, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return subscriptiondomain.SubscriptionProjection{}, userdomain.ErrUserNotFound
	}

	user, err := s.userRepo.FindByID(ctx, s.db, caller.UserID)
	if err != nil {
		return subscriptiondomain.SubscriptionProjection{}, err
	}
	if user == nil {
		return subscriptiondomain.SubscriptionProjection{}, userdomain.ErrUserNotFound
	}

	proj := subscriptiondomain.SubscriptionProjection{
		UserID:    user.ID.String(),
		Status:    string(user.SubscriptionStatus),
		StartDate: user.SubscriptionStartDate,
		EndDate:   user.SubscriptionEndDate,
	}
	if user.PlanID != nil {
		proj.PlanID = user.PlanID.String()
		plan, err := s.planRepo.FindByID(ctx, s.db, int64(*user.PlanID))
		if err != nil {
			s.log.Warn("failed to resolve plan for subscription projection",
				zap.Int64("user_id", int64(user.ID)),
				zap.Int64("plan_id", int64(*user.PlanID)),
				zap.Error(err),
			)
		} else if plan != nil {
			proj.PlanSlug = plan.Slug
		}
	}
	return proj, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ID(id), nil
}

func parseIDOr(raw string, fallback error) (snowflake.ID, error) {
	id, err := parseID(raw)
	if err != nil {
		return 0, fallback
	}
	return id, nil
}

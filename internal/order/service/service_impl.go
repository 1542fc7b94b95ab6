package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/trackwise/billing/internal/clock"
	"github.com/trackwise/billing/internal/gateway"
	"github.com/trackwise/billing/internal/identity"
	"github.com/trackwise/billing/internal/money"
	"github.com/trackwise/billing/internal/observability/metrics"
	orderdomain "github.com/trackwise/billing/internal/order/domain"
	paymentdomain "github.com/trackwise/billing/internal/payment/domain"
	plandomain "github.com/trackwise/billing/internal/plan/domain"
	userdomain "github.com/trackwise/billing/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	OrderRepo   orderdomain.Repository
	PaymentRepo paymentdomain.Repository
	PlanRepo    plandomain.Repository
	UserRepo    userdomain.Repository
	Registry    *gateway.Registry
	Clock       clock.Clock
	Node        *snowflake.Node
	Metrics     *metrics.BillingMetrics
	Logger      *zap.Logger
}

type service struct {
	db          *gorm.DB
	orderRepo   orderdomain.Repository
	paymentRepo paymentdomain.Repository
	planRepo    plandomain.Repository
	userRepo    userdomain.Repository
	registry    *gateway.Registry
	clock       clock.Clock
	node        *snowflake.Node
	metrics     *metrics.BillingMetrics
	log         *zap.Logger
}

func NewService(p Params) orderdomain.Service {
	return &service{
		db:          p.DB,
		orderRepo:   p.OrderRepo,
		paymentRepo: p.PaymentRepo,
		planRepo:    p.PlanRepo,
		userRepo:    p.UserRepo,
		registry:    p.Registry,
		clock:       p.Clock,
		node:        p.Node,
		metrics:     p.Metrics,
		log:         p.Logger.Named("order.service"),
	}
}

func (s *service) Place(ctx context.Context, req orderdomain.PlaceOrderRequest) (orderdomain.PlaceOrderResponse, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return orderdomain.PlaceOrderResponse{}, userdomain.ErrUserNotFound
	}

	if strings.TrimSpace(req.PlanID) == "" {
		return orderdomain.PlaceOrderResponse{}, orderdomain.ErrMissingPlan
	}
	if strings.TrimSpace(req.Currency) == "" {
		return orderdomain.PlaceOrderResponse{}, orderdomain.ErrMissingCurrency
	}
	if strings.TrimSpace(req.PaymentGateway) == "" {
		return orderdomain.PlaceOrderResponse{}, orderdomain.ErrMissingGateway
	}
	if req.Amount == nil {
		return orderdomain.PlaceOrderResponse{}, orderdomain.ErrMissingAmount
	}

	// Resolve the gateway before touching storage so an unknown name
	// never leaves an orphaned order/payment pair behind.
	handler, err := s.registry.Resolve(req.PaymentGateway)
	if err != nil {
		return orderdomain.PlaceOrderResponse{}, err
	}

	planID, err := strconv.ParseInt(strings.TrimSpace(req.PlanID), 10, 64)
	if err != nil {
		return orderdomain.PlaceOrderResponse{}, plandomain.ErrPlanNotFound
	}
	plan, err := s.planRepo.FindByID(ctx, s.db, planID)
	if err != nil {
		return orderdomain.PlaceOrderResponse{}, err
	}
	if plan == nil {
		return orderdomain.PlaceOrderResponse{}, plandomain.ErrPlanNotFound
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		return orderdomain.PlaceOrderResponse{}, orderdomain.ErrAmountNotNumeric
	}

	// Pre-payment check is exact: the catalog price is authoritative
	// and nothing has gone through a gateway yet.
	if !amount.Equal(plan.Price) {
		return orderdomain.PlaceOrderResponse{}, fmt.Errorf("%w: requested %s, plan price %s",
			orderdomain.ErrAmountPriceMismatch, amount.String(), plan.Price.String())
	}

	user, err := s.userRepo.FindByID(ctx, s.db, caller.UserID)
	if err != nil {
		return orderdomain.PlaceOrderResponse{}, err
	}
	if user == nil {
		return orderdomain.PlaceOrderResponse{}, userdomain.ErrUserNotFound
	}

	purpose := strings.TrimSpace(req.Purpose)
	if purpose == "" {
		purpose = paymentdomain.PurposeSubscription
	}

	now := s.clock.Now()
	currency := money.NormalizeCurrency(req.Currency)
	gatewayName := gateway.Normalize(req.PaymentGateway)

	order := &orderdomain.Order{
		ID:        s.node.Generate(),
		UserID:    caller.UserID,
		PlanID:    plan.ID,
		Amount:    amount,
		Currency:  currency,
		Status:    orderdomain.OrderStatusPending,
		Metadata:  datatypes.JSONMap(req.PaymentMethodDetails),
		CreatedAt: now,
		UpdatedAt: now,
	}
	payment := &paymentdomain.Payment{
		ID:          s.node.Generate(),
		UserID:      caller.UserID,
		PlanID:      &plan.ID,
		OrderID:     order.ID,
		Amount:      amount,
		Currency:    currency,
		Gateway:     gatewayName,
		Purpose:     purpose,
		Status:      paymentdomain.PaymentStatusPending,
		ProcessedAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}
		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return err
		}
		order.PaymentID = &payment.ID
		return s.orderRepo.Save(ctx, tx, order)
	})
	if err != nil {
		return orderdomain.PlaceOrderResponse{}, err
	}

	result, err := handler.Checkout(ctx, gateway.CheckoutRequest{
		OrderID:   order.ID,
		PaymentID: payment.ID,
		UserEmail: user.Email,
		PlanName:  plan.Name,
		Amount:    amount,
		Currency:  currency,
	})
	if err != nil {
		return orderdomain.PlaceOrderResponse{}, err
	}

	if s.metrics != nil {
		s.metrics.OrdersPlaced.WithLabelValues(gatewayName).Inc()
	}
	s.log.Info("order placed",
		zap.Int64("order_id", int64(order.ID)),
		zap.Int64("payment_id", int64(payment.ID)),
		zap.Int64("plan_id", int64(plan.ID)),
		zap.String("gateway", gatewayName),
	)

	return orderdomain.PlaceOrderResponse{
		OrderID:   order.ID,
		PaymentID: payment.ID,
		Gateway:   result,
	}, nil
}

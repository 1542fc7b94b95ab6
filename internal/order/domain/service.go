package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/trackwise/billing/internal/gateway"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound       = errors.New("order_not_found")
	ErrMissingPlan         = errors.New("missing_plan")
	ErrMissingAmount       = errors.New("missing_amount")
	ErrMissingCurrency     = errors.New("missing_currency")
	ErrMissingGateway      = errors.New("missing_gateway")
	ErrAmountNotNumeric    = errors.New("amount_not_numeric")
	ErrAmountPriceMismatch = errors.New("amount_price_mismatch")
)

type PlaceOrderRequest struct {
	PlanID               string         `json:"planId"`
	Amount               any            `json:"amount"`
	Currency             string         `json:"currency"`
	PaymentGateway       string         `json:"paymentGateway"`
	PaymentMethodDetails map[string]any `json:"paymentMethodDetails,omitempty"`
	Purpose              string         `json:"purpose,omitempty"`
}

type PlaceOrderResponse struct {
	OrderID   snowflake.ID           `json:"orderId,string"`
	PaymentID snowflake.ID           `json:"paymentId,string"`
	Gateway   gateway.CheckoutResult `json:"gateway"`
}

type Service interface {
	// Place validates the purchase against the plan catalog, creates
	// the pending order/payment pair and dispatches checkout.
	Place(ctx context.Context, req PlaceOrderRequest) (PlaceOrderResponse, error)
}

// Repository persists orders. Methods take the database handle so
// callers can pass a transaction.
type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	Create(ctx context.Context, db *gorm.DB, order *Order) error
	Save(ctx context.Context, db *gorm.DB, order *Order) error
}

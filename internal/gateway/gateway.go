// Package gateway dispatches checkout to a payment gateway by name.
package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	ErrGatewayNotSupported = errors.New("gateway_not_supported")
)

// CheckoutRequest carries the already-persisted order/payment pair to
// the gateway handler.
type CheckoutRequest struct {
	OrderID   snowflake.ID
	PaymentID snowflake.ID
	UserEmail string
	PlanName  string
	Amount    decimal.Decimal
	Currency  string
}

// CheckoutResult is the gateway-specific payload returned to the
// client so it can complete payment.
type CheckoutResult struct {
	Gateway     string `json:"gateway"`
	Message     string `json:"message,omitempty"`
	Reference   string `json:"reference,omitempty"`
	Token       string `json:"token,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

// Handler is one payment gateway integration.
type Handler interface {
	Name() string
	Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error)
}

// Normalize canonicalizes a gateway name for lookup.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(handlers ...Handler) *Registry {
	registry := &Registry{handlers: map[string]Handler{}}
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		name := Normalize(handler.Name())
		if name == "" {
			continue
		}
		registry.handlers[name] = handler
	}
	return registry
}

func (r *Registry) Exists(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.handlers[Normalize(name)]
	return ok
}

// Resolve returns the handler registered under the given name, or
// ErrGatewayNotSupported. Callers resolve before persisting anything
// so an unknown gateway never leaves rows behind.
func (r *Registry) Resolve(name string) (Handler, error) {
	if r == nil {
		return nil, ErrGatewayNotSupported
	}
	handler, ok := r.handlers[Normalize(name)]
	if !ok {
		return nil, ErrGatewayNotSupported
	}
	return handler, nil
}

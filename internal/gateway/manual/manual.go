// Package manual implements the bank-transfer gateway: the user pays
// out of band and submits a confirmation afterwards.
package manual

import (
	"context"

	"github.com/google/uuid"
	"github.com/trackwise/billing/internal/gateway"
)

const Name = "manual"

type handler struct{}

func New() gateway.Handler {
	return handler{}
}

func (handler) Name() string { return Name }

func (handler) Checkout(ctx context.Context, req gateway.CheckoutRequest) (gateway.CheckoutResult, error) {
	_ = ctx
	return gateway.CheckoutResult{
		Gateway:   Name,
		Reference: uuid.NewString(),
		Message:   "Order placed. Complete the transfer and submit your payment confirmation.",
	}, nil
}

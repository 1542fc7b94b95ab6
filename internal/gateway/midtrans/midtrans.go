// Package midtrans implements checkout through the Midtrans Snap API.
package midtrans

import (
	"context"
	"fmt"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/trackwise/billing/internal/config"
	"github.com/trackwise/billing/internal/gateway"
)

const Name = "midtrans"

type handler struct {
	client snap.Client
}

func New(cfg config.Config) gateway.Handler {
	env := midtrans.Sandbox
	if cfg.MidtransProduction {
		env = midtrans.Production
	}

	h := &handler{}
	h.client.New(cfg.MidtransServerKey, env)
	return h
}

func (h *handler) Name() string { return Name }

func (h *handler) Checkout(ctx context.Context, req gateway.CheckoutRequest) (gateway.CheckoutResult, error) {
	_ = ctx // the snap client does not accept a context

	// Snap's gross amount is an integer of currency units. Truncating
	// would under-charge, so fractional amounts are refused outright.
	if !req.Amount.IsInteger() {
		return gateway.CheckoutResult{}, fmt.Errorf("midtrans checkout: amount %s has fractional units, snap accepts whole amounts only", req.Amount)
	}

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID.String(),
			GrossAmt: req.Amount.IntPart(),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			Email: req.UserEmail,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    req.PaymentID.String(),
				Price: req.Amount.IntPart(),
				Qty:   1,
				Name:  req.PlanName,
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, snapErr := h.client.CreateTransaction(snapReq)
	if snapErr != nil {
		return gateway.CheckoutResult{}, fmt.Errorf("midtrans checkout: %v", snapErr.GetMessage())
	}

	return gateway.CheckoutResult{
		Gateway:     Name,
		Reference:   req.OrderID.String(),
		Token:       snapResp.Token,
		RedirectURL: snapResp.RedirectURL,
	}, nil
}

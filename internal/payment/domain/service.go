package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrPaymentNotFound         = errors.New("payment_not_found")
	ErrPaymentNotOwned         = errors.New("payment_not_owned")
	ErrPaymentNotPending       = errors.New("payment_not_pending")
	ErrPaymentAlreadyFinalized = errors.New("payment_already_finalized")
	ErrAmountMismatch          = errors.New("amount_mismatch")
	ErrCurrencyMismatch        = errors.New("currency_mismatch")
)

type ConfirmManualRequest struct {
	PaymentID            string `json:"paymentId"`
	Amount               any    `json:"amount"`
	Currency             string `json:"currency"`
	PaymentGateway       string `json:"paymentGateway"`
	GatewayTransactionID string `json:"gatewayTransactionId"`
}

type RejectRequest struct {
	PaymentID string `json:"paymentId"`
}

type Service interface {
	// ConfirmManual attaches gateway evidence to a still-pending
	// payment owned by the caller. Status is left untouched.
	ConfirmManual(ctx context.Context, req ConfirmManualRequest) (Payment, error)
	// Reject marks a pending payment failed. Admin only.
	Reject(ctx context.Context, req RejectRequest) (Payment, error)
}

// Repository persists payments. Methods take the database handle so
// callers can pass a transaction.
type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	Create(ctx context.Context, db *gorm.DB, payment *Payment) error
	Save(ctx context.Context, db *gorm.DB, payment *Payment) error
	// ClaimInvoice sets invoice_id if and only if it is still null,
	// reporting whether this caller won the claim.
	ClaimInvoice(ctx context.Context, db *gorm.DB, paymentID, invoiceID snowflake.ID) (bool, error)
}

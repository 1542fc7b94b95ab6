// Package domain contains the plan activation contract: the terminal
// step that turns a confirmed payment into a live subscription.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAppliedUserRequired  = errors.New("applied_user_required")
	ErrAppliedUserForbidden = errors.New("applied_user_forbidden")
	ErrPaymentUserMissing   = errors.New("payment_user_missing")
	ErrPaymentNotEligible   = errors.New("payment_not_eligible_for_user")
	ErrPlanMismatch         = errors.New("payment_plan_mismatch")
	ErrAmountNotEligible    = errors.New("payment_amount_not_eligible")
	ErrPlanNotAvailable     = errors.New("plan_not_available")
)

type ActivateRequest struct {
	NewPlanID     string `json:"newPlanId"`
	PaymentID     string `json:"paymentId"`
	AppliedUserID string `json:"appliedUserId,omitempty"`
}

// Projections returned to clients. Never the raw persisted rows.

type SubscriptionProjection struct {
	UserID    string     `json:"userId"`
	PlanID    string     `json:"planId"`
	PlanSlug  string     `json:"planSlug"`
	Status    string     `json:"status"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

type OrderProjection struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	EndDate     *time.Time      `json:"endDate,omitempty"`
	RenewalDate *time.Time      `json:"renewalDate,omitempty"`
	InvoiceID   string          `json:"invoiceId,omitempty"`
}

type PaymentProjection struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Gateway     string          `json:"paymentGateway"`
	InvoiceID   string          `json:"invoiceId,omitempty"`
	ProcessedAt *time.Time      `json:"processedAt,omitempty"`
}

type InvoiceProjection struct {
	ID                    string          `json:"id"`
	Number                string          `json:"number"`
	Amount                decimal.Decimal `json:"amount"`
	Currency              string          `json:"currency"`
	Status                string          `json:"status"`
	SubscriptionStartDate time.Time       `json:"subscriptionStartDate"`
	SubscriptionEndDate   *time.Time      `json:"subscriptionEndDate,omitempty"`
}

type ActivateResponse struct {
	Subscription SubscriptionProjection `json:"subscription"`
	Order        OrderProjection        `json:"order"`
	Payment      PaymentProjection      `json:"payment"`
	Invoice      InvoiceProjection      `json:"invoice"`
}

type Service interface {
	// Activate verifies authorization and consistency for the given
	// payment, then transitions payment, order, invoice and user
	// together. Safe to retry: a payment activates at most once.
	Activate(ctx context.Context, req ActivateRequest) (ActivateResponse, error)
	// Me returns the caller's current subscription projection.
	Me(ctx context.Context) (SubscriptionProjection, error)
}

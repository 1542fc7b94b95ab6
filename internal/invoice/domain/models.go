// Package domain contains the invoice issued once per activated
// payment.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceStatusPaid InvoiceStatus = "paid"
)

// Invoice is written exactly once per activated payment and never
// mutated afterwards.
type Invoice struct {
	ID                    snowflake.ID      `gorm:"primaryKey" json:"id,string"`
	Number                string            `gorm:"type:text;not null;uniqueIndex" json:"number"`
	UserID                snowflake.ID      `gorm:"not null;index" json:"userId,string"`
	PaymentID             snowflake.ID      `gorm:"not null;index" json:"paymentId,string"`
	PlanID                snowflake.ID      `gorm:"not null;index" json:"planId,string"`
	Amount                decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency              string            `gorm:"type:text;not null" json:"currency"`
	Status                InvoiceStatus     `gorm:"type:text;not null" json:"status"`
	SubscriptionStartDate time.Time         `gorm:"not null" json:"subscriptionStartDate"`
	SubscriptionEndDate   *time.Time        `json:"subscriptionEndDate,omitempty"`
	Metadata              datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt             time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

var (
	ErrInvoiceNotFound = errors.New("invoice_not_found")
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByPaymentID(ctx context.Context, db *gorm.DB, paymentID snowflake.ID) (*Invoice, error)
	Create(ctx context.Context, db *gorm.DB, invoice *Invoice) error
}

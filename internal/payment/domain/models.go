// Package domain contains payment records and the manual confirmation
// contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentStatus represents lifecycle states for a payment.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

const PurposeSubscription = "subscription"

// Payment is the money side of an order. InvoiceID doubles as the
// activation idempotency guard: once set the payment can never be
// activated again, enforced by a unique index.
type Payment struct {
	ID                   snowflake.ID      `gorm:"primaryKey" json:"id,string"`
	UserID               snowflake.ID      `gorm:"not null;index" json:"userId,string"`
	PlanID               *snowflake.ID     `gorm:"index" json:"planId,string,omitempty"`
	OrderID              snowflake.ID      `gorm:"not null;index" json:"orderId,string"`
	Amount               decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency             string            `gorm:"type:text;not null" json:"currency"`
	Gateway              string            `gorm:"type:text;not null" json:"paymentGateway"`
	GatewayTransactionID string            `gorm:"type:text" json:"gatewayTransactionId,omitempty"`
	Purpose              string            `gorm:"type:text;not null" json:"purpose"`
	Status               PaymentStatus     `gorm:"type:text;not null" json:"status"`
	InvoiceID            *snowflake.ID     `gorm:"uniqueIndex" json:"invoiceId,string,omitempty"`
	ProcessedAt          *time.Time        `json:"processedAt,omitempty"`
	Metadata             datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt            time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt            time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

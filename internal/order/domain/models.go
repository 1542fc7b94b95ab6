// Package domain contains order models and the placement contract.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus represents lifecycle states for an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)

// Order is a user's intent to subscribe to a plan. Created pending by
// placement, transitioned to active only by plan activation.
type Order struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id,string"`
	UserID      snowflake.ID      `gorm:"not null;index" json:"userId,string"`
	PlanID      snowflake.ID      `gorm:"not null;index" json:"planId,string"`
	PaymentID   *snowflake.ID     `gorm:"index" json:"paymentId,string,omitempty"`
	InvoiceID   *snowflake.ID     `gorm:"index" json:"invoiceId,string,omitempty"`
	Amount      decimal.Decimal   `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency    string            `gorm:"type:text;not null" json:"currency"`
	Status      OrderStatus       `gorm:"type:text;not null" json:"status"`
	StartDate   *time.Time        `json:"startDate,omitempty"`
	EndDate     *time.Time        `json:"endDate,omitempty"`
	RenewalDate *time.Time        `json:"renewalDate,omitempty"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Order) TableName() string { return "orders" }

// Package domain contains the plan catalog models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// BillingCycle is how often a plan renews.
type BillingCycle string

const (
	BillingCycleFree     BillingCycle = "free"
	BillingCycleMonthly  BillingCycle = "monthly"
	BillingCycleAnnually BillingCycle = "annually"
	BillingCycleLifetime BillingCycle = "lifetime"
)

// Plan is a purchasable subscription tier. The billing workflow treats
// the catalog as read-only; plans are managed out of band.
type Plan struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id,string"`
	Name         string          `gorm:"type:text;not null" json:"name"`
	Slug         string          `gorm:"type:text;not null;uniqueIndex" json:"slug"`
	Description  string          `gorm:"type:text" json:"description,omitempty"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Currency     string          `gorm:"type:text;not null" json:"currency"`
	BillingCycle BillingCycle    `gorm:"type:text;not null" json:"billingCycle"`
	IsPublic     bool            `gorm:"not null;default:true" json:"isPublic"`
	CreatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (Plan) TableName() string { return "plans" }

// IsFree reports whether the plan costs nothing.
func (p Plan) IsFree() bool {
	return p.Price.IsZero()
}

// NextBillingDate computes when a subscription started at the given
// instant comes up for renewal. Cycles without a renewal horizon
// (free, lifetime, anything unknown) yield nil.
func NextBillingDate(start time.Time, cycle BillingCycle) *time.Time {
	var next time.Time
	switch cycle {
	case BillingCycleMonthly:
		next = start.AddDate(0, 1, 0)
	case BillingCycleAnnually:
		next = start.AddDate(1, 0, 0)
	default:
		return nil
	}
	return &next
}

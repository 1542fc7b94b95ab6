// Package domain contains the user directory models the billing
// workflow reads and mutates. Account management itself lives in
// another service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionStatusFree     SubscriptionStatus = "free"
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusInactive SubscriptionStatus = "inactive"
)

type User struct {
	ID                    snowflake.ID       `gorm:"primaryKey" json:"id,string"`
	Email                 string             `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Role                  string             `gorm:"type:text;not null;default:user" json:"role"`
	PlanID                *snowflake.ID      `gorm:"index" json:"planId,string,omitempty"`
	SubscriptionStatus    SubscriptionStatus `gorm:"type:text;not null;default:free" json:"subscriptionStatus"`
	SubscriptionStartDate *time.Time         `json:"subscriptionStartDate,omitempty"`
	SubscriptionEndDate   *time.Time         `json:"subscriptionEndDate,omitempty"`
	TrialEndsAt           *time.Time         `json:"trialEndsAt,omitempty"`
	CreatedAt             time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt             time.Time          `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }

var (
	ErrUserNotFound = errors.New("user_not_found")
)

type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	Save(ctx context.Context, db *gorm.DB, user *User) error
}

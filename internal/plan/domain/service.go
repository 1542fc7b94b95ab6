package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrPlanNotFound = errors.New("plan_not_found")
)

// Repository reads the plan catalog. Methods take the database handle
// so callers can pass a transaction.
type Repository interface {
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Plan, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Plan, error)
	List(ctx context.Context, db *gorm.DB, publicOnly bool) ([]Plan, error)
}

type Service interface {
	List(ctx context.Context) ([]Plan, error)
	Get(ctx context.Context, idOrSlug string) (Plan, error)
}

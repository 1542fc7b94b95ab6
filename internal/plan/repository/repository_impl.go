package repository

import (
	"context"
	"errors"

	plandomain "github.com/trackwise/billing/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() plandomain.Repository {
	return &repo{}
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*plandomain.Plan, error) {
	var plan plandomain.Plan
	if err := db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*plandomain.Plan, error) {
	var plan plandomain.Plan
	if err := db.WithContext(ctx).First(&plan, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, publicOnly bool) ([]plandomain.Plan, error) {
	query := db.WithContext(ctx).Order("price asc")
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}

	var plans []plandomain.Plan
	if err := query.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

package service

import (
	"context"
	"strconv"
	"strings"

	plandomain "github.com/trackwise/billing/internal/plan/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Repo   plandomain.Repository
	Logger *zap.Logger
}

type service struct {
	db   *gorm.DB
	repo plandomain.Repository
	log  *zap.Logger
}

func NewService(p Params) plandomain.Service {
	return &service{
		db:   p.DB,
		repo: p.Repo,
		log:  p.Logger.Named("plan.service"),
	}
}

func (s *service) List(ctx context.Context) ([]plandomain.Plan, error) {
	return s.repo.List(ctx, s.db, true)
}

func (s *service) Get(ctx context.Context, idOrSlug string) (plandomain.Plan, error) {
	idOrSlug = strings.TrimSpace(idOrSlug)
	if idOrSlug == "" {
		return plandomain.Plan{}, plandomain.ErrPlanNotFound
	}

	var (
		plan *plandomain.Plan
		err  error
	)
	if id, parseErr := strconv.ParseInt(idOrSlug, 10, 64); parseErr == nil {
		plan, err = s.repo.FindByID(ctx, s.db, id)
	} else {
		plan, err = s.repo.FindBySlug(ctx, s.db, idOrSlug)
	}
	if err != nil {
		return plandomain.Plan{}, err
	}
	if plan == nil {
		return plandomain.Plan{}, plandomain.ErrPlanNotFound
	}
	return *plan, nil
}

package product

import (
	"context"

	"sewa-be/internal/apperror"
	"sewa-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	GetList(ctx context.Context, limit, page *int32) ([]*Product, error)
	GetProductByID(ctx context.Context, productID uint) (*Product, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetList(ctx context.Context, limit, page *int32) ([]*Product, error) {
	products, err := s.repo.List(ctx, limit, page)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list products",
			zap.String("layer", "service"),
			zap.String("method", "GetList"),
			zap.Error(err),
		)
		return nil, apperror.Wrap(ErrFailedGetProducts, err)
	}
	return products, nil
}

// GetProductByID hides blocked products the same way the listing does.
func (s *service) GetProductByID(ctx context.Context, productID uint) (*Product, error) {
	p, err := s.repo.GetProductByID(ctx, GetProductOptions{
		ProductID:    productID,
		OnlyRentable: true,
	})
	if err != nil {
		return nil, apperror.Wrap(ErrFailedGetProducts, err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

package product

import (
	"context"
	"errors"
	"testing"

	"sewa-be/internal/apperror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetProductByID(ctx context.Context, opts GetProductOptions) (*Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Product), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, limit, page *int32) ([]*Product, error) {
	args := m.Called(ctx, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Product), args.Error(1)
}

func TestService_GetList(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)
		limit := int32(10)

		repo.On("List", ctx, &limit, (*int32)(nil)).
			Return([]*Product{{ID: 1, Name: "Tent", Price: decimal.RequireFromString("100.00")}}, nil)

		products, err := svc.GetList(ctx, &limit, nil)
		assert.NoError(t, err)
		assert.Len(t, products, 1)
		repo.AssertExpectations(t)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("List", ctx, (*int32)(nil), (*int32)(nil)).Return(nil, errors.New("db down"))

		_, err := svc.GetList(ctx, nil, nil)
		assert.ErrorIs(t, err, ErrFailedGetProducts)
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	})
}

func TestService_GetProductByID(t *testing.T) {
	ctx := context.Background()
	opts := GetProductOptions{ProductID: 5, OnlyRentable: true}

	t.Run("Found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetProductByID", ctx, opts).Return(&Product{ID: 5, Name: "Stove"}, nil)

		p, err := svc.GetProductByID(ctx, 5)
		assert.NoError(t, err)
		assert.Equal(t, "Stove", p.Name)
	})

	t.Run("Not found", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		repo.On("GetProductByID", ctx, opts).Return(nil, nil)

		_, err := svc.GetProductByID(ctx, 5)
		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

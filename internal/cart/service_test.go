package cart

import (
	"context"
	"errors"
	"math"
	"testing"

	"sewa-be/internal/apperror"
	"sewa-be/internal/auth"
	"sewa-be/internal/product"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetLine(ctx context.Context, userID, lineID uint) (*CartLine, error) {
	args := m.Called(ctx, userID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartLine), args.Error(1)
}

func (m *MockRepository) GetLineByProduct(ctx context.Context, userID, productID uint) (*CartLine, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartLine), args.Error(1)
}

func (m *MockRepository) CreateLine(ctx context.Context, params CreateLineParams) (*CartLine, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartLine), args.Error(1)
}

func (m *MockRepository) SetQuantity(ctx context.Context, params SetQuantityParams) (*CartLine, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*CartLine), args.Error(1)
}

func (m *MockRepository) DeleteLine(ctx context.Context, userID, lineID uint) error {
	args := m.Called(ctx, userID, lineID)
	return args.Error(0)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uint) ([]*CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*CartLine), args.Error(1)
}

// MockProductRepository is a mock for the catalog repository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetProductByID(ctx context.Context, opts product.GetProductOptions) (*product.Product, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductRepository) List(ctx context.Context, limit, page *int32) ([]*product.Product, error) {
	args := m.Called(ctx, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func TestLineTotal(t *testing.T) {
	price := decimal.RequireFromString("100.00")
	assert.True(t, decimal.RequireFromString("200.00").Equal(LineTotal(price, 2)))
	assert.Equal(t, "37.50", LineTotal(decimal.RequireFromString("12.50"), 3).StringFixed(2))
}

func TestService_AddLine(t *testing.T) {
	ctx := context.Background()
	caller := auth.Caller{UserID: 1, Role: auth.RoleUser}
	tent := &product.Product{ID: 5, Name: "Tent", Price: decimal.RequireFromString("100.00")}
	productOpts := product.GetProductOptions{ProductID: 5, OnlyRentable: true}

	t.Run("New line stores price times quantity", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProduct := new(MockProductRepository)
		svc := NewService(mockRepo, mockProduct)

		mockProduct.On("GetProductByID", ctx, productOpts).Return(tent, nil)
		mockRepo.On("GetLineByProduct", ctx, uint(1), uint(5)).Return(nil, nil)
		mockRepo.On("CreateLine", ctx, mock.MatchedBy(func(p CreateLineParams) bool {
			return p.UserID == 1 && p.ProductID == 5 && p.Quantity == 2 &&
				p.LineTotal.Equal(decimal.RequireFromString("200.00"))
		})).Return(&CartLine{ID: 10, UserID: 1, ProductID: 5, Quantity: 2, LineTotal: decimal.RequireFromString("200.00")}, nil)

		line, err := svc.AddLine(ctx, caller, AddLineInput{ProductID: 5, Quantity: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, line.Quantity)
		assert.Equal(t, "200.00", line.LineTotal.StringFixed(2))
		mockRepo.AssertExpectations(t)
		mockProduct.AssertExpectations(t)
	})

	t.Run("Second add merges into existing line", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProduct := new(MockProductRepository)
		svc := NewService(mockRepo, mockProduct)

		existing := &CartLine{ID: 10, UserID: 1, ProductID: 5, Quantity: 2, LineTotal: decimal.RequireFromString("200.00")}
		mockProduct.On("GetProductByID", ctx, productOpts).Return(tent, nil)
		mockRepo.On("GetLineByProduct", ctx, uint(1), uint(5)).Return(existing, nil)
		mockRepo.On("SetQuantity", ctx, mock.MatchedBy(func(p SetQuantityParams) bool {
			return p.LineID == 10 && p.Quantity == 5 && p.ExpectedQuantity == 2 &&
				p.LineTotal.Equal(decimal.RequireFromString("500.00"))
		})).Return(&CartLine{ID: 10, UserID: 1, ProductID: 5, Quantity: 5, LineTotal: decimal.RequireFromString("500.00")}, nil)

		line, err := svc.AddLine(ctx, caller, AddLineInput{ProductID: 5, Quantity: 3})

		require.NoError(t, err)
		assert.Equal(t, 5, line.Quantity)
		assert.Equal(t, "500.00", line.LineTotal.StringFixed(2))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Retries after losing an insert race", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProduct := new(MockProductRepository)
		svc := NewService(mockRepo, mockProduct)

		racer := &CartLine{ID: 11, UserID: 1, ProductID: 5, Quantity: 1, LineTotal: decimal.RequireFromString("100.00")}
		mockProduct.On("GetProductByID", ctx, productOpts).Return(tent, nil)
		mockRepo.On("GetLineByProduct", ctx, uint(1), uint(5)).Return(nil, nil).Once()
		mockRepo.On("CreateLine", ctx, mock.Anything).Return(nil, errLineExists).Once()
		mockRepo.On("GetLineByProduct", ctx, uint(1), uint(5)).Return(racer, nil).Once()
		mockRepo.On("SetQuantity", ctx, mock.MatchedBy(func(p SetQuantityParams) bool {
			return p.Quantity == 3 && p.ExpectedQuantity == 1
		})).Return(&CartLine{ID: 11, Quantity: 3, LineTotal: decimal.RequireFromString("300.00")}, nil)

		line, err := svc.AddLine(ctx, caller, AddLineInput{ProductID: 5, Quantity: 2})

		require.NoError(t, err)
		assert.Equal(t, 3, line.Quantity)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Gives up after repeated conflicts", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProduct := new(MockProductRepository)
		svc := NewService(mockRepo, mockProduct)

		existing := &CartLine{ID: 10, Quantity: 1}
		mockProduct.On("GetProductByID", ctx, productOpts).Return(tent, nil)
		mockRepo.On("GetLineByProduct", ctx, uint(1), uint(5)).Return(existing, nil)
		mockRepo.On("SetQuantity", ctx, mock.Anything).Return(nil, errStaleLine)

		_, err := svc.AddLine(ctx, caller, AddLineInput{ProductID: 5, Quantity: 1})

		assert.ErrorIs(t, err, ErrConcurrentUpdate)
		mockRepo.AssertNumberOfCalls(t, "SetQuantity", maxWriteAttempts)
	})

	t.Run("Invalid quantity", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))

		for _, qty := range []int{0, -3} {
			_, err := svc.AddLine(ctx, caller, AddLineInput{ProductID: 5, Quantity: qty})
			assert.ErrorIs(t, err, ErrInvalidQuantity)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		}
	})

	t.Run("Quantity beyond column range", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))

		for _, qty := range []int{math.MaxInt32 + 1, 5_000_000_000, math.MaxInt64} {
			_, err := svc.AddLine(ctx, caller, AddLineInput{ProductID: 5, Quantity: qty})
			assert.ErrorIs(t, err, ErrQuantityTooLarge)
			assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		}
		mockRepo.AssertNotCalled(t, "CreateLine", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything)
	})

	t.Run("Merged quantity cannot wrap", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProduct := new(MockProductRepository)
		svc := NewService(mockRepo, mockProduct)

		cheap := &product.Product{ID: 5, Name: "Peg", Price: decimal.RequireFromString("0.01")}
		existing := &CartLine{ID: 10, UserID: 1, ProductID: 5, Quantity: math.MaxInt32 - 1}
		mockProduct.On("GetProductByID", ctx, productOpts).Return(cheap, nil)
		mockRepo.On("GetLineByProduct", ctx, uint(1), uint(5)).Return(existing, nil)

		_, err := svc.AddLine(ctx, caller, AddLineInput{ProductID: 5, Quantity: 2})

		assert.ErrorIs(t, err, ErrQuantityTooLarge)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		mockRepo.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything)
	})

	t.Run("Line total beyond numeric column", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProduct := new(MockProductRepository)
		svc := NewService(mockRepo, mockProduct)

		mockProduct.On("GetProductByID", ctx, productOpts).Return(tent, nil)
		mockRepo.On("GetLineByProduct", ctx, uint(1), uint(5)).Return(nil, nil)

		// 100.00 x 1,000,000 does not fit NUMERIC(10,2)
		_, err := svc.AddLine(ctx, caller, AddLineInput{ProductID: 5, Quantity: 1_000_000})

		assert.ErrorIs(t, err, ErrQuantityTooLarge)
		mockRepo.AssertNotCalled(t, "CreateLine", mock.Anything, mock.Anything)
	})

	t.Run("Unknown product", func(t *testing.T) {
		mockProduct := new(MockProductRepository)
		svc := NewService(new(MockRepository), mockProduct)
		mockProduct.On("GetProductByID", ctx, product.GetProductOptions{ProductID: 99, OnlyRentable: true}).Return(nil, nil)

		_, err := svc.AddLine(ctx, caller, AddLineInput{ProductID: 99, Quantity: 1})

		assert.ErrorIs(t, err, ErrProductNotFound)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))
		_, err := svc.AddLine(ctx, auth.Caller{}, AddLineInput{ProductID: 5, Quantity: 1})
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("Repository failure is internal", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProduct := new(MockProductRepository)
		svc := NewService(mockRepo, mockProduct)

		mockProduct.On("GetProductByID", ctx, productOpts).Return(tent, nil)
		mockRepo.On("GetLineByProduct", ctx, uint(1), uint(5)).Return(nil, errors.New("db down"))

		_, err := svc.AddLine(ctx, caller, AddLineInput{ProductID: 5, Quantity: 1})

		assert.ErrorIs(t, err, ErrFailedCreateCartLine)
		assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
	})
}

func TestService_UpdateLine(t *testing.T) {
	ctx := context.Background()
	caller := auth.Caller{UserID: 1}
	tent := &product.Product{ID: 5, Price: decimal.RequireFromString("100.00")}

	t.Run("Recomputes total from current price", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProduct := new(MockProductRepository)
		svc := NewService(mockRepo, mockProduct)

		line := &CartLine{ID: 10, UserID: 1, ProductID: 5, Quantity: 1, LineTotal: decimal.RequireFromString("90.00")}
		mockRepo.On("GetLine", ctx, uint(1), uint(10)).Return(line, nil)
		mockProduct.On("GetProductByID", ctx, product.GetProductOptions{ProductID: 5}).Return(tent, nil)
		mockRepo.On("SetQuantity", ctx, mock.MatchedBy(func(p SetQuantityParams) bool {
			return p.Quantity == 5 && p.ExpectedQuantity == 1 &&
				p.LineTotal.Equal(decimal.RequireFromString("500"))
		})).Return(&CartLine{ID: 10, Quantity: 5, LineTotal: decimal.RequireFromString("500.00")}, nil)

		updated, err := svc.UpdateLine(ctx, caller, 10, 5)

		require.NoError(t, err)
		assert.Equal(t, 5, updated.Quantity)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Line of another user is not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))
		mockRepo.On("GetLine", ctx, uint(1), uint(77)).Return(nil, nil)

		_, err := svc.UpdateLine(ctx, caller, 77, 2)

		assert.ErrorIs(t, err, ErrCartLineNotFound)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("Invalid quantity", func(t *testing.T) {
		svc := NewService(new(MockRepository), new(MockProductRepository))
		_, err := svc.UpdateLine(ctx, caller, 10, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("Quantity too large", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockProduct := new(MockProductRepository)
		svc := NewService(mockRepo, mockProduct)

		_, err := svc.UpdateLine(ctx, caller, 10, math.MaxInt64)
		assert.ErrorIs(t, err, ErrQuantityTooLarge)

		line := &CartLine{ID: 10, UserID: 1, ProductID: 5, Quantity: 1}
		mockRepo.On("GetLine", ctx, uint(1), uint(10)).Return(line, nil)
		mockProduct.On("GetProductByID", ctx, product.GetProductOptions{ProductID: 5}).Return(tent, nil)

		_, err = svc.UpdateLine(ctx, caller, 10, 1_000_000)
		assert.ErrorIs(t, err, ErrQuantityTooLarge)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
		mockRepo.AssertNotCalled(t, "SetQuantity", mock.Anything, mock.Anything)
	})
}

func TestService_RemoveLine(t *testing.T) {
	ctx := context.Background()
	caller := auth.Caller{UserID: 1}

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))
		mockRepo.On("DeleteLine", ctx, uint(1), uint(10)).Return(nil)

		assert.NoError(t, svc.RemoveLine(ctx, caller, 10))
	})

	t.Run("Not owned", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))
		mockRepo.On("DeleteLine", ctx, uint(1), uint(10)).Return(ErrCartLineNotFound)

		err := svc.RemoveLine(ctx, caller, 10)
		assert.ErrorIs(t, err, ErrCartLineNotFound)
	})

	t.Run("DB error", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockProductRepository))
		mockRepo.On("DeleteLine", ctx, uint(1), uint(10)).Return(errors.New("db error"))

		err := svc.RemoveLine(ctx, caller, 10)
		assert.ErrorIs(t, err, ErrFailedRemoveCartLine)
	})
}

func TestService_ListAndGetLine(t *testing.T) {
	ctx := context.Background()
	caller := auth.Caller{UserID: 1}

	mockRepo := new(MockRepository)
	svc := NewService(mockRepo, new(MockProductRepository))

	lines := []*CartLine{{ID: 1, UserID: 1}, {ID: 2, UserID: 1}}
	mockRepo.On("ListByUser", ctx, uint(1)).Return(lines, nil)
	mockRepo.On("GetLine", ctx, uint(1), uint(2)).Return(lines[1], nil)
	mockRepo.On("GetLine", ctx, uint(1), uint(3)).Return(nil, nil)

	got, err := svc.ListLines(ctx, caller)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	line, err := svc.GetLine(ctx, caller, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), line.ID)

	_, err = svc.GetLine(ctx, caller, 3)
	assert.ErrorIs(t, err, ErrCartLineNotFound)

	_, err = svc.ListLines(ctx, auth.Caller{})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

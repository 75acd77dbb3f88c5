package handler

import (
	"context"

	"sewa-be/internal/auth"
	"sewa-be/internal/cart"
	"sewa-be/internal/order"
	"sewa-be/internal/product"
	"sewa-be/internal/sellerrequest"
	"sewa-be/internal/shipping"
	"sewa-be/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Register(ctx context.Context, input user.RegisterInput) (*user.AuthResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.AuthResponse), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, input user.LoginInput) (*user.AuthResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.AuthResponse), args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) GetList(ctx context.Context, limit, page *int32) ([]*product.Product, error) {
	args := m.Called(ctx, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Product), args.Error(1)
}

func (m *MockProductService) GetProductByID(ctx context.Context, productID uint) (*product.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

type MockCartService struct{ mock.Mock }

func (m *MockCartService) AddLine(ctx context.Context, caller auth.Caller, input cart.AddLineInput) (*cart.CartLine, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartLine), args.Error(1)
}

func (m *MockCartService) GetLine(ctx context.Context, caller auth.Caller, lineID uint) (*cart.CartLine, error) {
	args := m.Called(ctx, caller, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartLine), args.Error(1)
}

func (m *MockCartService) UpdateLine(ctx context.Context, caller auth.Caller, lineID uint, quantity int) (*cart.CartLine, error) {
	args := m.Called(ctx, caller, lineID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartLine), args.Error(1)
}

func (m *MockCartService) RemoveLine(ctx context.Context, caller auth.Caller, lineID uint) error {
	args := m.Called(ctx, caller, lineID)
	return args.Error(0)
}

func (m *MockCartService) ListLines(ctx context.Context, caller auth.Caller) ([]*cart.CartLine, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cart.CartLine), args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) Checkout(ctx context.Context, caller auth.Caller, input order.CheckoutInput) (*order.CheckoutResult, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.CheckoutResult), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, caller auth.Caller, filter order.ListFilter) ([]*order.Order, error) {
	args := m.Called(ctx, caller, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, caller auth.Caller, orderID uint) (*order.Order, error) {
	args := m.Called(ctx, caller, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) RequestCancel(ctx context.Context, caller auth.Caller, orderID uint) (*order.Order, error) {
	return m.Transition(ctx, caller, orderID, order.ActionRequestCancel)
}

func (m *MockOrderService) ConfirmReceived(ctx context.Context, caller auth.Caller, orderID uint) (*order.Order, error) {
	return m.Transition(ctx, caller, orderID, order.ActionConfirmReceived)
}

func (m *MockOrderService) Transition(ctx context.Context, caller auth.Caller, orderID uint, action order.Action) (*order.Order, error) {
	args := m.Called(ctx, caller, orderID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockShippingService struct{ mock.Mock }

func (m *MockShippingService) Create(ctx context.Context, caller auth.Caller, input shipping.CreateShippingInput) (*shipping.Shipping, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Shipping), args.Error(1)
}

func (m *MockShippingService) GetByOrder(ctx context.Context, caller auth.Caller, orderID uint) (*shipping.Shipping, error) {
	args := m.Called(ctx, caller, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.Shipping), args.Error(1)
}

func (m *MockShippingService) List(ctx context.Context, caller auth.Caller) ([]*shipping.Shipping, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*shipping.Shipping), args.Error(1)
}

type MockSellerRequestService struct{ mock.Mock }

func (m *MockSellerRequestService) Submit(ctx context.Context, caller auth.Caller) (*sellerrequest.SellerRequest, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sellerrequest.SellerRequest), args.Error(1)
}

func (m *MockSellerRequestService) List(ctx context.Context, caller auth.Caller) ([]*sellerrequest.SellerRequest, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*sellerrequest.SellerRequest), args.Error(1)
}

func (m *MockSellerRequestService) Get(ctx context.Context, caller auth.Caller, id uint) (*sellerrequest.SellerRequest, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sellerrequest.SellerRequest), args.Error(1)
}

func (m *MockSellerRequestService) Review(ctx context.Context, caller auth.Caller, id uint, input sellerrequest.ReviewInput) (*sellerrequest.SellerRequest, error) {
	args := m.Called(ctx, caller, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sellerrequest.SellerRequest), args.Error(1)
}

type MockIdempotencyStore struct{ mock.Mock }

func (m *MockIdempotencyStore) Claim(ctx context.Context, userID uint, key string) (uint, error) {
	args := m.Called(ctx, userID, key)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, userID uint, key string, orderID uint) error {
	return m.Called(ctx, userID, key, orderID).Error(0)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, userID uint, key string) error {
	return m.Called(ctx, userID, key).Error(0)
}

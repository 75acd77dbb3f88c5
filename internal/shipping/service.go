package shipping

import (
	"context"
	"errors"

	"sewa-be/internal/apperror"
	"sewa-be/internal/auth"
	"sewa-be/internal/logger"
	"sewa-be/internal/order"

	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, caller auth.Caller, input CreateShippingInput) (*Shipping, error)
	GetByOrder(ctx context.Context, caller auth.Caller, orderID uint) (*Shipping, error)
	List(ctx context.Context, caller auth.Caller) ([]*Shipping, error)
}

type service struct {
	repo      Repository
	orderRepo order.Repository
}

func NewService(repo Repository, orderRepo order.Repository) Service {
	return &service{repo: repo, orderRepo: orderRepo}
}

// Create attaches a shipping record to an order the caller may act on.
// It leaves the order status untouched.
func (s *service) Create(ctx context.Context, caller auth.Caller, input CreateShippingInput) (*Shipping, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.Uint("order_id", input.OrderID),
	)

	input.normalize()
	if err := input.validate(); err != nil {
		log.Warn("invalid shipping input", zap.Error(err))
		return nil, err
	}

	if err := s.checkOrderAccess(ctx, caller, input.OrderID); err != nil {
		return nil, err
	}

	sh := &Shipping{
		OrderID:     input.OrderID,
		Address:     input.Address,
		PostalCode:  input.PostalCode,
		PhoneNumber: input.PhoneNumber,
		UserName:    input.UserName,
	}
	err := s.repo.Create(ctx, sh)
	if errors.Is(err, ErrShippingExists) {
		return nil, ErrShippingExists
	}
	if err != nil {
		return nil, apperror.Wrap(ErrFailedCreateShipping, err)
	}

	return sh, nil
}

func (s *service) GetByOrder(ctx context.Context, caller auth.Caller, orderID uint) (*Shipping, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}
	if err := s.checkOrderAccess(ctx, caller, orderID); err != nil {
		return nil, err
	}

	sh, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedGetShipping, err)
	}
	if sh == nil {
		return nil, ErrShippingNotFound
	}
	return sh, nil
}

func (s *service) List(ctx context.Context, caller auth.Caller) ([]*Shipping, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	var owner *uint
	if !caller.CanViewAllOrders() {
		uid := caller.UserID
		owner = &uid
	}

	list, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedGetShipping, err)
	}
	return list, nil
}

// checkOrderAccess reports other users' orders as missing.
func (s *service) checkOrderAccess(ctx context.Context, caller auth.Caller, orderID uint) error {
	o, err := s.orderRepo.GetOrder(ctx, orderID)
	if err != nil {
		return apperror.Wrap(ErrFailedGetShipping, err)
	}
	if o == nil || (!caller.Owns(o.UserID) && !caller.CanViewAllOrders()) {
		return ErrOrderNotFound
	}
	return nil
}

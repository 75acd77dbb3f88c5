package order

import (
	"context"
	"errors"

	"sewa-be/internal/apperror"
	"sewa-be/internal/auth"
	"sewa-be/internal/logger"
	"sewa-be/internal/utils"

	"go.uber.org/zap"
)

type Service interface {
	Checkout(ctx context.Context, caller auth.Caller, input CheckoutInput) (*CheckoutResult, error)
	ListOrders(ctx context.Context, caller auth.Caller, filter ListFilter) ([]*Order, error)
	GetOrder(ctx context.Context, caller auth.Caller, orderID uint) (*Order, error)
	RequestCancel(ctx context.Context, caller auth.Caller, orderID uint) (*Order, error)
	ConfirmReceived(ctx context.Context, caller auth.Caller, orderID uint) (*Order, error)
	Transition(ctx context.Context, caller auth.Caller, orderID uint, action Action) (*Order, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Checkout(ctx context.Context, caller auth.Caller, input CheckoutInput) (*CheckoutResult, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)

	borrow, err := utils.ParseDate(input.BorrowDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	deadline, err := utils.ParseDate(input.ReturnDeadline)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !deadline.After(borrow) {
		log.Warn("return deadline not after borrow date",
			zap.String("borrow_date", input.BorrowDate),
			zap.String("return_deadline", input.ReturnDeadline),
		)
		return nil, ErrDeadlineNotAfter
	}

	o, err := s.repo.Checkout(ctx, CheckoutParams{
		UserID:         caller.UserID,
		BorrowDate:     borrow,
		ReturnDeadline: deadline,
	})
	if errors.Is(err, ErrEmptyCart) {
		return nil, ErrEmptyCart
	}
	if errors.Is(err, ErrProductUnavailable) {
		log.Warn("checkout blocked by unavailable product")
		return nil, ErrProductUnavailable
	}
	if err != nil {
		return nil, apperror.Wrap(ErrFailedCreateOrder, err)
	}

	log.Info("order created", zap.Uint("order_id", o.ID))
	return &CheckoutResult{
		OrderID:    o.ID,
		TotalPrice: o.TotalPrice,
		Message:    "order created",
	}, nil
}

// ListOrders returns the caller's own orders. Staff see every order and may
// narrow by user.
func (s *service) ListOrders(ctx context.Context, caller auth.Caller, filter ListFilter) ([]*Order, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}
	if !caller.CanViewAllOrders() {
		uid := caller.UserID
		filter.UserID = &uid
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperror.Validation("unknown order status")
	}

	orders, err := s.repo.ListOrders(ctx, filter)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedGetOrders, err)
	}
	return orders, nil
}

// GetOrder hides orders of other users behind ErrOrderNotFound.
func (s *service) GetOrder(ctx context.Context, caller auth.Caller, orderID uint) (*Order, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedGetOrders, err)
	}
	if o == nil || (!caller.Owns(o.UserID) && !caller.CanViewAllOrders()) {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *service) RequestCancel(ctx context.Context, caller auth.Caller, orderID uint) (*Order, error) {
	return s.Transition(ctx, caller, orderID, ActionRequestCancel)
}

func (s *service) ConfirmReceived(ctx context.Context, caller auth.Caller, orderID uint) (*Order, error) {
	return s.Transition(ctx, caller, orderID, ActionConfirmReceived)
}

// Transition checks permission and source status before writing anything.
// The write itself is a compare-and-set, so of two racing transitions from
// the same status only one succeeds.
func (s *service) Transition(ctx context.Context, caller auth.Caller, orderID uint, action Action) (*Order, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.String("action", string(action)),
		zap.Uint("order_id", orderID),
	)

	t, ok := LookupTransition(action)
	if !ok {
		return nil, ErrUnknownAction
	}
	if !t.OwnerOnly && !caller.CanManageOrders() {
		log.Warn("staff transition attempted without capability")
		return nil, auth.ErrForbidden
	}

	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedUpdateStatus, err)
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	if t.OwnerOnly && !caller.Owns(o.UserID) {
		if caller.CanViewAllOrders() {
			return nil, auth.ErrForbidden
		}
		return nil, ErrOrderNotFound
	}

	if o.Status != t.From {
		log.Info("transition rejected", zap.String("status", string(o.Status)))
		return nil, t.Err
	}

	updated, err := s.repo.UpdateStatus(ctx, orderID, t)
	if errors.Is(err, errStatusChanged) {
		return nil, t.Err
	}
	if err != nil {
		return nil, apperror.Wrap(ErrFailedUpdateStatus, err)
	}

	updated.Items = o.Items
	log.Info("order transitioned", zap.String("status", string(updated.Status)))
	return updated, nil
}

package order

import (
	"errors"

	"sewa-be/internal/apperror"
)

var (
	ErrEmptyCart          = apperror.EmptyCart("cart is empty")
	ErrProductUnavailable = apperror.Validation("cart contains a product that is no longer available")
	ErrInvalidDate        = apperror.Validation("borrow_date and return_deadline must be dates in YYYY-MM-DD format")
	ErrDeadlineNotAfter   = apperror.Validation("return_deadline must be after borrow_date")
	ErrOrderNotFound      = apperror.NotFound("order not found")
	ErrUnknownAction      = apperror.NotFound("unknown order action")
	ErrCannotCancel       = apperror.InvalidState("cannot cancel order in current status")
	ErrNotShipping        = apperror.InvalidState("order is not in shipping status")
	ErrFailedCreateOrder  = apperror.Internal("failed to create order")
	ErrFailedGetOrders    = apperror.Internal("failed to get orders")
	ErrFailedUpdateStatus = apperror.Internal("failed to update order status")

	// the order left the expected status between read and write
	errStatusChanged = errors.New("order status changed concurrently")
	// fewer cart rows were deleted than were locked
	errCartChanged = errors.New("cart changed during checkout")
)

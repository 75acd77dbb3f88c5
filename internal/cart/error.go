package cart

import (
	"errors"

	"sewa-be/internal/apperror"
)

var (
	// -- Validation & Input --
	ErrInvalidQuantity  = apperror.Validation("quantity must be a positive integer")
	ErrProductNotFound  = apperror.Validation("product does not exist")
	ErrQuantityTooLarge = apperror.Validation("quantity is too large")

	// -- Resource State --
	ErrCartLineNotFound = apperror.NotFound("cart item not found")
	ErrConcurrentUpdate = apperror.Conflict("cart item was modified concurrently, please retry")

	// -- Database & Operation Failures --
	ErrFailedGetCart        = apperror.Internal("failed to get cart")
	ErrFailedCreateCartLine = apperror.Internal("failed to create cart item")
	ErrFailedUpdateCartLine = apperror.Internal("failed to update cart item")
	ErrFailedRemoveCartLine = apperror.Internal("failed to remove cart item")

	// returned by the repository, retried by the service
	errLineExists = errors.New("cart line already exists")
	errStaleLine  = errors.New("cart line quantity changed")
)

const PgUniqueViolation = "23505"

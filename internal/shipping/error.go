package shipping

import "sewa-be/internal/apperror"

var (
	ErrOrderRequired      = apperror.Validation("order is required")
	ErrAddressRequired    = apperror.Validation("address is required")
	ErrPostalCodeRequired = apperror.Validation("postal_code is required")
	ErrPostalCodeTooLong  = apperror.Validation("postal_code must be at most 10 characters")
	ErrPhoneRequired      = apperror.Validation("phone_number is required")
	ErrPhoneTooLong       = apperror.Validation("phone_number must be at most 15 characters")
	ErrUserNameRequired   = apperror.Validation("user_name is required")
	ErrUserNameTooLong    = apperror.Validation("user_name must be at most 255 characters")

	ErrOrderNotFound    = apperror.NotFound("order not found")
	ErrShippingNotFound = apperror.NotFound("shipping not found")
	ErrShippingExists   = apperror.Conflict("shipping already exists for this order")

	ErrFailedCreateShipping = apperror.Internal("failed to create shipping")
	ErrFailedGetShipping    = apperror.Internal("failed to get shipping")
)

const pgUniqueViolation = "23505"

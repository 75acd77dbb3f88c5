package sellerrequest

import (
	"errors"

	"sewa-be/internal/apperror"
)

var (
	ErrInvalidStatus     = apperror.Validation("invalid status")
	ErrRequestNotFound   = apperror.NotFound("seller request not found")
	ErrAlreadySeller     = apperror.Conflict("user is already a seller")
	ErrPendingExists     = apperror.Conflict("a seller request is already pending")
	ErrNotPending        = apperror.InvalidState("seller request has already been reviewed")
	ErrFailedSubmit      = apperror.Internal("failed to submit seller request")
	ErrFailedGetRequests = apperror.Internal("failed to get seller requests")
	ErrFailedReview      = apperror.Internal("failed to review seller request")

	errStaleRequest = errors.New("seller request no longer pending")
)

const pgUniqueViolation = "23505"

package product

import "sewa-be/internal/apperror"

var (
	ErrProductNotFound   = apperror.NotFound("product not found")
	ErrFailedGetProducts = apperror.Internal("failed to get products")
)

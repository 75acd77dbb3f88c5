package cart

import (
	"context"
	"errors"

	"sewa-be/internal/apperror"
	"sewa-be/internal/auth"
	"sewa-be/internal/logger"
	"sewa-be/internal/product"

	"go.uber.org/zap"
)

// maxWriteAttempts bounds the optimistic retry loop on concurrent cart
// writes for the same (user, product).
const maxWriteAttempts = 3

// Service defines the business logic for carts.
type Service interface {
	AddLine(ctx context.Context, caller auth.Caller, input AddLineInput) (*CartLine, error)
	GetLine(ctx context.Context, caller auth.Caller, lineID uint) (*CartLine, error)
	UpdateLine(ctx context.Context, caller auth.Caller, lineID uint, quantity int) (*CartLine, error)
	RemoveLine(ctx context.Context, caller auth.Caller, lineID uint) error
	ListLines(ctx context.Context, caller auth.Caller) ([]*CartLine, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

// AddLine merges into the caller's existing line for the product, if any,
// and stores line_total = price × merged quantity.
func (s *service) AddLine(ctx context.Context, caller auth.Caller, input AddLineInput) (*CartLine, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AddLine"),
		zap.Uint("product_id", input.ProductID),
		zap.Int("quantity", input.Quantity),
	)

	if input.Quantity < 1 {
		log.Warn("invalid quantity")
		return nil, ErrInvalidQuantity
	}
	if input.Quantity > maxQuantity {
		log.Warn("quantity too large")
		return nil, ErrQuantityTooLarge
	}
	if input.ProductID == 0 {
		return nil, ErrProductNotFound
	}

	p, err := s.productRepo.GetProductByID(ctx, product.GetProductOptions{
		ProductID:    input.ProductID,
		OnlyRentable: true,
	})
	if err != nil {
		log.Error("failed to get product", zap.Error(err))
		return nil, apperror.Wrap(ErrFailedCreateCartLine, err)
	}
	if p == nil {
		log.Warn("product not found")
		return nil, ErrProductNotFound
	}

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		existing, err := s.repo.GetLineByProduct(ctx, caller.UserID, p.ID)
		if err != nil {
			log.Error("failed to get existing cart line", zap.Error(err))
			return nil, apperror.Wrap(ErrFailedCreateCartLine, err)
		}

		var line *CartLine
		if existing == nil {
			total, rangeErr := checkedLineTotal(p.Price, input.Quantity)
			if rangeErr != nil {
				log.Warn("line total out of range", zap.Error(rangeErr))
				return nil, rangeErr
			}
			line, err = s.repo.CreateLine(ctx, CreateLineParams{
				UserID:    caller.UserID,
				ProductID: p.ID,
				Quantity:  input.Quantity,
				LineTotal: total,
			})
		} else {
			// compared before adding so the sum cannot wrap
			if input.Quantity > maxQuantity-existing.Quantity {
				log.Warn("merged quantity too large", zap.Int("existing_quantity", existing.Quantity))
				return nil, ErrQuantityTooLarge
			}
			finalQty := existing.Quantity + input.Quantity
			total, rangeErr := checkedLineTotal(p.Price, finalQty)
			if rangeErr != nil {
				log.Warn("line total out of range", zap.Error(rangeErr))
				return nil, rangeErr
			}
			line, err = s.repo.SetQuantity(ctx, SetQuantityParams{
				LineID:           existing.ID,
				UserID:           caller.UserID,
				Quantity:         finalQty,
				LineTotal:        total,
				ExpectedQuantity: existing.Quantity,
			})
		}

		if errors.Is(err, errLineExists) || errors.Is(err, errStaleLine) {
			log.Debug("concurrent cart write, retrying", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, apperror.Wrap(ErrFailedCreateCartLine, err)
		}

		log.Info("cart line saved",
			zap.Uint("cart_line_id", line.ID),
			zap.Int("line_quantity", line.Quantity),
			zap.String("line_total", line.LineTotal.StringFixed(2)),
		)
		return line, nil
	}

	log.Warn("gave up after concurrent cart writes")
	return nil, ErrConcurrentUpdate
}

func (s *service) GetLine(ctx context.Context, caller auth.Caller, lineID uint) (*CartLine, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	line, err := s.repo.GetLine(ctx, caller.UserID, lineID)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedGetCart, err)
	}
	if line == nil {
		return nil, ErrCartLineNotFound
	}
	return line, nil
}

// UpdateLine sets an absolute quantity and recomputes line_total from the
// product's current price.
func (s *service) UpdateLine(ctx context.Context, caller auth.Caller, lineID uint, quantity int) (*CartLine, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateLine"),
		zap.Uint("cart_line_id", lineID),
		zap.Int("quantity", quantity),
	)

	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if quantity > maxQuantity {
		return nil, ErrQuantityTooLarge
	}

	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		line, err := s.repo.GetLine(ctx, caller.UserID, lineID)
		if err != nil {
			return nil, apperror.Wrap(ErrFailedUpdateCartLine, err)
		}
		if line == nil {
			log.Warn("cart line not found for caller")
			return nil, ErrCartLineNotFound
		}

		p, err := s.productRepo.GetProductByID(ctx, product.GetProductOptions{ProductID: line.ProductID})
		if err != nil {
			return nil, apperror.Wrap(ErrFailedUpdateCartLine, err)
		}
		if p == nil {
			return nil, ErrProductNotFound
		}

		total, err := checkedLineTotal(p.Price, quantity)
		if err != nil {
			log.Warn("line total out of range", zap.Error(err))
			return nil, err
		}

		updated, err := s.repo.SetQuantity(ctx, SetQuantityParams{
			LineID:           line.ID,
			UserID:           caller.UserID,
			Quantity:         quantity,
			LineTotal:        total,
			ExpectedQuantity: line.Quantity,
		})
		if errors.Is(err, errStaleLine) {
			continue
		}
		if err != nil {
			log.Error("failed to update cart line", zap.Error(err))
			return nil, apperror.Wrap(ErrFailedUpdateCartLine, err)
		}

		log.Info("cart line updated", zap.String("line_total", updated.LineTotal.StringFixed(2)))
		return updated, nil
	}

	return nil, ErrConcurrentUpdate
}

func (s *service) RemoveLine(ctx context.Context, caller auth.Caller, lineID uint) error {
	if caller.UserID == 0 {
		return auth.ErrUnauthenticated
	}

	err := s.repo.DeleteLine(ctx, caller.UserID, lineID)
	if errors.Is(err, ErrCartLineNotFound) {
		return err
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to remove cart line",
			zap.Uint("cart_line_id", lineID),
			zap.Error(err),
		)
		return apperror.Wrap(ErrFailedRemoveCartLine, err)
	}
	return nil
}

func (s *service) ListLines(ctx context.Context, caller auth.Caller) ([]*CartLine, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	lines, err := s.repo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedGetCart, err)
	}
	return lines, nil
}

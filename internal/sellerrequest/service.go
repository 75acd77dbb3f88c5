package sellerrequest

import (
	"context"
	"errors"

	"sewa-be/internal/apperror"
	"sewa-be/internal/auth"
	"sewa-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Submit(ctx context.Context, caller auth.Caller) (*SellerRequest, error)
	List(ctx context.Context, caller auth.Caller) ([]*SellerRequest, error)
	Get(ctx context.Context, caller auth.Caller, id uint) (*SellerRequest, error)
	Review(ctx context.Context, caller auth.Caller, id uint, input ReviewInput) (*SellerRequest, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, caller auth.Caller) (*SellerRequest, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	isSeller, err := s.repo.IsSeller(ctx, caller.UserID)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedSubmit, err)
	}
	if isSeller {
		return nil, ErrAlreadySeller
	}

	req, err := s.repo.Create(ctx, caller.UserID)
	if errors.Is(err, ErrPendingExists) {
		return nil, ErrPendingExists
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to submit seller request", zap.Error(err))
		return nil, apperror.Wrap(ErrFailedSubmit, err)
	}
	return req, nil
}

func (s *service) List(ctx context.Context, caller auth.Caller) ([]*SellerRequest, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	var filter *uint
	if !caller.CanReviewSellerRequests() {
		uid := caller.UserID
		filter = &uid
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedGetRequests, err)
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, caller auth.Caller, id uint) (*SellerRequest, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedGetRequests, err)
	}
	if req == nil || (!caller.Owns(req.UserID) && !caller.CanReviewSellerRequests()) {
		return nil, ErrRequestNotFound
	}
	return req, nil
}

func (s *service) Review(ctx context.Context, caller auth.Caller, id uint, input ReviewInput) (*SellerRequest, error) {
	if caller.UserID == 0 {
		return nil, auth.ErrUnauthenticated
	}
	if !caller.CanReviewSellerRequests() {
		return nil, auth.ErrForbidden
	}
	if input.Status != StatusApproved && input.Status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Wrap(ErrFailedReview, err)
	}
	if existing == nil {
		return nil, ErrRequestNotFound
	}
	if existing.Status != StatusPending {
		return nil, ErrNotPending
	}

	req, err := s.repo.Review(ctx, id, input.Status)
	if errors.Is(err, errStaleRequest) {
		return nil, ErrNotPending
	}
	if err != nil {
		return nil, apperror.Wrap(ErrFailedReview, err)
	}
	return req, nil
}

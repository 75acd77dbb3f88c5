package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"sewa-be/internal/apperror"
	"sewa-be/internal/auth"
	"sewa-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResponse, error)
	Login(ctx context.Context, input LoginInput) (*AuthResponse, error)
}

type service struct {
	repo      Repository
	jwtSecret string
}

func NewService(repo Repository, jwtSecret string) Service {
	return &service{repo: repo, jwtSecret: jwtSecret}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
	)

	email := normalizeEmail(input.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if len(input.Password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, apperror.Wrap(ErrFailedRegister, err)
	}

	u := &User{
		Username: username,
		Email:    email,
		FullName: strings.TrimSpace(input.FullName),
		Password: hashed,
		Role:     auth.RoleUser,
	}
	err = s.repo.Create(ctx, u)
	if errors.Is(err, ErrEmailExists) {
		log.Info("email already registered", zap.String("email", email))
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, apperror.Wrap(ErrFailedRegister, err)
	}

	token, err := auth.GenerateToken(s.jwtSecret, u.Caller())
	if err != nil {
		log.Error("failed to generate jwt", zap.Uint("user_id", u.ID), zap.Error(err))
		return nil, apperror.Wrap(ErrFailedRegister, err)
	}

	log.Info("register completed", zap.Uint("user_id", u.ID))
	return &AuthResponse{Token: token, User: u}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	u, err := s.repo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		log.Error("failed to find user", zap.Error(err))
		return nil, apperror.Wrap(ErrFailedLogin, err)
	}
	if u == nil {
		log.Info("email not found")
		return nil, ErrInvalidCredentials
	}
	if !CheckPasswordHash(input.Password, u.Password) {
		log.Info("password mismatch", zap.Uint("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(s.jwtSecret, u.Caller())
	if err != nil {
		return nil, apperror.Wrap(ErrFailedLogin, err)
	}
	return &AuthResponse{Token: token, User: u}, nil
}

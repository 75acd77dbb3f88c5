package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 24 * time.Hour

var (
	ErrMissingSecret = errors.New("jwt secret is not set")
	ErrInvalidToken  = errors.New("invalid token")
)

type Claims struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsSeller bool   `json:"is_seller"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// Caller converts verified claims into the request identity.
func (c *Claims) Caller() Caller {
	role := Role(c.Role)
	if !role.Valid() {
		role = RoleUser
	}
	return Caller{
		UserID:   c.UserID,
		Email:    c.Email,
		Role:     role,
		IsSeller: c.IsSeller,
		IsStaff:  c.IsStaff,
	}
}

func GenerateToken(secret string, caller Caller) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}

	claims := Claims{
		UserID:   caller.UserID,
		Email:    caller.Email,
		Role:     string(caller.Role),
		IsSeller: caller.IsSeller,
		IsStaff:  caller.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*Claims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

package auth

import (
	"context"

	"sewa-be/internal/apperror"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Caller is the authenticated identity of a request, resolved once by the
// auth middleware and passed by value into services.
type Caller struct {
	UserID   uint
	Email    string
	Role     Role
	IsSeller bool
	IsStaff  bool
}

// CanViewAllOrders reports whether the caller may read every user's orders.
func (c Caller) CanViewAllOrders() bool {
	return c.IsStaff
}

// CanManageOrders reports whether the caller may drive staff-side order
// transitions (approve, ship, mark returning, complete).
func (c Caller) CanManageOrders() bool {
	return c.IsStaff
}

// CanReviewSellerRequests reports whether the caller may approve or reject
// seller requests.
func (c Caller) CanReviewSellerRequests() bool {
	return c.Role == RoleAdmin
}

// Owns reports whether the caller owns a resource belonging to userID.
func (c Caller) Owns(userID uint) bool {
	return c.UserID != 0 && c.UserID == userID
}

var (
	ErrUnauthenticated = apperror.New(apperror.KindUnauthenticated, "authentication required")
	ErrForbidden       = apperror.New(apperror.KindForbidden, "forbidden")
)

type ctxKey string

const callerKey ctxKey = "caller"

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey, c)
}

func CallerFrom(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(callerKey).(Caller)
	return c, ok
}

// RequireCaller returns the request's caller or ErrUnauthenticated.
func RequireCaller(ctx context.Context) (Caller, error) {
	c, ok := CallerFrom(ctx)
	if !ok || c.UserID == 0 {
		return Caller{}, ErrUnauthenticated
	}
	return c, nil
}

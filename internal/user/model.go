package user

import (
	"time"

	"sewa-be/internal/auth"
)

type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Password  string    `json:"-"`
	Role      auth.Role `json:"role"`
	IsSeller  bool      `json:"is_seller"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

// Caller is the identity carried in tokens issued for u.
func (u *User) Caller() auth.Caller {
	return auth.Caller{
		UserID:   u.ID,
		Email:    u.Email,
		Role:     u.Role,
		IsSeller: u.IsSeller,
		IsStaff:  u.IsStaff,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

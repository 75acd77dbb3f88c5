package sellerrequest

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// SellerRequest is a user's application to become a seller.
type SellerRequest struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReviewInput struct {
	Status Status `json:"status"`
}

package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending         Status = "pending"
	StatusApproved        Status = "approved"
	StatusShipping        Status = "shipping"
	StatusBorrowed        Status = "borrowed"
	StatusReturning       Status = "returning"
	StatusCompleted       Status = "completed"
	StatusCancelRequested Status = "cancel_requested"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusShipping, StatusBorrowed,
		StatusReturning, StatusCompleted, StatusCancelRequested:
		return true
	}
	return false
}

// Order is a rental created at checkout. TotalPrice and Items are frozen
// at creation; only Status changes afterwards.
type Order struct {
	ID             uint            `json:"id"`
	UserID         uint            `json:"user"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	BorrowDate     time.Time       `json:"borrow_date"`
	ReturnDeadline time.Time       `json:"return_deadline"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	Items []*OrderItem `json:"items"`
}

// OrderItem is a cart line consumed by checkout, priced at checkout time.
type OrderItem struct {
	ID         uint            `json:"id"`
	OrderID    uint            `json:"order"`
	CartLineID uint            `json:"cart_line"`
	ProductID  uint            `json:"product"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"total_price"`
}

type CheckoutInput struct {
	BorrowDate     string `json:"borrow_date"`
	ReturnDeadline string `json:"return_deadline"`
}

type CheckoutParams struct {
	UserID         uint
	BorrowDate     time.Time
	ReturnDeadline time.Time
}

type CheckoutResult struct {
	OrderID    uint            `json:"order_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Message    string          `json:"message"`
}

// ListFilter narrows a listing. A nil UserID lists every user's orders.
type ListFilter struct {
	UserID *uint
	Status *Status
	Limit  *int32
	Page   *int32
}

// lockedLine is a cart row read under FOR UPDATE during checkout, with the
// product's live price.
type lockedLine struct {
	CartLineID uint
	ProductID  uint
	Quantity   int
	UnitPrice  decimal.Decimal
}

type CreatedEvent struct {
	OrderID        uint            `json:"order_id"`
	UserID         uint            `json:"user_id"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	BorrowDate     string          `json:"borrow_date"`
	ReturnDeadline string          `json:"return_deadline"`
	ItemCount      int             `json:"item_count"`
}

type StatusChangedEvent struct {
	OrderID uint   `json:"order_id"`
	UserID  uint   `json:"user_id"`
	Action  Action `json:"action"`
	From    Status `json:"from"`
	To      Status `json:"to"`
}

package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityRented      Availability = "rented"
	AvailabilityUnavailable Availability = "unavailable"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusBlocked  Status = "blocked"
)

// Product is the read-only catalog view the rental flow needs.
type Product struct {
	ID           uint            `json:"id"`
	ShopID       uint            `json:"shop_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Availability Availability    `json:"availability_status"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Rentable reports whether the product may be placed in a cart.
func (p *Product) Rentable() bool {
	return p.Status != StatusBlocked
}

type GetProductOptions struct {
	ProductID    uint
	OnlyRentable bool
}

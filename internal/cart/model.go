package cart

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one (product, quantity) entry in a user's active cart.
// LineTotal is the product price times Quantity as of the last write.
type CartLine struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"user"`
	ProductID uint            `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"total_price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Product *ProductSummary `json:"product_detail,omitempty"`
}

type ProductSummary struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type AddLineInput struct {
	ProductID uint `json:"product"`
	Quantity  int  `json:"quantity"`
}

type CreateLineParams struct {
	UserID    uint
	ProductID uint
	Quantity  int
	LineTotal decimal.Decimal
}

// SetQuantityParams rewrites a line's quantity. The write only applies while
// the stored quantity still equals ExpectedQuantity.
type SetQuantityParams struct {
	LineID           uint
	UserID           uint
	Quantity         int
	LineTotal        decimal.Decimal
	ExpectedQuantity int
}

const maxQuantity = math.MaxInt32

// maxLineTotal is the largest value a NUMERIC(10,2) column holds.
var maxLineTotal = decimal.RequireFromString("99999999.99")

// checkedLineTotal validates quantity against the column ranges and returns
// the line total for it.
func checkedLineTotal(price decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, ErrInvalidQuantity
	}
	if quantity > maxQuantity {
		return decimal.Zero, ErrQuantityTooLarge
	}
	total := LineTotal(price, quantity)
	if total.GreaterThan(maxLineTotal) {
		return decimal.Zero, ErrQuantityTooLarge
	}
	return total, nil
}

// LineTotal is the snapshot total stored on a cart line.
func LineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

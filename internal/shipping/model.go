package shipping

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxPostalCodeLen  = 10
	maxPhoneNumberLen = 15
	maxUserNameLen    = 255
)

// Shipping is the delivery address and contact attached to exactly one order.
type Shipping struct {
	ID          uint      `json:"id"`
	OrderID     uint      `json:"order"`
	Address     string    `json:"address"`
	PostalCode  string    `json:"postal_code"`
	PhoneNumber string    `json:"phone_number"`
	UserName    string    `json:"user_name"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateShippingInput struct {
	OrderID     uint   `json:"order"`
	Address     string `json:"address"`
	PostalCode  string `json:"postal_code"`
	PhoneNumber string `json:"phone_number"`
	UserName    string `json:"user_name"`
}

func (in *CreateShippingInput) normalize() {
	in.Address = strings.TrimSpace(in.Address)
	in.PostalCode = strings.TrimSpace(in.PostalCode)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.UserName = strings.TrimSpace(in.UserName)
}

func (in CreateShippingInput) validate() error {
	switch {
	case in.OrderID == 0:
		return ErrOrderRequired
	case in.Address == "":
		return ErrAddressRequired
	case in.PostalCode == "":
		return ErrPostalCodeRequired
	case utf8.RuneCountInString(in.PostalCode) > maxPostalCodeLen:
		return ErrPostalCodeTooLong
	case in.PhoneNumber == "":
		return ErrPhoneRequired
	case utf8.RuneCountInString(in.PhoneNumber) > maxPhoneNumberLen:
		return ErrPhoneTooLong
	case in.UserName == "":
		return ErrUserNameRequired
	case utf8.RuneCountInString(in.UserName) > maxUserNameLen:
		return ErrUserNameTooLong
	}
	return nil
}

type CreatedEvent struct {
	ShippingID uint   `json:"shipping_id"`
	OrderID    uint   `json:"order_id"`
	PostalCode string `json:"postal_code"`
}

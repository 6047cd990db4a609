package order

import (
	"github.com/shopspring/decimal"

	"github.com/wichananm65/kunapet-backend/internal/cart"
)

const StatusPaid = "paid"

// Order is the booking row written when a checkout is paid.
type Order struct {
	OrderID          int             `json:"orderID"`
	UserID           int             `json:"userID"`
	BookingCode      string          `json:"bookingCode"`
	Cart             []cart.Line     `json:"cart"`
	Quantity         int             `json:"quantity"`
	TotalPrice       decimal.Decimal `json:"totalPrice"`
	ShippingPrice    decimal.Decimal `json:"shippingPrice"`
	GrandPrice       decimal.Decimal `json:"grandPrice"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentReference *string         `json:"paymentReference,omitempty"`
	ProviderID       *string         `json:"providerID,omitempty"`
	ServiceID        *string         `json:"serviceID,omitempty"`
	Status           string          `json:"status"`
	CreatedAt        string          `json:"createdAt"`
	UpdatedAt        string          `json:"updatedAt"`
}

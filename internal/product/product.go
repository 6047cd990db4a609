package product

import "github.com/shopspring/decimal"

// Product maps to the `products` table.
type Product struct {
	ID                 string          `json:"id"`
	ProviderID         *string         `json:"providerId,omitempty"`
	Category           string          `json:"category"`
	Name               string          `json:"name"`
	Description        *string         `json:"description,omitempty"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage int             `json:"discountPercentage"`
	Stock              int             `json:"stock"`
	Photos             []string        `json:"photos"`
	Trending           bool            `json:"trending"`
	Featured           bool            `json:"featured"`
}

var hundred = decimal.NewFromInt(100)

// EffectivePrice is the price after discount, rounded to cents.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPercentage <= 0 {
		return p.Price
	}
	pct := decimal.NewFromInt(int64(min(p.DiscountPercentage, 100)))
	return p.Price.Mul(hundred.Sub(pct)).Div(hundred).Round(2)
}

// MainPhoto returns the first photo, used as the cart image.
func (p Product) MainPhoto() *string {
	if len(p.Photos) == 0 || p.Photos[0] == "" {
		return nil
	}
	s := p.Photos[0]
	return &s
}

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Category string
	Trending bool
	Featured bool
	Limit    int
}

// AllowedCategories contains the shop categories shown by the client.
var AllowedCategories = []string{
	"food",
	"toys",
	"accessories",
	"hygiene",
	"health",
}

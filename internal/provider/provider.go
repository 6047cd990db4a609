package provider

import (
	"time"

	"github.com/shopspring/decimal"
)

// Provider is a service or product vendor on the marketplace.
type Provider struct {
	ID                string          `json:"id"`
	UserID            *int            `json:"userId,omitempty"`
	BusinessName      string          `json:"businessName"`
	Description       *string         `json:"description,omitempty"`
	LogoURL           *string         `json:"logoUrl,omitempty"`
	Rating            decimal.Decimal `json:"rating"`
	TotalReviews      int             `json:"totalReviews"`
	Verified          bool            `json:"verified"`
	Address           *string         `json:"address,omitempty"`
	DeliveryAvailable bool            `json:"deliveryAvailable"`
}

// OwnedBy reports whether userID manages this provider.
func (p Provider) OwnedBy(userID int) bool {
	return p.UserID != nil && *p.UserID == userID
}

// Review is a customer's rating of a provider. AuthorName comes from the
// reviewer's profile.
type Review struct {
	ID         int       `json:"id"`
	ProviderID string    `json:"providerId"`
	UserID     int       `json:"userId"`
	AuthorName *string   `json:"authorName,omitempty"`
	Rating     int       `json:"rating"`
	Comment    *string   `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

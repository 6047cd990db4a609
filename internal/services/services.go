// Package services is the catalog of bookable pet services (vet visits,
// walks, grooming, boarding) offered by providers.
package services

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CategoryVeterinary = "veterinary"
	CategoryWalking    = "walking"
	CategoryGrooming   = "grooming"
	CategoryBoarding   = "boarding"
)

var Categories = []string{CategoryVeterinary, CategoryWalking, CategoryGrooming, CategoryBoarding}

// PetService maps to the `services` table.
type PetService struct {
	ID              string          `json:"id"`
	ProviderID      string          `json:"providerId"`
	Category        string          `json:"category"`
	Name            string          `json:"name"`
	Description     *string         `json:"description,omitempty"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes *int            `json:"durationMinutes,omitempty"`
	SpeciesAllowed  []string        `json:"speciesAllowed"`
	Photos          []string        `json:"photos"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"createdAt"`
}

func validCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

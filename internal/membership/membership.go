package membership

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PlanFree    = "free"
	PlanMonthly = "monthly"
	PlanAnnual  = "annual"

	StatusActive = "active"
)

type Plan struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Period string          `json:"period,omitempty"`
}

// Plans lists what the client offers, in display order.
var Plans = []Plan{
	{ID: PlanFree, Name: "Gratis", Price: decimal.Zero},
	{ID: PlanMonthly, Name: "Kunapet Mensual", Price: decimal.RequireFromString("29.90"), Period: "/mes"},
	{ID: PlanAnnual, Name: "Kunapet Anual", Price: decimal.RequireFromString("299.90"), Period: "/año"},
}

type Membership struct {
	UserID    int        `json:"userId"`
	PlanType  string     `json:"planType"`
	Status    string     `json:"status"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	AutoRenew bool       `json:"autoRenew"`
}

func planByID(id string) (Plan, bool) {
	for _, p := range Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

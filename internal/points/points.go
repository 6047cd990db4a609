package points

import "time"

const (
	TypeEarned   = "earned"
	TypeRedeemed = "redeemed"
	TypeBonus    = "bonus"
)

// Entry is one row in the Kunapuntos ledger. Redemptions are negative.
type Entry struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Points      int       `json:"points"`
	Type        string    `json:"transactionType"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Reward struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	PointsRequired int    `json:"pointsRequired"`
	Active         bool   `json:"active"`
}

// Summary is the balance plus newest-first history.
type Summary struct {
	Balance int     `json:"balance"`
	History []Entry `json:"history"`
}

// Balance sums a ledger.
func Balance(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total += e.Points
	}
	return total
}

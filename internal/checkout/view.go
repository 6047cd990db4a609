package checkout

import (
	"context"

	"github.com/wichananm65/kunapet-backend/internal/cart"
	"github.com/wichananm65/kunapet-backend/internal/navigation"
)

// View is everything the client needs to render the current checkout screen.
type View struct {
	State      State               `json:"state"`
	Items      []cart.Line         `json:"items"`
	ItemCount  int                 `json:"itemCount"`
	Totals     cart.Totals         `json:"totals"`
	Selection  *PaymentSelection   `json:"selection,omitempty"`
	Context    SelectionContext    `json:"context"`
	Receipt    *Receipt            `json:"receipt,omitempty"`
	Processing bool                `json:"processing"`
	Navigate   navigation.Envelope `json:"navigate"`
}

func (s *Service) view(ctx context.Context, userID int, sess *session) (View, error) {
	c, err := s.carts.Get(ctx, userID)
	if err != nil {
		return View{}, err
	}
	v := View{
		State:      sess.seq.State(),
		Items:      c.Lines(),
		ItemCount:  c.ItemCount(),
		Totals:     c.Totals(),
		Context:    sess.context,
		Receipt:    sess.receipt,
		Processing: sess.seq.Processing(),
	}
	if sel, ok := sess.seq.Selection(); ok {
		v.Selection = &sel
	}
	v.Navigate = navigation.Envelope{Target: targetFor(v, c.IsEmpty())}
	return v, nil
}

func targetFor(v View, cartEmpty bool) navigation.Target {
	switch v.State {
	case StatePaymentMethodSelection:
		return navigation.PaymentMethods{Total: v.Totals.Total}
	case StateSecurityInfo:
		return navigation.SecurityInfo{}
	case StatePaymentConfirmation:
		if v.Receipt != nil {
			return navigation.PaymentConfirmation{BookingCode: v.Receipt.BookingCode}
		}
		return navigation.Home{}
	case StateHome:
		return navigation.Home{}
	default:
		// an empty cart only offers a way back to browsing
		if cartEmpty {
			return navigation.Shop{}
		}
		return navigation.Cart{}
	}
}

func homeTarget() navigation.Envelope {
	return navigation.Envelope{Target: navigation.Home{}}
}

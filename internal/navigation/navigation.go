// Package navigation defines the closed set of screens the API can direct a
// client to, each carrying only the fields that screen needs.
package navigation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownScreen = errors.New("unknown screen")
	ErrMissingField  = errors.New("missing navigation field")
)

const (
	ScreenHome                = "home"
	ScreenShop                = "shop"
	ScreenCart                = "cart"
	ScreenPaymentMethods      = "payment-methods"
	ScreenSecurityInfo        = "security-info"
	ScreenPaymentConfirmation = "payment-confirmation"
	ScreenProductDetail       = "product-detail"
	ScreenProviderDetail      = "provider-detail"
	ScreenServices            = "services"
)

// Target is implemented only by the types in this package.
type Target interface {
	Screen() string
	target()
}

type Home struct{}

type Shop struct{}

type Cart struct{}

type PaymentMethods struct {
	Total decimal.Decimal `json:"total"`
}

type SecurityInfo struct{}

type PaymentConfirmation struct {
	BookingCode string `json:"bookingCode"`
}

type ProductDetail struct {
	ProductID string `json:"productId"`
}

type ProviderDetail struct {
	ProviderID string `json:"providerId"`
}

type Services struct {
	Category string `json:"category"`
}

func (Home) Screen() string                { return ScreenHome }
func (Shop) Screen() string                { return ScreenShop }
func (Cart) Screen() string                { return ScreenCart }
func (PaymentMethods) Screen() string      { return ScreenPaymentMethods }
func (SecurityInfo) Screen() string        { return ScreenSecurityInfo }
func (PaymentConfirmation) Screen() string { return ScreenPaymentConfirmation }
func (ProductDetail) Screen() string       { return ScreenProductDetail }
func (ProviderDetail) Screen() string      { return ScreenProviderDetail }
func (Services) Screen() string            { return ScreenServices }

func (Home) target()                {}
func (Shop) target()                {}
func (Cart) target()                {}
func (PaymentMethods) target()      {}
func (SecurityInfo) target()        {}
func (PaymentConfirmation) target() {}
func (ProductDetail) target()       {}
func (ProviderDetail) target()      {}
func (Services) target()            {}

// Envelope serializes a target as {"screen": ..., <target fields>}.
type Envelope struct {
	Target Target
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Target == nil {
		return []byte("null"), nil
	}
	fields := map[string]any{}
	raw, err := json.Marshal(e.Target)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["screen"] = e.Target.Screen()
	return json.Marshal(fields)
}

func (e *Envelope) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		e.Target = nil
		return nil
	}
	fields := map[string]string{}
	var generic map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	for k, v := range generic {
		switch x := v.(type) {
		case string:
			fields[k] = x
		case float64:
			fields[k] = decimal.NewFromFloat(x).String()
		}
	}
	t, err := Parse(fields["screen"], fields)
	if err != nil {
		return err
	}
	e.Target = t
	return nil
}

// Parse rebuilds a target from its screen name and string fields.
func Parse(screen string, fields map[string]string) (Target, error) {
	switch screen {
	case ScreenHome:
		return Home{}, nil
	case ScreenShop:
		return Shop{}, nil
	case ScreenCart:
		return Cart{}, nil
	case ScreenSecurityInfo:
		return SecurityInfo{}, nil
	case ScreenPaymentMethods:
		raw, err := required(fields, "total")
		if err != nil {
			return nil, err
		}
		total, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("navigation total: %w", err)
		}
		return PaymentMethods{Total: total}, nil
	case ScreenPaymentConfirmation:
		code, err := required(fields, "bookingCode")
		if err != nil {
			return nil, err
		}
		return PaymentConfirmation{BookingCode: code}, nil
	case ScreenProductDetail:
		id, err := required(fields, "productId")
		if err != nil {
			return nil, err
		}
		return ProductDetail{ProductID: id}, nil
	case ScreenProviderDetail:
		id, err := required(fields, "providerId")
		if err != nil {
			return nil, err
		}
		return ProviderDetail{ProviderID: id}, nil
	case ScreenServices:
		category, err := required(fields, "category")
		if err != nil {
			return nil, err
		}
		return Services{Category: category}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScreen, screen)
	}
}

func required(fields map[string]string, key string) (string, error) {
	v := fields[key]
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	return v, nil
}

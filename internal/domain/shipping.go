package domain

import "github.com/shopspring/decimal"

const (
	FallbackCarrierCode = "fallback"
	FallbackMethodCode  = "standard"
)

// ShippingRate is a single quote produced by a carrier for a destination.
type ShippingRate struct {
	Carrier      string          `json:"carrier"`
	CarrierTitle string          `json:"carrier_title"`
	Method       string          `json:"method"`
	MethodTitle  string          `json:"method_title"`
	Price        decimal.Decimal `json:"price"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

func (r ShippingRate) Code() string {
	return r.Carrier + "_" + r.Method
}

// HasMethod is false for carrier error placeholders, which can never be bound to an order.
func (r ShippingRate) HasMethod() bool {
	return r.Method != ""
}

// ShippingMethod is the normalized entry offered to the shopper.
type ShippingMethod struct {
	Code           string
	CarrierCode    string
	MethodCode     string
	CarrierTitle   string
	Title          string
	Price          decimal.Decimal
	PriceFormatted string
}

func (m ShippingMethod) Description() string {
	return m.CarrierTitle + " - " + m.Title
}

// CarrierPrefix returns the part of a method token before the first underscore.
func CarrierPrefix(code string) string {
	for i := 0; i < len(code); i++ {
		if code[i] == '_' {
			return code[:i]
		}
	}
	return code
}

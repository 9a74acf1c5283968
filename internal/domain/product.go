package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductTypeSimple       = "simple"
	ProductTypeConfigurable = "configurable"
)

const (
	ProductStatusEnabled  = 1
	ProductStatusDisabled = 2
)

type Product struct {
	ID           int
	ParentID     *int
	SKU          string
	Name         string
	TypeID       string
	Price        decimal.Decimal
	SpecialPrice *decimal.Decimal
	Weight       decimal.Decimal
	Status       int
	IsSalable    bool
	// Attributes holds the super attribute values of a variant, keyed by attribute id.
	Attributes map[int]int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p Product) IsConfigurable() bool {
	return p.TypeID == ProductTypeConfigurable
}

func (p Product) IsEnabled() bool {
	return p.Status == ProductStatusEnabled
}

// FinalPrice is the price a guest pays for one unit.
func (p Product) FinalPrice() decimal.Decimal {
	if p.SpecialPrice != nil && p.SpecialPrice.IsPositive() && p.SpecialPrice.LessThan(p.Price) {
		return *p.SpecialPrice
	}
	return p.Price
}

// MatchesAttributes reports whether every requested attribute value is set on the variant.
func (p Product) MatchesAttributes(attrs map[int]int) bool {
	if len(attrs) == 0 {
		return false
	}
	for attrID, optionID := range attrs {
		value, ok := p.Attributes[attrID]
		if !ok || value != optionID {
			return false
		}
	}
	return true
}

package carrier

import (
	"context"

	"github.com/shopspring/decimal"

	"easyorder/internal/domain"
)

const FreeShippingCode = "freeshipping"

type FreeShipping struct {
	config ConfigReader
}

func NewFreeShipping(config ConfigReader) *FreeShipping {
	return &FreeShipping{config: config}
}

func (c *FreeShipping) Code() string {
	return FreeShippingCode
}

// CollectRates offers a zero priced rate once the discounted package value reaches the configured minimum.
func (c *FreeShipping) CollectRates(ctx context.Context, req RateRequest) ([]domain.ShippingRate, error) {
	minimum, _ := c.config.Decimal(ctx, "carriers/freeshipping/free_shipping_subtotal")
	if req.PackageValueWithDiscount.LessThan(minimum) {
		return nil, nil
	}

	return []domain.ShippingRate{{
		Carrier:      FreeShippingCode,
		CarrierTitle: valueOr(c.config.Value(ctx, "carriers/freeshipping/title"), "Free Shipping"),
		Method:       FreeShippingCode,
		MethodTitle:  valueOr(c.config.Value(ctx, "carriers/freeshipping/name"), "Free"),
		Price:        decimal.Zero,
	}}, nil
}

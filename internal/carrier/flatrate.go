package carrier

import (
	"context"

	"github.com/shopspring/decimal"

	"easyorder/internal/domain"
)

const (
	FlatRateCode = "flatrate"

	flatRateTypePerItem = "I"
)

type FlatRate struct {
	config ConfigReader
}

func NewFlatRate(config ConfigReader) *FlatRate {
	return &FlatRate{config: config}
}

func (c *FlatRate) Code() string {
	return FlatRateCode
}

// CollectRates charges the configured price per order, or per item when the type is "I".
func (c *FlatRate) CollectRates(ctx context.Context, req RateRequest) ([]domain.ShippingRate, error) {
	price, ok := c.config.Decimal(ctx, "carriers/flatrate/price")
	if !ok {
		return nil, nil
	}

	if c.config.Value(ctx, "carriers/flatrate/type") == flatRateTypePerItem {
		price = price.Mul(decimal.NewFromInt(int64(req.PackageQty)))
	}

	return []domain.ShippingRate{{
		Carrier:      FlatRateCode,
		CarrierTitle: valueOr(c.config.Value(ctx, "carriers/flatrate/title"), "Flat Rate"),
		Method:       FlatRateCode,
		MethodTitle:  valueOr(c.config.Value(ctx, "carriers/flatrate/name"), "Fixed"),
		Price:        price,
	}}, nil
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

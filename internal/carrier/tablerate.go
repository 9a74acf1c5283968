package carrier

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"easyorder/internal/domain"
	apperrors "easyorder/internal/errors"
)

const (
	TableRateCode   = "tablerate"
	tableRateMethod = "bestway"

	ConditionPackageWeight = "package_weight"
	ConditionPackageValue  = "package_value_with_discount"
	ConditionPackageQty    = "package_qty"
)

type TableRateRepository interface {
	FindRate(ctx context.Context, q TableRateQuery) (decimal.Decimal, error)
}

type TableRateQuery struct {
	StoreID        int
	CountryID      string
	RegionID       int
	Postcode       string
	ConditionName  string
	ConditionValue decimal.Decimal
}

type TableRate struct {
	config ConfigReader
	repo   TableRateRepository
}

func NewTableRate(config ConfigReader, repo TableRateRepository) *TableRate {
	return &TableRate{config: config, repo: repo}
}

func (c *TableRate) Code() string {
	return TableRateCode
}

// CollectRates looks up the most specific table row for the destination and package condition.
func (c *TableRate) CollectRates(ctx context.Context, req RateRequest) ([]domain.ShippingRate, error) {
	condition := valueOr(c.config.Value(ctx, "carriers/tablerate/condition_name"), ConditionPackageWeight)

	q := TableRateQuery{
		StoreID:       req.StoreID,
		CountryID:     req.DestCountryID,
		Postcode:      req.DestPostcode,
		ConditionName: condition,
	}
	if req.DestRegionID != nil {
		q.RegionID = *req.DestRegionID
	}

	switch condition {
	case ConditionPackageWeight:
		q.ConditionValue = req.PackageWeight
	case ConditionPackageValue:
		q.ConditionValue = req.PackageValueWithDiscount
	case ConditionPackageQty:
		q.ConditionValue = decimal.NewFromInt(int64(req.PackageQty))
	default:
		return nil, fmt.Errorf("unsupported table rate condition %q", condition)
	}

	price, err := c.repo.FindRate(ctx, q)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, nil
		}
		return nil, err
	}

	if handling, ok := c.config.Decimal(ctx, "carriers/tablerate/handling_fee"); ok {
		price = price.Add(handling)
	}

	return []domain.ShippingRate{{
		Carrier:      TableRateCode,
		CarrierTitle: valueOr(c.config.Value(ctx, "carriers/tablerate/title"), "Best Way"),
		Method:       tableRateMethod,
		MethodTitle:  valueOr(c.config.Value(ctx, "carriers/tablerate/name"), "Table Rate"),
		Price:        price,
	}}, nil
}

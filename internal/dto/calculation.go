package dto

import "github.com/shopspring/decimal"

type CalculationResult struct {
	ProductPrice decimal.Decimal
	Qty          int
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Total        decimal.Decimal
	Formatted    FormattedCalculation
}

type FormattedCalculation struct {
	ProductPrice string `json:"product_price"`
	Subtotal     string `json:"subtotal"`
	ShippingCost string `json:"shipping_cost"`
	Total        string `json:"total"`
}

type CalculationDTO struct {
	ProductPrice float64              `json:"product_price"`
	Qty          int                  `json:"qty"`
	Subtotal     float64              `json:"subtotal"`
	ShippingCost float64              `json:"shipping_cost"`
	Total        float64              `json:"total"`
	Formatted    FormattedCalculation `json:"formatted"`
}

type CalculateResponse struct {
	Success     bool           `json:"success"`
	Calculation CalculationDTO `json:"calculation"`
}

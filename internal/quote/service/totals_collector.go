package service

import (
	"github.com/shopspring/decimal"

	"easyorder/internal/domain"
)

// TotalsCollector recomputes quote totals. It must run after any change to items, quantity, rates
// or the selected shipping method, before totals are read.
type TotalsCollector struct{}

func NewTotalsCollector() *TotalsCollector {
	return &TotalsCollector{}
}

func (c *TotalsCollector) Collect(q *domain.Quote) {
	subtotal := decimal.Zero
	for i := range q.Items {
		item := &q.Items[i]
		item.RowTotal = item.Price.Mul(decimal.NewFromInt(int64(item.Qty)))
		subtotal = subtotal.Add(item.RowTotal)
	}

	q.Subtotal = subtotal
	q.SubtotalWithDiscount = subtotal

	if weight := q.TotalWeight(); weight.IsPositive() {
		q.ShippingAddress.Weight = weight
	} else {
		q.ShippingAddress.Weight = decimal.NewFromInt(1)
	}

	if method := q.ShippingAddress.ShippingMethod; method != "" {
		if rate, ok := q.ShippingAddress.FindRate(method); ok {
			q.ShippingAddress.ShippingAmount = rate.Price
		}
	} else {
		q.ShippingAddress.ShippingAmount = decimal.Zero
	}

	q.GrandTotal = subtotal.Add(q.ShippingAddress.ShippingAmount)
}

package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// remember to add new states to the validOrderStates map
const (
	OrderStateNew            = "new"
	OrderStatePendingPayment = "pending_payment"
	OrderStateProcessing     = "processing"
	OrderStateComplete       = "complete"
	OrderStateClosed         = "closed"
	OrderStateCanceled       = "canceled"
	OrderStateHolded         = "holded"
	OrderStatePaymentReview  = "payment_review"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
)

var validOrderStates = map[string]struct{}{
	OrderStateNew:            {},
	OrderStatePendingPayment: {},
	OrderStateProcessing:     {},
	OrderStateComplete:       {},
	OrderStateClosed:         {},
	OrderStateCanceled:       {},
	OrderStateHolded:         {},
	OrderStatePaymentReview:  {},
}

func IsValidOrderState(state string) bool {
	_, ok := validOrderStates[state]
	return ok
}

const (
	AddressTypeBilling  = "billing"
	AddressTypeShipping = "shipping"
)

type Order struct {
	ID                  uint
	IncrementID         string
	QuoteID             uint
	StoreID             int
	StoreName           string
	State               string
	Status              string
	CustomerEmail       string
	CustomerFirstname   string
	CustomerLastname    string
	CustomerGroupID     int
	CustomerIsGuest     bool
	ShippingMethod      string
	ShippingDescription string
	PaymentMethod       string
	Subtotal            decimal.Decimal
	ShippingAmount      decimal.Decimal
	GrandTotal          decimal.Decimal
	BaseGrandTotal      decimal.Decimal
	TotalRefunded       decimal.Decimal
	BaseCurrencyCode    string
	OrderCurrencyCode   string
	BillingAddress      *Address
	ShippingAddress     *Address
	Items               []OrderItem
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (o Order) CustomerName() string {
	return strings.TrimSpace(o.CustomerFirstname + " " + o.CustomerLastname)
}

type OrderItem struct {
	ID              uint
	OrderID         uint
	ProductID       int
	ParentProductID *int
	SKU             string
	Name            string
	Qty             int
	Price           decimal.Decimal
	Weight          decimal.Decimal
	RowTotal        decimal.Decimal
}

// OrderGridRow is the denormalized projection listed in the admin order grid.
type OrderGridRow struct {
	EntityID            uint
	Status              string
	StoreID             int
	StoreName           string
	CustomerID          *int
	BaseGrandTotal      decimal.Decimal
	GrandTotal          decimal.Decimal
	IncrementID         string
	BaseCurrencyCode    string
	OrderCurrencyCode   string
	ShippingName        string
	BillingName         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
	BillingAddress      string
	ShippingAddress     string
	ShippingInformation string
	CustomerEmail       string
	CustomerGroup       int
	Subtotal            decimal.Decimal
	ShippingAndHandling decimal.Decimal
	CustomerName        string
	PaymentMethod       string
	TotalRefunded       decimal.Decimal
}

// NewOrderGridRow projects the listing columns from a placed order.
func NewOrderGridRow(o Order) OrderGridRow {
	row := OrderGridRow{
		EntityID:            o.ID,
		Status:              o.Status,
		StoreID:             o.StoreID,
		StoreName:           o.StoreName,
		BaseGrandTotal:      o.BaseGrandTotal,
		GrandTotal:          o.GrandTotal,
		IncrementID:         o.IncrementID,
		BaseCurrencyCode:    o.BaseCurrencyCode,
		OrderCurrencyCode:   o.OrderCurrencyCode,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		ShippingInformation: o.ShippingDescription,
		CustomerEmail:       o.CustomerEmail,
		CustomerGroup:       o.CustomerGroupID,
		Subtotal:            o.Subtotal,
		ShippingAndHandling: o.ShippingAmount,
		CustomerName:        o.CustomerName(),
		PaymentMethod:       o.PaymentMethod,
		TotalRefunded:       o.TotalRefunded,
	}
	if o.ShippingAddress != nil {
		row.ShippingName = o.ShippingAddress.Name()
		row.ShippingAddress = o.ShippingAddress.Oneline()
	}
	if o.BillingAddress != nil {
		row.BillingName = o.BillingAddress.Name()
		row.BillingAddress = o.BillingAddress.Oneline()
	}
	return row
}

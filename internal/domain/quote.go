package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const CustomerGroupNotLoggedIn = 0

type Address struct {
	Firstname  string   `json:"firstname"`
	Lastname   string   `json:"lastname"`
	Company    string   `json:"company"`
	Street     []string `json:"street"`
	City       string   `json:"city"`
	CountryID  string   `json:"country_id"`
	RegionID   *int     `json:"region_id,omitempty"`
	Region     string   `json:"region"`
	RegionCode string   `json:"region_code"`
	Postcode   string   `json:"postcode"`
	Telephone  string   `json:"telephone"`
	Email      string   `json:"email"`
}

func (a Address) Name() string {
	return strings.TrimSpace(a.Firstname + " " + a.Lastname)
}

// Oneline renders the street lines followed by the city, as shown in the order grid.
func (a Address) Oneline() string {
	return strings.Join(a.Street, ", ") + ", " + a.City
}

type ShippingAddress struct {
	Address
	Weight              decimal.Decimal `json:"weight"`
	ShippingMethod      string          `json:"shipping_method"`
	ShippingDescription string          `json:"shipping_description"`
	ShippingAmount      decimal.Decimal `json:"shipping_amount"`
	Rates               []ShippingRate  `json:"rates"`
}

// FindRate returns the collected rate with the given composite code.
func (a ShippingAddress) FindRate(code string) (ShippingRate, bool) {
	for _, rate := range a.Rates {
		if rate.HasMethod() && rate.Code() == code {
			return rate, true
		}
	}
	return ShippingRate{}, false
}

type QuoteItem struct {
	ID              uint
	QuoteID         uint
	ProductID       int
	ParentProductID *int
	SKU             string
	Name            string
	Qty             int
	Price           decimal.Decimal
	Weight          decimal.Decimal
	RowTotal        decimal.Decimal
	SuperAttributes map[int]int
}

// Quote is the cart equivalent a single quick order is assembled on.
type Quote struct {
	ID                   uint
	StoreID              int
	IsActive             bool
	CustomerEmail        string
	CustomerFirstname    string
	CustomerLastname     string
	CustomerGroupID      int
	CustomerIsGuest      bool
	CurrencyCode         string
	Items                []QuoteItem
	BillingAddress       Address
	ShippingAddress      ShippingAddress
	PaymentMethod        string
	Subtotal             decimal.Decimal
	SubtotalWithDiscount decimal.Decimal
	GrandTotal           decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (q *Quote) ItemsCount() int {
	return len(q.Items)
}

func (q *Quote) ItemsQty() int {
	total := 0
	for _, item := range q.Items {
		total += item.Qty
	}
	return total
}

// TotalWeight sums line weight times quantity.
func (q *Quote) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, item := range q.Items {
		total = total.Add(item.Weight.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	return total
}

func (q *Quote) SetItemsQty(qty int) {
	for i := range q.Items {
		q.Items[i].Qty = qty
	}
}

package domain

// QuickOrderData is the shopper input for one quick order, built once per request.
type QuickOrderData struct {
	ProductID       int
	Qty             int
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	Address         string
	City            string
	CountryID       string
	Region          string
	Postcode        string
	ShippingMethod  string
	PaymentMethod   string
	SuperAttributes map[int]int
}

type Region struct {
	ID          int
	CountryID   string
	Code        string
	DefaultName string
}

type PaymentMethod struct {
	Code  string
	Title string
}

package dto

// QuickOrderRequest carries the raw create-order form. Fields are declared in the order their
// required messages are reported.
type QuickOrderRequest struct {
	ProductID       string `validate:"required"`
	CustomerName    string `validate:"required"`
	CustomerPhone   string `validate:"required"`
	City            string `validate:"required"`
	CountryID       string `validate:"required"`
	ShippingMethod  string `validate:"required"`
	PaymentMethod   string `validate:"required"`
	Qty             string
	CustomerEmail   string
	Street          []string
	Region          string
	RegionID        string
	Postcode        string
	SuperAttributes map[int]int
	FormKey         string
}

type QuickOrderResult struct {
	OrderID     uint
	IncrementID string
	Message     string
	RedirectURL string
}

type QuickOrderResponse struct {
	Success     bool   `json:"success"`
	OrderID     uint   `json:"order_id"`
	IncrementID string `json:"increment_id"`
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url"`
}

// FailureResponse is returned with HTTP 200 for every business failure.
type FailureResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type FormKeyResponse struct {
	Success bool   `json:"success"`
	FormKey string `json:"form_key"`
}

package product

type GetPriceRequest struct {
	ProductID       int
	SuperAttributes map[int]int
}

type GetPriceResponse struct {
	Success        bool    `json:"success"`
	Price          float64 `json:"price"`
	FormattedPrice string  `json:"formatted_price"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

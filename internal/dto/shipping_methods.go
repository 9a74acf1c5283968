package dto

import "easyorder/internal/domain"

type ShippingMethodDTO struct {
	Code           string  `json:"code"`
	CarrierCode    string  `json:"carrier_code"`
	MethodCode     string  `json:"method_code"`
	CarrierTitle   string  `json:"carrier_title"`
	Title          string  `json:"title"`
	Price          float64 `json:"price"`
	PriceFormatted string  `json:"price_formatted"`
}

type ShippingMethodsResponse struct {
	Success         bool                `json:"success"`
	ShippingMethods []ShippingMethodDTO `json:"shipping_methods"`
}

func NewShippingMethodDTOs(methods []domain.ShippingMethod) []ShippingMethodDTO {
	out := make([]ShippingMethodDTO, len(methods))
	for i, m := range methods {
		out[i] = ShippingMethodDTO{
			Code:           m.Code,
			CarrierCode:    m.CarrierCode,
			MethodCode:     m.MethodCode,
			CarrierTitle:   m.CarrierTitle,
			Title:          m.Title,
			Price:          m.Price.InexactFloat64(),
			PriceFormatted: m.PriceFormatted,
		}
	}
	return out
}

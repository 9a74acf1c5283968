package product

import (
	"context"
	"fmt"
)

type priceUseCase struct {
	pricer    Pricer
	formatter PriceFormatter
}

func NewPriceUseCase(pricer Pricer, formatter PriceFormatter) PriceUseCase {
	return &priceUseCase{pricer: pricer, formatter: formatter}
}

// GetPrice returns the final price of the product, or of its variant when the selected attributes match one.
func (uc *priceUseCase) GetPrice(ctx context.Context, req GetPriceRequest) (*GetPriceResponse, error) {
	if req.ProductID <= 0 {
		return nil, fmt.Errorf("invalid product id %d", req.ProductID)
	}

	p, err := uc.pricer.PriceFor(ctx, req.ProductID, req.SuperAttributes)
	if err != nil {
		return nil, err
	}

	price := p.FinalPrice()
	return &GetPriceResponse{
		Success:        true,
		Price:          price.InexactFloat64(),
		FormattedPrice: uc.formatter.Format(price),
	}, nil
}

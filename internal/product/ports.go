package product

import (
	"context"

	"github.com/shopspring/decimal"

	"easyorder/internal/domain"
)

type PriceUseCase interface {
	GetPrice(ctx context.Context, req GetPriceRequest) (*GetPriceResponse, error)
}

type Pricer interface {
	PriceFor(ctx context.Context, productID int, attrs map[int]int) (*domain.Product, error)
}

type PriceFormatter interface {
	Format(amount decimal.Decimal) string
}

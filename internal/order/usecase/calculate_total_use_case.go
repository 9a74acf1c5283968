package usecase

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"easyorder/internal/domain"
	"easyorder/internal/dto"
	apperrors "easyorder/internal/errors"
)

type ProductPricer interface {
	PriceFor(ctx context.Context, productID int, attrs map[int]int) (*domain.Product, error)
}

type ShippingQuoter interface {
	AvailableMethods(ctx context.Context, productID int, countryID, region, postcode string) []domain.ShippingMethod
}

type PriceFormatter interface {
	Format(amount decimal.Decimal) string
}

type CalculateTotalInput struct {
	ProductID       int
	Qty             int
	ShippingMethod  string
	CountryID       string
	Region          string
	Postcode        string
	SuperAttributes map[int]int
}

// CalculateTotalUseCase previews the order total shown next to the quick order form.
type CalculateTotalUseCase struct {
	products     ProductPricer
	shipping     ShippingQuoter
	formatter    PriceFormatter
	defaultPrice decimal.Decimal
	logger       *zap.Logger
}

func NewCalculateTotalUseCase(
	products ProductPricer,
	shipping ShippingQuoter,
	formatter PriceFormatter,
	defaultPrice decimal.Decimal,
	logger *zap.Logger,
) *CalculateTotalUseCase {
	return &CalculateTotalUseCase{
		products:     products,
		shipping:     shipping,
		formatter:    formatter,
		defaultPrice: defaultPrice,
		logger:       logger,
	}
}

func (uc *CalculateTotalUseCase) Calculate(ctx context.Context, in CalculateTotalInput) (*dto.CalculationResult, error) {
	if in.ProductID <= 0 || in.ShippingMethod == "" || in.CountryID == "" {
		return nil, apperrors.NewLocalizedError("Required parameters are missing.")
	}
	qty := in.Qty
	if qty < 1 {
		qty = 1
	}

	product, err := uc.products.PriceFor(ctx, in.ProductID, in.SuperAttributes)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewLocalizedErrorf(err, "The product that was requested doesn't exist. Verify the product and try again.")
		}
		return nil, err
	}

	price := product.FinalPrice()
	subtotal := price.Mul(decimal.NewFromInt(int64(qty)))
	shippingCost := uc.shippingCost(ctx, in, qty)
	total := subtotal.Add(shippingCost)

	uc.logger.Debug("total calculated",
		zap.Int("productId", in.ProductID),
		zap.Int("qty", qty),
		zap.String("shippingMethod", in.ShippingMethod),
		zap.String("shippingCost", shippingCost.String()),
		zap.String("total", total.String()))

	return &dto.CalculationResult{
		ProductPrice: price,
		Qty:          qty,
		Subtotal:     subtotal,
		ShippingCost: shippingCost,
		Total:        total,
		Formatted: dto.FormattedCalculation{
			ProductPrice: uc.formatter.Format(price),
			Subtotal:     uc.formatter.Format(subtotal),
			ShippingCost: uc.formatter.Format(shippingCost),
			Total:        uc.formatter.Format(total),
		},
	}, nil
}

// shippingCost charges the selected method once per unit, or the configured default when the
// method is not offered for the destination.
func (uc *CalculateTotalUseCase) shippingCost(ctx context.Context, in CalculateTotalInput, qty int) decimal.Decimal {
	methods := uc.shipping.AvailableMethods(ctx, in.ProductID, in.CountryID, in.Region, in.Postcode)
	for _, m := range methods {
		if m.Code == in.ShippingMethod {
			return m.Price.Mul(decimal.NewFromInt(int64(qty)))
		}
	}

	uc.logger.Info("shipping method not offered, using default price",
		zap.String("shippingMethod", in.ShippingMethod),
		zap.Int("availableMethods", len(methods)))
	return uc.defaultPrice
}

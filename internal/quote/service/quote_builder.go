package service

import (
	"context"

	"go.uber.org/zap"

	"easyorder/internal/domain"
	apperrors "easyorder/internal/errors"
)

type ProductService interface {
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	ResolveVariant(ctx context.Context, parent *domain.Product, attrs map[int]int) (*domain.Product, error)
	FirstAvailableChild(ctx context.Context, parent *domain.Product) (*domain.Product, error)
}

type QuoteRepository interface {
	Save(ctx context.Context, q *domain.Quote) error
	Get(ctx context.Context, id uint) (*domain.Quote, error)
}

type totalsCollector interface {
	Collect(q *domain.Quote)
}

// QuoteBuilder assembles single-product guest quotes.
type QuoteBuilder struct {
	products     ProductService
	quotes       QuoteRepository
	totals       totalsCollector
	storeID      int
	currencyCode string
	logger       *zap.Logger
}

func NewQuoteBuilder(
	products ProductService,
	quotes QuoteRepository,
	totals totalsCollector,
	storeID int,
	currencyCode string,
	logger *zap.Logger,
) *QuoteBuilder {
	return &QuoteBuilder{
		products:     products,
		quotes:       quotes,
		totals:       totals,
		storeID:      storeID,
		currencyCode: currencyCode,
		logger:       logger,
	}
}

// Build creates and persists a guest quote holding one unit of productID. For configurable products,
// attrs selects the variant; without attrs the first available variant is used for quoting.
func (b *QuoteBuilder) Build(ctx context.Context, productID int, attrs map[int]int) (*domain.Quote, error) {
	q, err := b.build(ctx, productID, attrs)
	if err != nil {
		b.logger.Error("failed to create quote", zap.Int("productId", productID), zap.Error(err))
		return nil, apperrors.NewLocalizedErrorf(err, "Unable to create quote: %s", err.Error())
	}
	return q, nil
}

func (b *QuoteBuilder) build(ctx context.Context, productID int, attrs map[int]int) (*domain.Quote, error) {
	product, err := b.products.GetProduct(ctx, productID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewLocalizedErrorf(err, "The product that was requested doesn't exist. Verify the product and try again.")
		}
		return nil, err
	}

	item, err := b.lineItem(ctx, product, attrs)
	if err != nil {
		return nil, err
	}

	q := &domain.Quote{
		StoreID:         b.storeID,
		IsActive:        true,
		CustomerGroupID: domain.CustomerGroupNotLoggedIn,
		CustomerIsGuest: true,
		CurrencyCode:    b.currencyCode,
		Items:           []domain.QuoteItem{item},
	}

	// Bloque 1: totals, persist, reload, totals again
	b.totals.Collect(q)
	if err := b.quotes.Save(ctx, q); err != nil {
		return nil, err
	}

	q, err = b.quotes.Get(ctx, q.ID)
	if err != nil {
		return nil, err
	}
	b.totals.Collect(q)
	if err := b.quotes.Save(ctx, q); err != nil {
		return nil, err
	}

	b.logger.Info("quote created",
		zap.Uint("quoteId", q.ID),
		zap.Int("itemsCount", q.ItemsCount()),
		zap.String("subtotal", q.Subtotal.String()),
		zap.String("grandTotal", q.GrandTotal.String()),
	)

	// Bloque 2: zero subtotal means item prices were lost; recompute rows from the catalog
	if !q.Subtotal.IsPositive() {
		b.recomputeRows(ctx, q)
		b.totals.Collect(q)
		if err := b.quotes.Save(ctx, q); err != nil {
			return nil, err
		}
		b.logger.Warn("manual totals calculation performed",
			zap.Uint("quoteId", q.ID),
			zap.String("subtotal", q.Subtotal.String()),
			zap.String("grandTotal", q.GrandTotal.String()),
		)
	}

	return q, nil
}

func (b *QuoteBuilder) lineItem(ctx context.Context, product *domain.Product, attrs map[int]int) (domain.QuoteItem, error) {
	if !product.IsConfigurable() {
		b.logger.Info("adding simple product to quote", zap.Int("productId", product.ID), zap.String("sku", product.SKU))
		return newItem(product, nil, nil), nil
	}

	if len(attrs) > 0 {
		child, err := b.products.ResolveVariant(ctx, product, attrs)
		if err != nil {
			return domain.QuoteItem{}, err
		}
		b.logger.Info("adding configurable product with selected attributes",
			zap.Int("parentId", product.ID), zap.Int("simpleId", child.ID), zap.String("simpleSku", child.SKU))
		return newItem(child, product, attrs), nil
	}

	child, err := b.products.FirstAvailableChild(ctx, product)
	if err != nil {
		return domain.QuoteItem{}, err
	}
	b.logger.Info("adding fallback simple variant",
		zap.Int("configurableId", product.ID), zap.Int("simpleId", child.ID), zap.String("simpleSku", child.SKU))
	return newItem(child, nil, nil), nil
}

func newItem(product, parent *domain.Product, attrs map[int]int) domain.QuoteItem {
	item := domain.QuoteItem{
		ProductID:       product.ID,
		SKU:             product.SKU,
		Name:            product.Name,
		Qty:             1,
		Price:           product.FinalPrice(),
		Weight:          product.Weight,
		SuperAttributes: attrs,
	}
	if parent != nil {
		parentID := parent.ID
		item.ParentProductID = &parentID
		item.Name = parent.Name
	}
	return item
}

func (b *QuoteBuilder) recomputeRows(ctx context.Context, q *domain.Quote) {
	for i := range q.Items {
		item := &q.Items[i]
		if item.Price.IsPositive() {
			continue
		}
		product, err := b.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			b.logger.Warn("could not reload item price", zap.Int("productId", item.ProductID), zap.Error(err))
			continue
		}
		item.Price = product.FinalPrice()
	}
}

package service

import (
	"context"

	"go.uber.org/zap"

	"easyorder/internal/domain"
	apperrors "easyorder/internal/errors"
)

type Repository interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
	FindChildren(ctx context.Context, parentID int) ([]domain.Product, error)
}

type ProductService struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

func (s *ProductService) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// ResolveVariant returns the child of a configurable product matching every requested attribute value.
func (s *ProductService) ResolveVariant(ctx context.Context, parent *domain.Product, attrs map[int]int) (*domain.Product, error) {
	children, err := s.repo.FindChildren(ctx, parent.ID)
	if err != nil {
		return nil, err
	}

	for i := range children {
		if children[i].MatchesAttributes(attrs) {
			return &children[i], nil
		}
	}

	s.logger.Warn("no variant matches selected attributes", zap.Int("productId", parent.ID), zap.Any("attributes", attrs))
	return nil, apperrors.NewLocalizedError("Selected product configuration is not available")
}

// FirstAvailableChild picks the first enabled and salable variant, falling back to the first variant.
func (s *ProductService) FirstAvailableChild(ctx context.Context, parent *domain.Product) (*domain.Product, error) {
	children, err := s.repo.FindChildren(ctx, parent.ID)
	if err != nil {
		return nil, err
	}

	if len(children) == 0 {
		return nil, apperrors.NewLocalizedError("No available product variants found")
	}

	for i := range children {
		if children[i].IsEnabled() && children[i].IsSalable {
			return &children[i], nil
		}
	}

	return &children[0], nil
}

// PriceFor returns the final unit price of a product, using the selected variant when one matches.
func (s *ProductService) PriceFor(ctx context.Context, productID int, attrs map[int]int) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if !product.IsConfigurable() || len(attrs) == 0 {
		return product, nil
	}

	child, err := s.ResolveVariant(ctx, product, attrs)
	if err != nil {
		if _, ok := apperrors.IsLocalizedError(err); ok {
			return product, nil
		}
		return nil, err
	}

	return child, nil
}

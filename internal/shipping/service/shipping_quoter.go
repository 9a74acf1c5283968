package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"easyorder/internal/domain"
)

const (
	defaultPostcode = "11511"
	defaultCity     = "Cairo"
)

type QuoteBuilder interface {
	Build(ctx context.Context, productID int, attrs map[int]int) (*domain.Quote, error)
}

type RegionResolver interface {
	ResolveID(ctx context.Context, region, countryID string) *int
}

type MethodCollector interface {
	Collect(ctx context.Context, q *domain.Quote, requestID string) []domain.ShippingMethod
}

// ShippingQuoter answers "what can this product ship with to this destination" for the storefront.
type ShippingQuoter struct {
	builder   QuoteBuilder
	regions   RegionResolver
	collector MethodCollector
	allowed   []string
	logger    *zap.Logger
}

func NewShippingQuoter(builder QuoteBuilder, regions RegionResolver, collector MethodCollector, allowed []string, logger *zap.Logger) *ShippingQuoter {
	return &ShippingQuoter{
		builder:   builder,
		regions:   regions,
		collector: collector,
		allowed:   allowed,
		logger:    logger,
	}
}

// AvailableMethods quotes one unit of productID. Failures are logged and yield an empty list.
func (s *ShippingQuoter) AvailableMethods(ctx context.Context, productID int, countryID, region, postcode string) []domain.ShippingMethod {
	requestID := uuid.New().String()
	log := s.logger.With(zap.String("requestId", requestID), zap.Int("productId", productID))

	q, err := s.builder.Build(ctx, productID, nil)
	if err != nil {
		log.Error("failed to build quote for shipping calculation", zap.Error(err))
		return []domain.ShippingMethod{}
	}

	s.attachDestination(ctx, q, countryID, region, postcode)

	methods := s.collector.Collect(ctx, q, requestID)
	filtered := FilterAllowed(methods, s.allowed)

	log.Info("shipping calculation completed",
		zap.Int("collected", len(methods)),
		zap.Int("offered", len(filtered)),
		zap.Strings("codes", lo.Map(filtered, func(m domain.ShippingMethod, _ int) string { return m.Code })))
	return filtered
}

// attachDestination fills a plausible guest address so carriers that validate the full address still quote.
func (s *ShippingQuoter) attachDestination(ctx context.Context, q *domain.Quote, countryID, region, postcode string) {
	address := &q.ShippingAddress
	address.CountryID = countryID
	address.City = defaultCity
	if region != "" {
		address.City = region
		address.Region = region
		address.RegionID = s.regions.ResolveID(ctx, region, countryID)
	}
	address.Street = []string{"123 Main Street", "Apt 1"}
	address.Firstname = "Guest"
	address.Lastname = "Customer"
	address.Telephone = "01234567890"
	address.Email = "guest@example.com"
	address.Company = ""
	address.Postcode = defaultPostcode
	if postcode != "" {
		address.Postcode = postcode
	}
}

// FilterAllowed keeps the methods whose code or carrier code is in allowed. An empty allow-list keeps everything.
func FilterAllowed(methods []domain.ShippingMethod, allowed []string) []domain.ShippingMethod {
	if len(allowed) == 0 {
		return methods
	}
	return lo.Filter(methods, func(m domain.ShippingMethod, _ int) bool {
		return lo.Contains(allowed, m.Code) || lo.Contains(allowed, m.CarrierCode)
	})
}

package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"easyorder/internal/carrier"
	"easyorder/internal/domain"
)

const (
	TierAggregator = "aggregator"
	TierCarrier    = "carrier"
	TierSynthetic  = "synthetic"
	TierFallback   = "fallback"
)

var (
	defaultFallbackPrice  = decimal.NewFromInt(25)
	defaultTableRatePrice = decimal.NewFromInt(30)
	defaultCarrierPrice   = decimal.NewFromInt(35)
)

// standardCarriers is iterated in this order when rates are synthesized from configuration.
var standardCarriers = []struct {
	code  string
	title string
}{
	{"flatrate", "Flat Rate"},
	{"freeshipping", "Free Shipping"},
	{"tablerate", "Table Rate"},
	{"ups", "UPS"},
	{"usps", "USPS"},
	{"fedex", "FedEx"},
	{"dhl", "DHL"},
}

type RateAggregator interface {
	CollectRates(ctx context.Context, req carrier.RateRequest) []domain.ShippingRate
	ActiveCarriers(ctx context.Context) []carrier.Carrier
}

type ConfigReader interface {
	Value(ctx context.Context, path string) string
	Flag(ctx context.Context, path string) bool
	Decimal(ctx context.Context, path string) (decimal.Decimal, bool)
}

type QuoteRepository interface {
	Save(ctx context.Context, q *domain.Quote) error
}

type TotalsCollector interface {
	Collect(q *domain.Quote)
}

type PriceFormatter interface {
	Format(amount decimal.Decimal) string
}

type TierMetrics interface {
	IncRateTier(tier string)
}

// RateCollector turns a quote with a destination into an ordered, never empty list of shipping methods.
// Each tier only runs when the previous one produced nothing.
type RateCollector struct {
	rates     RateAggregator
	config    ConfigReader
	quotes    QuoteRepository
	totals    TotalsCollector
	formatter PriceFormatter
	metrics   TierMetrics
	storeID   int
	currency  string
	logger    *zap.Logger
}

func NewRateCollector(
	rates RateAggregator,
	config ConfigReader,
	quotes QuoteRepository,
	totals TotalsCollector,
	formatter PriceFormatter,
	metrics TierMetrics,
	storeID int,
	currency string,
	logger *zap.Logger,
) *RateCollector {
	return &RateCollector{
		rates:     rates,
		config:    config,
		quotes:    quotes,
		totals:    totals,
		formatter: formatter,
		metrics:   metrics,
		storeID:   storeID,
		currency:  currency,
		logger:    logger,
	}
}

// Collect never fails: every tier logs its problems and falls through to the next one.
func (c *RateCollector) Collect(ctx context.Context, q *domain.Quote, requestID string) []domain.ShippingMethod {
	log := c.logger.With(zap.String("requestId", requestID), zap.Uint("quoteId", q.ID))

	methods, err := c.collectFromAggregator(ctx, q, log)
	if err != nil {
		log.Error("rate collection set-up failed, synthesizing from configuration", zap.Error(err))
		return c.synthesize(ctx, log)
	}
	if len(methods) > 0 {
		c.metrics.IncRateTier(TierAggregator)
		return methods
	}

	log.Info("no rates from aggregator, asking carriers directly")
	if methods = c.collectFromCarriers(ctx, q, log); len(methods) > 0 {
		c.metrics.IncRateTier(TierCarrier)
		return methods
	}

	log.Info("no rates from carriers, synthesizing from configuration")
	return c.synthesize(ctx, log)
}

// Bloque 1: aggregator over every active carrier, rates stored on the shipping address
func (c *RateCollector) collectFromAggregator(ctx context.Context, q *domain.Quote, log *zap.Logger) ([]domain.ShippingMethod, error) {
	if q.ShippingAddress.CountryID == "" {
		return nil, errors.New("shipping address has no country")
	}

	q.CustomerIsGuest = true
	q.CustomerGroupID = domain.CustomerGroupNotLoggedIn
	q.ShippingAddress.Rates = nil

	c.totals.Collect(q)
	if err := c.quotes.Save(ctx, q); err != nil {
		return nil, err
	}

	q.ShippingAddress.Rates = c.rates.CollectRates(ctx, c.rateRequest(ctx, q))

	c.totals.Collect(q)
	if err := c.quotes.Save(ctx, q); err != nil {
		return nil, err
	}

	var methods []domain.ShippingMethod
	for _, rate := range q.ShippingAddress.Rates {
		if !rate.HasMethod() {
			log.Warn("skipping rate without method",
				zap.String("carrier", rate.Carrier),
				zap.String("error", rate.ErrorMessage))
			continue
		}
		if rate.ErrorMessage != "" {
			log.Info("rate carries a carrier message",
				zap.String("code", rate.Code()),
				zap.String("message", rate.ErrorMessage))
		}
		methods = append(methods, c.fromRate(rate))
	}
	return methods, nil
}

// Bloque 2: carriers invoked one by one with a hand-built request
func (c *RateCollector) collectFromCarriers(ctx context.Context, q *domain.Quote, log *zap.Logger) []domain.ShippingMethod {
	req := c.rateRequest(ctx, q)

	var methods []domain.ShippingMethod
	for _, cr := range c.rates.ActiveCarriers(ctx) {
		code := cr.Code()
		if code == "freeshipping" {
			continue
		}

		rates, err := cr.CollectRates(ctx, req)
		if err != nil {
			log.Warn("carrier failed to quote", zap.String("carrier", code), zap.Error(err))
		}

		added := false
		for _, rate := range rates {
			if !rate.HasMethod() {
				continue
			}
			methods = append(methods, c.fromRate(rate))
			added = true
		}
		if added || (code != "flatrate" && code != "tablerate") {
			continue
		}

		if method, ok := c.configFallback(ctx, code); ok {
			log.Info("using configured fallback for carrier", zap.String("carrier", code))
			methods = append(methods, method)
		}
	}
	return methods
}

func (c *RateCollector) configFallback(ctx context.Context, code string) (domain.ShippingMethod, bool) {
	title := c.config.Value(ctx, "carriers/"+code+"/title")
	if title == "" {
		return domain.ShippingMethod{}, false
	}

	price := defaultFallbackPrice
	if code == "flatrate" {
		price = c.flatRatePrice(ctx)
	}
	return c.method(code, code, title, title, price), true
}

// Bloque 3: synthetic methods from static carrier configuration
func (c *RateCollector) synthesize(ctx context.Context, log *zap.Logger) []domain.ShippingMethod {
	var methods []domain.ShippingMethod
	for _, std := range standardCarriers {
		if !c.config.Flag(ctx, "carriers/"+std.code+"/active") {
			continue
		}

		title := c.config.Value(ctx, "carriers/"+std.code+"/title")
		if title == "" {
			title = std.title
		}

		var price decimal.Decimal
		switch std.code {
		case "flatrate":
			price = c.flatRatePrice(ctx)
		case "freeshipping":
			price = decimal.Zero
		case "tablerate":
			price = defaultTableRatePrice
		default:
			price = defaultCarrierPrice
		}

		log.Info("synthesized carrier method", zap.String("carrier", std.code), zap.String("price", price.String()))
		methods = append(methods, c.method(std.code, std.code, title, title, price))
	}

	if len(methods) > 0 {
		c.metrics.IncRateTier(TierSynthetic)
		return methods
	}

	log.Warn("no active carriers configured, offering standard shipping")
	c.metrics.IncRateTier(TierFallback)
	return []domain.ShippingMethod{
		c.method(domain.FallbackCarrierCode, domain.FallbackMethodCode, "Standard Shipping", "Standard Delivery", defaultFallbackPrice),
	}
}

func (c *RateCollector) flatRatePrice(ctx context.Context) decimal.Decimal {
	if price, ok := c.config.Decimal(ctx, "carriers/flatrate/price"); ok && !price.IsZero() {
		return price
	}
	return defaultFallbackPrice
}

func (c *RateCollector) rateRequest(ctx context.Context, q *domain.Quote) carrier.RateRequest {
	address := q.ShippingAddress
	weight := address.Weight
	if !weight.IsPositive() {
		weight = decimal.NewFromInt(1)
	}

	return carrier.RateRequest{
		DestCountryID:            address.CountryID,
		DestRegionID:             address.RegionID,
		DestRegionCode:           address.RegionCode,
		DestCity:                 address.City,
		DestPostcode:             address.Postcode,
		PackageWeight:            weight,
		PackageValue:             q.Subtotal,
		PackageValueWithDiscount: q.SubtotalWithDiscount,
		PackageQty:               q.ItemsQty(),
		StoreID:                  c.storeID,
		BaseCurrency:             c.currency,
		PackageCurrency:          c.currency,
		OrigCountryID:            c.config.Value(ctx, "shipping/origin/country_id"),
		OrigRegionID:             c.config.Value(ctx, "shipping/origin/region_id"),
		OrigCity:                 c.config.Value(ctx, "shipping/origin/city"),
		OrigPostcode:             c.config.Value(ctx, "shipping/origin/postcode"),
		Items:                    q.Items,
	}
}

func (c *RateCollector) fromRate(rate domain.ShippingRate) domain.ShippingMethod {
	return c.method(rate.Carrier, rate.Method, rate.CarrierTitle, rate.MethodTitle, rate.Price)
}

func (c *RateCollector) method(carrierCode, methodCode, carrierTitle, title string, price decimal.Decimal) domain.ShippingMethod {
	return domain.ShippingMethod{
		Code:           carrierCode + "_" + methodCode,
		CarrierCode:    carrierCode,
		MethodCode:     methodCode,
		CarrierTitle:   carrierTitle,
		Title:          title,
		Price:          price,
		PriceFormatted: c.formatter.Format(price),
	}
}

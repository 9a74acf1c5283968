package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"easyorder/internal/carrier"
	"easyorder/internal/domain"
	"easyorder/internal/infrastructure/metrics"
)

type mapConfig map[string]string

func (m mapConfig) Value(ctx context.Context, path string) string {
	return m[path]
}

func (m mapConfig) Flag(ctx context.Context, path string) bool {
	return m[path] == "1"
}

func (m mapConfig) Decimal(ctx context.Context, path string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(m[path])
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

type mockRateAggregator struct {
	CollectRatesFunc   func(ctx context.Context, req carrier.RateRequest) []domain.ShippingRate
	ActiveCarriersFunc func(ctx context.Context) []carrier.Carrier
}

func (m *mockRateAggregator) CollectRates(ctx context.Context, req carrier.RateRequest) []domain.ShippingRate {
	if m.CollectRatesFunc == nil {
		return nil
	}
	return m.CollectRatesFunc(ctx, req)
}

func (m *mockRateAggregator) ActiveCarriers(ctx context.Context) []carrier.Carrier {
	if m.ActiveCarriersFunc == nil {
		return nil
	}
	return m.ActiveCarriersFunc(ctx)
}

type stubCarrier struct {
	code  string
	rates []domain.ShippingRate
	err   error
	calls int
}

func (s *stubCarrier) Code() string { return s.code }

func (s *stubCarrier) CollectRates(ctx context.Context, req carrier.RateRequest) ([]domain.ShippingRate, error) {
	s.calls++
	return s.rates, s.err
}

type mockQuoteRepository struct {
	SaveFunc func(ctx context.Context, q *domain.Quote) error
	saves    int
}

func (m *mockQuoteRepository) Save(ctx context.Context, q *domain.Quote) error {
	m.saves++
	if m.SaveFunc == nil {
		return nil
	}
	return m.SaveFunc(ctx, q)
}

type noopTotals struct{ calls int }

func (n *noopTotals) Collect(q *domain.Quote) { n.calls++ }

type plainFormatter struct{}

func (plainFormatter) Format(amount decimal.Decimal) string {
	return "EGP " + amount.StringFixed(2)
}

func quoteWithDestination() *domain.Quote {
	return &domain.Quote{
		ID: 7,
		Items: []domain.QuoteItem{
			{ProductID: 10, Qty: 2, Price: decimal.NewFromInt(100), Weight: decimal.RequireFromString("0.5")},
		},
		Subtotal:             decimal.NewFromInt(200),
		SubtotalWithDiscount: decimal.NewFromInt(200),
		ShippingAddress: domain.ShippingAddress{
			Address: domain.Address{CountryID: "EG", City: "Cairo", Postcode: "11511"},
			Weight:  decimal.NewFromInt(1),
		},
	}
}

func newTestCollector(agg RateAggregator, cfg mapConfig, repo QuoteRepository) *RateCollector {
	return NewRateCollector(agg, cfg, repo, &noopTotals{}, plainFormatter{}, metrics.New(nil), 1, "EGP", zap.NewNop())
}

func TestRateCollector_AggregatorRates(t *testing.T) {
	var captured carrier.RateRequest
	agg := &mockRateAggregator{
		CollectRatesFunc: func(ctx context.Context, req carrier.RateRequest) []domain.ShippingRate {
			captured = req
			return []domain.ShippingRate{
				{Carrier: "ups", CarrierTitle: "UPS", ErrorMessage: "This shipping method is not available."},
				{Carrier: "flatrate", CarrierTitle: "Flat Rate", Method: "flatrate", MethodTitle: "Fixed", Price: decimal.NewFromInt(25)},
				{Carrier: "dhl", CarrierTitle: "DHL", Method: "express", MethodTitle: "Express", Price: decimal.NewFromInt(60), ErrorMessage: "Delivery may be delayed."},
			}
		},
	}
	cfg := mapConfig{
		"shipping/origin/country_id": "EG",
		"shipping/origin/city":       "Giza",
	}
	repo := &mockQuoteRepository{}
	q := quoteWithDestination()

	methods := newTestCollector(agg, cfg, repo).Collect(context.Background(), q, "req-1")

	require.Len(t, methods, 2)
	assert.Equal(t, "flatrate_flatrate", methods[0].Code)
	assert.Equal(t, "EGP 25.00", methods[0].PriceFormatted)
	assert.Equal(t, "dhl_express", methods[1].Code)
	assert.Equal(t, "DHL - Express", methods[1].Description())

	assert.True(t, q.CustomerIsGuest)
	assert.Len(t, q.ShippingAddress.Rates, 3)
	assert.Equal(t, 2, repo.saves)

	assert.Equal(t, "EG", captured.DestCountryID)
	assert.Equal(t, "EG", captured.OrigCountryID)
	assert.Equal(t, "Giza", captured.OrigCity)
	assert.Equal(t, 2, captured.PackageQty)
	assert.Equal(t, "EGP", captured.PackageCurrency)
	assert.True(t, decimal.NewFromInt(200).Equal(captured.PackageValue))
}

func TestRateCollector_NeverReturnsMethodlessRates(t *testing.T) {
	agg := &mockRateAggregator{
		CollectRatesFunc: func(ctx context.Context, req carrier.RateRequest) []domain.ShippingRate {
			return []domain.ShippingRate{{Carrier: "ups", ErrorMessage: "unavailable"}}
		},
	}

	methods := newTestCollector(agg, mapConfig{}, &mockQuoteRepository{}).Collect(context.Background(), quoteWithDestination(), "req")

	for _, m := range methods {
		assert.NotEmpty(t, m.MethodCode)
	}
}

func TestRateCollector_DirectCarrierTier(t *testing.T) {
	free := &stubCarrier{code: "freeshipping", rates: []domain.ShippingRate{{Carrier: "freeshipping", Method: "freeshipping"}}}
	flat := &stubCarrier{code: "flatrate", err: errors.New("boom")}
	table := &stubCarrier{code: "tablerate"}
	custom := &stubCarrier{code: "mptablerate", rates: []domain.ShippingRate{
		{Carrier: "mptablerate", CarrierTitle: "Zones", Method: "rate_1", MethodTitle: "Zone 1", Price: decimal.NewFromInt(40)},
	}}
	agg := &mockRateAggregator{
		ActiveCarriersFunc: func(ctx context.Context) []carrier.Carrier {
			return []carrier.Carrier{free, flat, table, custom}
		},
	}
	cfg := mapConfig{
		"carriers/flatrate/title":  "Flat Rate",
		"carriers/flatrate/price":  "15",
		"carriers/tablerate/title": "Best Way",
	}

	methods := newTestCollector(agg, cfg, &mockQuoteRepository{}).Collect(context.Background(), quoteWithDestination(), "req")

	assert.Equal(t, 0, free.calls)
	require.Len(t, methods, 3)
	assert.Equal(t, "flatrate_flatrate", methods[0].Code)
	assert.True(t, decimal.NewFromInt(15).Equal(methods[0].Price))
	assert.Equal(t, "tablerate_tablerate", methods[1].Code)
	assert.Equal(t, "Best Way", methods[1].Title)
	assert.True(t, decimal.NewFromInt(25).Equal(methods[1].Price))
	assert.Equal(t, "mptablerate_rate_1", methods[2].Code)
}

func TestRateCollector_FallbackRequiresTitle(t *testing.T) {
	flat := &stubCarrier{code: "flatrate"}
	agg := &mockRateAggregator{
		ActiveCarriersFunc: func(ctx context.Context) []carrier.Carrier { return []carrier.Carrier{flat} },
	}
	cfg := mapConfig{"carriers/flatrate/active": "1"}

	methods := newTestCollector(agg, cfg, &mockQuoteRepository{}).Collect(context.Background(), quoteWithDestination(), "req")

	// no title means no direct fallback, so the synthetic tier answers with its default title
	require.Len(t, methods, 1)
	assert.Equal(t, "flatrate_flatrate", methods[0].Code)
	assert.Equal(t, "Flat Rate", methods[0].CarrierTitle)
	assert.True(t, decimal.NewFromInt(25).Equal(methods[0].Price))
}

func TestRateCollector_SyntheticTier(t *testing.T) {
	cfg := mapConfig{
		"carriers/freeshipping/active": "1",
		"carriers/tablerate/active":    "1",
		"carriers/dhl/active":          "1",
		"carriers/dhl/title":           "DHL Express",
		"carriers/ups/active":          "0",
	}

	methods := newTestCollector(&mockRateAggregator{}, cfg, &mockQuoteRepository{}).Collect(context.Background(), quoteWithDestination(), "req")

	require.Len(t, methods, 3)
	assert.Equal(t, "freeshipping_freeshipping", methods[0].Code)
	assert.True(t, methods[0].Price.IsZero())
	assert.Equal(t, "tablerate_tablerate", methods[1].Code)
	assert.True(t, decimal.NewFromInt(30).Equal(methods[1].Price))
	assert.Equal(t, "dhl_dhl", methods[2].Code)
	assert.Equal(t, "DHL Express", methods[2].Title)
	assert.True(t, decimal.NewFromInt(35).Equal(methods[2].Price))
}

func TestRateCollector_StandardFallback(t *testing.T) {
	methods := newTestCollector(&mockRateAggregator{}, mapConfig{}, &mockQuoteRepository{}).Collect(context.Background(), quoteWithDestination(), "req")

	require.Len(t, methods, 1)
	assert.Equal(t, "fallback_standard", methods[0].Code)
	assert.Equal(t, "Standard Shipping", methods[0].CarrierTitle)
	assert.Equal(t, "Standard Delivery", methods[0].Title)
	assert.True(t, decimal.NewFromInt(25).Equal(methods[0].Price))
}

func TestRateCollector_SetupFailureSkipsToSynthetic(t *testing.T) {
	called := false
	flat := &stubCarrier{code: "flatrate", rates: []domain.ShippingRate{{Carrier: "flatrate", Method: "flatrate", Price: decimal.NewFromInt(5)}}}
	agg := &mockRateAggregator{
		CollectRatesFunc: func(ctx context.Context, req carrier.RateRequest) []domain.ShippingRate {
			called = true
			return nil
		},
		ActiveCarriersFunc: func(ctx context.Context) []carrier.Carrier { return []carrier.Carrier{flat} },
	}
	repo := &mockQuoteRepository{SaveFunc: func(ctx context.Context, q *domain.Quote) error {
		return errors.New("connection refused")
	}}
	cfg := mapConfig{"carriers/ups/active": "1"}

	methods := newTestCollector(agg, cfg, repo).Collect(context.Background(), quoteWithDestination(), "req")

	assert.False(t, called)
	assert.Equal(t, 0, flat.calls)
	require.Len(t, methods, 1)
	assert.Equal(t, "ups_ups", methods[0].Code)
}

func TestRateCollector_MissingCountry(t *testing.T) {
	q := quoteWithDestination()
	q.ShippingAddress.CountryID = ""
	repo := &mockQuoteRepository{}

	methods := newTestCollector(&mockRateAggregator{}, mapConfig{}, repo).Collect(context.Background(), q, "req")

	assert.Equal(t, 0, repo.saves)
	require.Len(t, methods, 1)
	assert.Equal(t, "fallback_standard", methods[0].Code)
}

package carrier

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"easyorder/internal/domain"
)

// RateRequest is everything a carrier needs to quote a shipment.
type RateRequest struct {
	DestCountryID  string
	DestRegionID   *int
	DestRegionCode string
	DestCity       string
	DestPostcode   string

	PackageWeight            decimal.Decimal
	PackageValue             decimal.Decimal
	PackageValueWithDiscount decimal.Decimal
	PackageQty               int

	StoreID         int
	BaseCurrency    string
	PackageCurrency string

	OrigCountryID string
	OrigRegionID  string
	OrigCity      string
	OrigPostcode  string

	Items []domain.QuoteItem
}

// Carrier quotes shipping for a request. An error means the carrier cannot serve the request at all;
// an empty result means it has nothing to offer.
type Carrier interface {
	Code() string
	CollectRates(ctx context.Context, req RateRequest) ([]domain.ShippingRate, error)
}

type ConfigReader interface {
	Value(ctx context.Context, path string) string
	Flag(ctx context.Context, path string) bool
	Decimal(ctx context.Context, path string) (decimal.Decimal, bool)
}

// Registry holds the installed carriers in registration order and aggregates their rates.
type Registry struct {
	carriers []Carrier
	config   ConfigReader
	logger   *zap.Logger
}

func NewRegistry(config ConfigReader, logger *zap.Logger, carriers ...Carrier) *Registry {
	r := &Registry{config: config, logger: logger}
	for _, c := range carriers {
		r.Register(c)
	}
	return r
}

// Register installs c, replacing any carrier with the same code.
func (r *Registry) Register(c Carrier) {
	for i, existing := range r.carriers {
		if existing.Code() == c.Code() {
			r.carriers[i] = c
			return
		}
	}
	r.carriers = append(r.carriers, c)
}

func (r *Registry) IsActive(ctx context.Context, code string) bool {
	return r.config.Flag(ctx, "carriers/"+code+"/active")
}

func (r *Registry) Title(ctx context.Context, code string) string {
	return r.config.Value(ctx, "carriers/"+code+"/title")
}

// ActiveCarriers returns the installed carriers enabled in configuration.
func (r *Registry) ActiveCarriers(ctx context.Context) []Carrier {
	var active []Carrier
	for _, c := range r.carriers {
		if r.IsActive(ctx, c.Code()) {
			active = append(active, c)
		}
	}
	return active
}

// CollectRates asks every active carrier for rates. A failing carrier contributes a single rate with
// an error message and no method, and never prevents the others from quoting.
func (r *Registry) CollectRates(ctx context.Context, req RateRequest) []domain.ShippingRate {
	var rates []domain.ShippingRate
	for _, c := range r.ActiveCarriers(ctx) {
		carrierRates, err := c.CollectRates(ctx, req)
		if err != nil {
			r.logger.Warn("carrier failed to quote", zap.String("carrier", c.Code()), zap.Error(err))
			rates = append(rates, domain.ShippingRate{
				Carrier:      c.Code(),
				CarrierTitle: r.Title(ctx, c.Code()),
				ErrorMessage: err.Error(),
			})
			continue
		}
		rates = append(rates, carrierRates...)
	}
	return rates
}

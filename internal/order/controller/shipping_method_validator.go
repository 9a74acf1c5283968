package controller

import (
	"context"
	"regexp"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"easyorder/internal/domain"
)

// fallbackMethods are always accepted since the rate engine can synthesize them.
var fallbackMethods = []string{
	"fallback_standard",
	"flatrate_flatrate",
	"freeshipping_freeshipping",
	"tablerate_bestway",
}

var knownCarriers = []string{
	"flatrate",
	"freeshipping",
	"tablerate",
	"mageplaza",
	"mptablerate",
	"aramex",
	"mylerz",
	"bosta",
	"dhl",
	"fedex",
	"ups",
	"temando",
	"webshopapps",
	"amasty",
	"mageworx",
}

var methodFormat = regexp.MustCompile(`^[a-zA-Z0-9_]+_[a-zA-Z0-9_]+$`)

type ShippingMethodLister interface {
	AvailableMethods(ctx context.Context, productID int, countryID, region, postcode string) []domain.ShippingMethod
}

// ShippingMethodValidator is deliberately lenient: the order pipeline reconciles the requested
// method anyway, so only clearly malformed tokens are rejected.
type ShippingMethodValidator struct {
	methods ShippingMethodLister
	logger  *zap.Logger
}

func NewShippingMethodValidator(methods ShippingMethodLister, logger *zap.Logger) *ShippingMethodValidator {
	return &ShippingMethodValidator{methods: methods, logger: logger}
}

func (v *ShippingMethodValidator) Valid(ctx context.Context, method string, productID int, countryID, region, postcode string) bool {
	if lo.Contains(fallbackMethods, method) {
		return true
	}

	carrierCode := domain.CarrierPrefix(method)
	if lo.Contains(knownCarriers, carrierCode) {
		v.logger.Info("shipping method validated via known carrier", zap.String("method", method), zap.String("carrier", carrierCode))
		return true
	}

	available := v.methods.AvailableMethods(ctx, productID, countryID, region, postcode)
	if len(available) == 0 {
		v.logger.Warn("shipping method lookup returned nothing, checking format only", zap.String("method", method))
	}
	if lo.ContainsBy(available, func(m domain.ShippingMethod) bool { return m.Code == method }) {
		return true
	}
	if match, ok := lo.Find(available, func(m domain.ShippingMethod) bool { return m.CarrierCode == carrierCode }); ok {
		v.logger.Info("shipping method validated via carrier match",
			zap.String("requested", method),
			zap.String("available", match.Code),
			zap.String("carrier", carrierCode))
		return true
	}

	if methodFormat.MatchString(method) {
		v.logger.Info("shipping method validated via format check", zap.String("method", method))
		return true
	}
	return false
}

package service

import (
	"go.uber.org/zap"

	"easyorder/internal/domain"
	apperrors "easyorder/internal/errors"
)

type Reconciler struct {
	logger *zap.Logger
}

func NewReconciler(logger *zap.Logger) *Reconciler {
	return &Reconciler{logger: logger}
}

// Select picks the method to bind for a requested token: exact code first, then the first method of the
// requested carrier, then the first method collected.
func (r *Reconciler) Select(requested string, methods []domain.ShippingMethod) (domain.ShippingMethod, error) {
	if len(methods) == 0 {
		return domain.ShippingMethod{}, apperrors.NewLocalizedError("No valid shipping method available for this order.")
	}

	for _, m := range methods {
		if m.Code == requested {
			r.logger.Info("exact shipping method match", zap.String("method", m.Code), zap.String("price", m.Price.String()))
			return m, nil
		}
	}

	prefix := domain.CarrierPrefix(requested)
	for _, m := range methods {
		if m.CarrierCode == prefix {
			r.logger.Info("carrier shipping method match", zap.String("requested", requested), zap.String("used", m.Code))
			return m, nil
		}
	}

	r.logger.Info("using first available shipping method", zap.String("requested", requested), zap.String("used", methods[0].Code))
	return methods[0], nil
}

package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"easyorder/internal/commons"
	"easyorder/internal/domain"
	"easyorder/internal/dto"
)

type ShippingQuoter interface {
	AvailableMethods(ctx context.Context, productID int, countryID, region, postcode string) []domain.ShippingMethod
}

type ShippingController struct {
	quoter ShippingQuoter
	logger *zap.Logger
}

func NewShippingController(quoter ShippingQuoter, logger *zap.Logger) *ShippingController {
	return &ShippingController{
		quoter: quoter,
		logger: logger,
	}
}

// AvailableMethods lists the shipping methods offered for one unit of a product at a destination.
func (c *ShippingController) AvailableMethods(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	values, err := commons.Params(r)
	if err != nil {
		logger.Warn("invalid request body", zap.Error(err))
		c.writeFailure(w, "Required parameters are missing.")
		return
	}

	productID := commons.IntParam(values, "product_id", 0)
	countryID := commons.Param(values, "country_id")
	if productID <= 0 || countryID == "" {
		c.writeFailure(w, "Required parameters are missing.")
		return
	}

	methods := c.quoter.AvailableMethods(r.Context(), productID, countryID,
		commons.Param(values, "region"), commons.Param(values, "postcode"))

	logger.Debug("shipping methods listed",
		zap.Int("productId", productID),
		zap.String("countryId", countryID),
		zap.Int("count", len(methods)))

	c.writeJSON(w, http.StatusOK, dto.ShippingMethodsResponse{
		Success:         true,
		ShippingMethods: dto.NewShippingMethodDTOs(methods),
	})
}

func (c *ShippingController) writeFailure(w http.ResponseWriter, message string) {
	c.writeJSON(w, http.StatusOK, dto.FailureResponse{Success: false, Message: message})
}

func (c *ShippingController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"easyorder/internal/commons"
	"easyorder/internal/dto"
	apperrors "easyorder/internal/errors"
	"easyorder/internal/order/usecase"
)

type CalculateTotalUseCase interface {
	Calculate(ctx context.Context, in usecase.CalculateTotalInput) (*dto.CalculationResult, error)
}

type CalculateController struct {
	useCase CalculateTotalUseCase
	logger  *zap.Logger
}

func NewCalculateController(useCase CalculateTotalUseCase, logger *zap.Logger) *CalculateController {
	return &CalculateController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *CalculateController) Calculate(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	values, err := commons.Params(r)
	if err != nil {
		logger.Warn("invalid request body", zap.Error(err))
		c.writeFailure(w, "Unable to calculate total.")
		return
	}

	result, err := c.useCase.Calculate(r.Context(), usecase.CalculateTotalInput{
		ProductID:       commons.IntParam(values, "product_id", 0),
		Qty:             commons.IntParam(values, "qty", 1),
		ShippingMethod:  commons.Param(values, "shipping_method"),
		CountryID:       commons.Param(values, "country_id"),
		Region:          commons.Param(values, "region"),
		Postcode:        commons.Param(values, "postcode"),
		SuperAttributes: commons.MapParam(values, "super_attribute"),
	})
	if err != nil {
		if le, ok := apperrors.IsLocalizedError(err); ok {
			logger.Error("error calculating total", zap.Error(err))
			c.writeFailure(w, le.Message)
			return
		}
		logger.Error("unexpected error calculating total", zap.Error(err))
		c.writeFailure(w, "Unable to calculate total.")
		return
	}

	c.writeJSON(w, http.StatusOK, dto.CalculateResponse{
		Success: true,
		Calculation: dto.CalculationDTO{
			ProductPrice: result.ProductPrice.InexactFloat64(),
			Qty:          result.Qty,
			Subtotal:     result.Subtotal.InexactFloat64(),
			ShippingCost: result.ShippingCost.InexactFloat64(),
			Total:        result.Total.InexactFloat64(),
			Formatted:    result.Formatted,
		},
	})
}

func (c *CalculateController) writeFailure(w http.ResponseWriter, message string) {
	c.writeJSON(w, http.StatusOK, dto.FailureResponse{Success: false, Message: message})
}

func (c *CalculateController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

package product

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"easyorder/internal/commons"
)

const getPriceError = "Error getting product price"

type Controller struct {
	useCase PriceUseCase
	logger  *zap.Logger
}

func NewController(useCase PriceUseCase, logger *zap.Logger) *Controller {
	return &Controller{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *Controller) HandleGetPrice(w http.ResponseWriter, r *http.Request) {
	values, err := commons.Params(r)
	if err != nil {
		c.logger.Warn("invalid get price body", zap.Error(err))
		c.writeJSON(w, http.StatusOK, errorResponse{Success: false, Message: getPriceError})
		return
	}

	req := GetPriceRequest{
		ProductID:       commons.IntParam(values, "product_id", 0),
		SuperAttributes: commons.MapParam(values, "super_attribute"),
	}

	resp, err := c.useCase.GetPrice(r.Context(), req)
	if err != nil {
		c.logger.Error("get price failed", zap.Int("productId", req.ProductID), zap.Error(err))
		c.writeJSON(w, http.StatusOK, errorResponse{Success: false, Message: getPriceError})
		return
	}

	c.writeJSON(w, http.StatusOK, resp)
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"easyorder/internal/commons"
	"easyorder/internal/domain"
	"easyorder/internal/dto"
	apperrors "easyorder/internal/errors"
)

const genericCreateError = "An unexpected error occurred. Please try again."

// requiredLabels names the fields of dto.QuickOrderRequest in the messages shown to the shopper.
var requiredLabels = map[string]string{
	"ProductID":      "Product ID",
	"CustomerName":   "Customer Name",
	"CustomerPhone":  "Customer Phone",
	"City":           "City",
	"CountryID":      "Country",
	"ShippingMethod": "Shipping Method",
	"PaymentMethod":  "Payment Method",
}

type CreateQuickOrderUseCase interface {
	CreateOrder(ctx context.Context, data domain.QuickOrderData) (*dto.QuickOrderResult, error)
}

type PaymentMethodLister interface {
	AvailableMethods(ctx context.Context) []domain.PaymentMethod
}

type MethodValidator interface {
	Valid(ctx context.Context, method string, productID int, countryID, region, postcode string) bool
}

type CreateOrderController struct {
	useCase  CreateQuickOrderUseCase
	shipping MethodValidator
	payments PaymentMethodLister
	validate *validator.Validate
	logger   *zap.Logger
}

func NewCreateOrderController(
	useCase CreateQuickOrderUseCase,
	shipping MethodValidator,
	payments PaymentMethodLister,
	logger *zap.Logger,
) *CreateOrderController {
	return &CreateOrderController{
		useCase:  useCase,
		shipping: shipping,
		payments: payments,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

func (c *CreateOrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	values, err := commons.Params(r)
	if err != nil {
		logger.Warn("invalid request body", zap.Error(err))
		c.writeFailure(w, genericCreateError)
		return
	}
	req := parseQuickOrderRequest(values)

	if !commons.ValidFormKey(r, req.FormKey) {
		logger.Warn("invalid form key")
		c.writeFailure(w, "Invalid form key.")
		return
	}

	if validationErr := c.validateRequest(r.Context(), req); validationErr != nil {
		ve, ok := apperrors.IsValidationError(validationErr)
		if !ok {
			logger.Error("failed to validate request", zap.Error(validationErr))
			c.writeFailure(w, genericCreateError)
			return
		}
		logger.Info("quick order request rejected", zap.String("reason", ve.Message))
		c.writeFailure(w, ve.Message)
		return
	}

	data := toQuickOrderData(req)
	logger.Info("order creation attempt",
		zap.Int("productId", data.ProductID),
		zap.String("shippingMethod", data.ShippingMethod),
		zap.String("paymentMethod", data.PaymentMethod),
		zap.String("countryId", data.CountryID),
		zap.Int("qty", data.Qty))

	result, err := c.useCase.CreateOrder(r.Context(), data)
	if err != nil {
		c.handleUseCaseError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.QuickOrderResponse{
		Success:     true,
		OrderID:     result.OrderID,
		IncrementID: result.IncrementID,
		Message:     result.Message,
		RedirectURL: result.RedirectURL,
	})
}

// FormKey hands out the key the order form must post back.
func (c *CreateOrderController) FormKey(w http.ResponseWriter, r *http.Request) {
	key, err := commons.IssueFormKey(w, r)
	if err != nil {
		c.logger.Error("failed to issue form key", zap.Error(err))
		c.writeFailure(w, genericCreateError)
		return
	}
	c.writeJSON(w, http.StatusOK, dto.FormKeyResponse{Success: true, FormKey: key})
}

func parseQuickOrderRequest(values url.Values) dto.QuickOrderRequest {
	return dto.QuickOrderRequest{
		ProductID:       commons.Param(values, "product_id"),
		CustomerName:    commons.Param(values, "customer_name"),
		CustomerPhone:   commons.Param(values, "customer_phone"),
		City:            commons.Param(values, "city"),
		CountryID:       commons.Param(values, "country_id"),
		ShippingMethod:  commons.Param(values, "shipping_method"),
		PaymentMethod:   commons.Param(values, "payment_method"),
		Qty:             commons.Param(values, "qty"),
		CustomerEmail:   commons.Param(values, "customer_email"),
		Street:          commons.ListParam(values, "street"),
		Region:          commons.Param(values, "region"),
		RegionID:        commons.Param(values, "region_id"),
		Postcode:        commons.Param(values, "postcode"),
		SuperAttributes: commons.MapParam(values, "super_attribute"),
		FormKey:         commons.Param(values, commons.FormKeyName),
	}
}

// validateRequest reports the first problem only, required fields first.
func (c *CreateOrderController) validateRequest(ctx context.Context, req dto.QuickOrderRequest) error {
	if err := c.validate.Struct(req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			field := fieldErrs[0].Field()
			return invalid(field, requiredLabels[field]+" is required.")
		}
		return err
	}

	if len(req.Street) == 0 || strings.TrimSpace(req.Street[0]) == "" {
		return invalid("street", "Street address is required.")
	}

	productID, err := strconv.Atoi(req.ProductID)
	if err != nil || productID <= 0 {
		return invalid("product_id", "Invalid product ID.")
	}

	if req.Qty != "" {
		if qty, err := strconv.Atoi(req.Qty); err != nil || qty <= 0 {
			return invalid("qty", "Invalid quantity.")
		}
	}

	if len(req.CustomerPhone) < 8 {
		return invalid("customer_phone", "Phone number must be at least 8 digits.")
	}

	if req.CustomerEmail != "" {
		if err := c.validate.Var(req.CustomerEmail, "email"); err != nil {
			return invalid("customer_email", "Invalid email address.")
		}
	}

	if req.RegionID == "" && req.Region == "" {
		return invalid("region", "Region is required.")
	}

	if req.ShippingMethod != "error" &&
		!c.shipping.Valid(ctx, req.ShippingMethod, productID, req.CountryID, req.Region, req.Postcode) {
		c.logger.Warn("shipping method validation failed",
			zap.String("requestedMethod", req.ShippingMethod),
			zap.Int("productId", productID),
			zap.String("countryId", req.CountryID))
		return invalid("shipping_method", "Selected shipping method is not available. Please refresh and select again.")
	}

	available := c.payments.AvailableMethods(ctx)
	if len(available) > 0 && !lo.ContainsBy(available, func(m domain.PaymentMethod) bool { return m.Code == req.PaymentMethod }) {
		return invalid("payment_method", "Selected payment method is not available.")
	}

	return nil
}

func invalid(field, message string) error {
	return apperrors.NewValidationError(message, apperrors.ValidationDetail{Field: field, Message: message})
}

func toQuickOrderData(req dto.QuickOrderRequest) domain.QuickOrderData {
	productID, _ := strconv.Atoi(req.ProductID)
	qty := 1
	if req.Qty != "" {
		qty, _ = strconv.Atoi(req.Qty)
	}

	region := req.Region
	if region == "" {
		region = req.RegionID
	}

	return domain.QuickOrderData{
		ProductID:       productID,
		Qty:             qty,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Address:         strings.Join(lo.Compact(req.Street), ", "),
		City:            req.City,
		CountryID:       req.CountryID,
		Region:          region,
		Postcode:        req.Postcode,
		ShippingMethod:  req.ShippingMethod,
		PaymentMethod:   req.PaymentMethod,
		SuperAttributes: req.SuperAttributes,
	}
}

func (c *CreateOrderController) handleUseCaseError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if le, ok := apperrors.IsLocalizedError(err); ok {
		logger.Error("quick order creation failed", zap.Error(err))
		c.writeFailure(w, le.Message)
		return
	}

	logger.Error("unexpected error in quick order creation", zap.Error(err))
	c.writeFailure(w, genericCreateError)
}

func (c *CreateOrderController) writeFailure(w http.ResponseWriter, message string) {
	c.writeJSON(w, http.StatusOK, dto.FailureResponse{Success: false, Message: message})
}

func (c *CreateOrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"easyorder/internal/config"
	"easyorder/internal/domain"
	"easyorder/internal/dto"
	apperrors "easyorder/internal/errors"
)

const (
	StageQuote     = "quote"
	StageShipping  = "shipping"
	StageReadiness = "readiness"
	StagePlacement = "placement"
)

type QuoteBuilder interface {
	Build(ctx context.Context, productID int, attrs map[int]int) (*domain.Quote, error)
}

type QuoteRepository interface {
	Save(ctx context.Context, q *domain.Quote) error
}

type TotalsCollector interface {
	Collect(q *domain.Quote)
}

type RegionResolver interface {
	ResolveID(ctx context.Context, region, countryID string) *int
}

type RateCollector interface {
	Collect(ctx context.Context, q *domain.Quote, requestID string) []domain.ShippingMethod
}

type MethodReconciler interface {
	Select(requested string, methods []domain.ShippingMethod) (domain.ShippingMethod, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, q *domain.Quote) (uint, error)
	Load(ctx context.Context, orderID uint) (*domain.Order, error)
}

type VisibilityRepairer interface {
	Ensure(ctx context.Context, order *domain.Order)
}

type ConfirmationSender interface {
	Send(ctx context.Context, order *domain.Order) error
}

type OrderMetrics interface {
	IncOrderPlaced()
	IncOrderFailed(stage string)
}

// CreateQuickOrderUseCase turns one quick order form into a placed guest order.
type CreateQuickOrderUseCase struct {
	builder    QuoteBuilder
	quotes     QuoteRepository
	totals     TotalsCollector
	regions    RegionResolver
	rates      RateCollector
	reconciler MethodReconciler
	placer     OrderPlacer
	visibility VisibilityRepairer
	sender     ConfirmationSender
	metrics    OrderMetrics
	cfg        config.QuickOrderConfig
	logger     *zap.Logger
}

func NewCreateQuickOrderUseCase(
	builder QuoteBuilder,
	quotes QuoteRepository,
	totals TotalsCollector,
	regions RegionResolver,
	rates RateCollector,
	reconciler MethodReconciler,
	placer OrderPlacer,
	visibility VisibilityRepairer,
	sender ConfirmationSender,
	metrics OrderMetrics,
	cfg config.QuickOrderConfig,
	logger *zap.Logger,
) *CreateQuickOrderUseCase {
	return &CreateQuickOrderUseCase{
		builder:    builder,
		quotes:     quotes,
		totals:     totals,
		regions:    regions,
		rates:      rates,
		reconciler: reconciler,
		placer:     placer,
		visibility: visibility,
		sender:     sender,
		metrics:    metrics,
		cfg:        cfg,
		logger:     logger,
	}
}

type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

func failAt(stage string, err error) error {
	return &stageError{stage: stage, err: err}
}

// CreateOrder runs the whole pipeline. Every failure is returned as a localized error.
func (uc *CreateQuickOrderUseCase) CreateOrder(ctx context.Context, data domain.QuickOrderData) (*dto.QuickOrderResult, error) {
	requestID := uuid.New().String()
	log := uc.logger.With(zap.String("requestId", requestID), zap.Int("productId", data.ProductID))
	log.Info("quick order started",
		zap.Int("qty", data.Qty),
		zap.String("countryId", data.CountryID),
		zap.String("shippingMethod", data.ShippingMethod),
		zap.String("paymentMethod", data.PaymentMethod))

	result, err := uc.createOrder(ctx, data, requestID, log)
	if err != nil {
		stage := StagePlacement
		if se, ok := err.(*stageError); ok {
			stage = se.stage
		}
		uc.metrics.IncOrderFailed(stage)
		log.Error("quick order failed", zap.String("stage", stage), zap.Error(err))
		return nil, apperrors.NewLocalizedErrorf(err, "Unable to create order: %s", err.Error())
	}

	uc.metrics.IncOrderPlaced()
	return result, nil
}

func (uc *CreateQuickOrderUseCase) createOrder(ctx context.Context, data domain.QuickOrderData, requestID string, log *zap.Logger) (*dto.QuickOrderResult, error) {
	// Bloque 1: Quote for the requested variant
	q, err := uc.builder.Build(ctx, data.ProductID, data.SuperAttributes)
	if err != nil {
		return nil, failAt(StageQuote, err)
	}
	log = log.With(zap.Uint("quoteId", q.ID))

	// Bloque 2: Customer identity
	uc.applyCustomer(q, data)

	// Bloque 3: Addresses
	address := uc.address(ctx, data, q.CustomerEmail)
	q.BillingAddress = address
	q.ShippingAddress.Address = address
	q.ShippingAddress.Rates = nil
	uc.totals.Collect(q)
	if err := uc.quotes.Save(ctx, q); err != nil {
		return nil, failAt(StageQuote, err)
	}

	// Bloque 4: Quantity
	if data.Qty != 1 {
		if data.Qty < 1 {
			return nil, failAt(StageQuote, fmt.Errorf("invalid quantity %d", data.Qty))
		}
		q.SetItemsQty(data.Qty)
		uc.totals.Collect(q)
	}

	// Bloque 5: Rates and shipping method
	methods := uc.rates.Collect(ctx, q, requestID)
	selected, err := uc.reconciler.Select(data.ShippingMethod, methods)
	if err != nil {
		return nil, failAt(StageShipping, err)
	}
	q.ShippingAddress.ShippingMethod = selected.Code
	q.ShippingAddress.ShippingDescription = selected.Description()
	q.ShippingAddress.ShippingAmount = selected.Price
	log.Info("shipping method bound",
		zap.String("requested", data.ShippingMethod),
		zap.String("selected", selected.Code),
		zap.String("price", selected.Price.String()))

	// Bloque 6: Payment method and final totals
	q.PaymentMethod = data.PaymentMethod
	uc.totals.Collect(q)
	if err := uc.quotes.Save(ctx, q); err != nil {
		return nil, failAt(StageQuote, err)
	}

	// Bloque 7: Readiness checks
	if err := checkReadiness(q); err != nil {
		return nil, failAt(StageReadiness, err)
	}

	// Bloque 8: Placement
	orderID, err := uc.placer.PlaceOrder(ctx, q)
	if err != nil {
		if _, ok := apperrors.IsDeadlockError(err); ok {
			log.Error("order placement kept deadlocking", zap.Uint("quoteId", q.ID), zap.Error(err))
		} else if _, ok := apperrors.IsConflictError(err); ok {
			log.Warn("quote was already converted", zap.Uint("quoteId", q.ID), zap.Error(err))
		}
		return nil, failAt(StagePlacement, err)
	}
	order, err := uc.placer.Load(ctx, orderID)
	if err != nil {
		return nil, failAt(StagePlacement, err)
	}

	// Bloque 9: Best effort follow-ups, never affect the outcome
	uc.visibility.Ensure(ctx, order)

	if uc.cfg.EmailNotification {
		if err := uc.sender.Send(ctx, order); err != nil {
			log.Warn("failed to send order email", zap.Uint("orderId", order.ID), zap.Error(err))
		}
	}

	log.Info("quick order created",
		zap.Uint("orderId", order.ID),
		zap.String("incrementId", order.IncrementID),
		zap.String("grandTotal", order.GrandTotal.String()))

	return &dto.QuickOrderResult{
		OrderID:     order.ID,
		IncrementID: order.IncrementID,
		Message:     uc.cfg.SuccessMessage,
		RedirectURL: fmt.Sprintf("%s/checkout/onepage/success?order_id=%d", strings.TrimRight(uc.cfg.BaseURL, "/"), order.ID),
	}, nil
}

func (uc *CreateQuickOrderUseCase) applyCustomer(q *domain.Quote, data domain.QuickOrderData) {
	email := strings.TrimSpace(data.CustomerEmail)
	if email == "" && uc.cfg.AutoGenerateEmail {
		email = GuestEmail(data.CustomerPhone, uc.cfg.EmailDomain)
	}

	q.CustomerEmail = email
	q.CustomerFirstname = data.CustomerName
	q.CustomerLastname = ""
	q.CustomerIsGuest = true
	q.CustomerGroupID = domain.CustomerGroupNotLoggedIn
}

func (uc *CreateQuickOrderUseCase) address(ctx context.Context, data domain.QuickOrderData, email string) domain.Address {
	firstname, lastname := SplitName(data.CustomerName)

	phone := data.CustomerPhone
	if uc.cfg.PhoneFormatting {
		phone = FormatPhone(phone)
	}

	address := domain.Address{
		Firstname: firstname,
		Lastname:  lastname,
		Street:    SplitStreet(data.Address),
		City:      data.City,
		CountryID: data.CountryID,
		Telephone: phone,
		Email:     email,
	}
	if data.Region != "" {
		address.RegionID = uc.regions.ResolveID(ctx, data.Region, data.CountryID)
		address.Region = data.Region
	}
	if data.Postcode != "" {
		address.Postcode = data.Postcode
	}
	return address
}

func checkReadiness(q *domain.Quote) error {
	if q.ShippingAddress.ShippingMethod == "" {
		return apperrors.NewLocalizedError("Shipping method is missing. Please select a shipping method and try again.")
	}
	if q.PaymentMethod == "" {
		return apperrors.NewLocalizedError("Payment method is missing. Please select a payment method and try again.")
	}
	if q.ItemsCount() == 0 {
		return apperrors.NewLocalizedError("Quote has no items. Please add products to continue.")
	}
	if q.ShippingAddress.CountryID == "" || q.ShippingAddress.City == "" {
		return apperrors.NewLocalizedError("Shipping address is incomplete. Please provide complete address.")
	}
	return nil
}

// SplitName splits on the first space. A single word is used as both names.
func SplitName(fullName string) (string, string) {
	fullName = strings.TrimSpace(fullName)
	first, last, found := strings.Cut(fullName, " ")
	if !found || strings.TrimSpace(last) == "" {
		return first, first
	}
	return first, strings.TrimSpace(last)
}

func SplitStreet(street string) []string {
	if !strings.Contains(street, ",") {
		return []string{street}
	}
	parts := strings.Split(street, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// FormatPhone drops spaces, dashes, parentheses and dots.
func FormatPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
}

// GuestEmail derives a placeholder address from the digits of the phone number.
func GuestEmail(phone, domainName string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		digits = "guest"
	}
	return digits + "@" + strings.TrimPrefix(domainName, "@")
}

package service

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"easyorder/internal/domain"
)

var defaultTitles = map[string]string{
	"checkmo":        "Check / Money order",
	"banktransfer":   "Bank Transfer Payment",
	"cashondelivery": "Cash On Delivery",
	"free":           "No Payment Information Required",
	"purchaseorder":  "Purchase Order",
}

type ConfigReader interface {
	Value(ctx context.Context, path string) string
	Flag(ctx context.Context, path string) bool
	Section(ctx context.Context, prefix string) []string
}

// PaymentMethodService lists the payment methods a quick order may use.
type PaymentMethodService struct {
	config  ConfigReader
	allowed []string
	logger  *zap.Logger
}

func NewPaymentMethodService(config ConfigReader, allowed []string, logger *zap.Logger) *PaymentMethodService {
	return &PaymentMethodService{
		config:  config,
		allowed: allowed,
		logger:  logger,
	}
}

// AvailableMethods returns the active payment methods of the store, narrowed by the admin allow-list.
func (s *PaymentMethodService) AvailableMethods(ctx context.Context) []domain.PaymentMethod {
	var methods []domain.PaymentMethod
	for _, code := range s.config.Section(ctx, "payment/") {
		if !s.config.Flag(ctx, "payment/"+code+"/active") {
			continue
		}
		title := s.config.Value(ctx, "payment/"+code+"/title")
		if title == "" {
			title = DefaultTitle(code)
		}
		methods = append(methods, domain.PaymentMethod{Code: code, Title: title})
	}

	if len(s.allowed) > 0 {
		methods = lo.Filter(methods, func(m domain.PaymentMethod, _ int) bool {
			return lo.Contains(s.allowed, m.Code)
		})
	}

	s.logger.Debug("payment methods resolved",
		zap.Strings("codes", lo.Map(methods, func(m domain.PaymentMethod, _ int) string { return m.Code })))
	return methods
}

// DefaultTitle names a method with no configured title: well-known codes get their usual label,
// anything else is the code with underscores as spaces and the first letter upper-cased.
func DefaultTitle(code string) string {
	if title, ok := defaultTitles[code]; ok {
		return title
	}
	text := strings.ReplaceAll(code, "_", " ")
	r, size := utf8.DecodeRuneInString(text)
	if r == utf8.RuneError {
		return text
	}
	return string(unicode.ToUpper(r)) + text[size:]
}

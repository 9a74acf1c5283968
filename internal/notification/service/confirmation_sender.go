package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"easyorder/internal/domain"
)

const MessageTypeOrderConfirmation = "order.confirmation"

type Publisher interface {
	PublishJSON(ctx context.Context, messageType string, payload any) error
}

type OrderConfirmationItem struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Qty      int             `json:"qty"`
	Price    decimal.Decimal `json:"price"`
	RowTotal decimal.Decimal `json:"row_total"`
}

// OrderConfirmationMessage is consumed by the mailer that renders the new order email.
type OrderConfirmationMessage struct {
	OrderID             uint                    `json:"order_id"`
	IncrementID         string                  `json:"increment_id"`
	StoreID             int                     `json:"store_id"`
	StoreName           string                  `json:"store_name"`
	CustomerEmail       string                  `json:"customer_email"`
	CustomerName        string                  `json:"customer_name"`
	ShippingDescription string                  `json:"shipping_description"`
	PaymentMethod       string                  `json:"payment_method"`
	ShippingAddress     *domain.Address         `json:"shipping_address,omitempty"`
	Items               []OrderConfirmationItem `json:"items"`
	Subtotal            decimal.Decimal         `json:"subtotal"`
	ShippingAmount      decimal.Decimal         `json:"shipping_amount"`
	GrandTotal          decimal.Decimal         `json:"grand_total"`
	Currency            string                  `json:"currency"`
	CreatedAt           time.Time               `json:"created_at"`
}

type ConfirmationSender struct {
	publisher Publisher
	logger    *zap.Logger
}

func NewConfirmationSender(publisher Publisher, logger *zap.Logger) *ConfirmationSender {
	return &ConfirmationSender{
		publisher: publisher,
		logger:    logger,
	}
}

// Send queues the confirmation email for order.
func (s *ConfirmationSender) Send(ctx context.Context, order *domain.Order) error {
	if order.CustomerEmail == "" {
		return fmt.Errorf("order %s has no customer email", order.IncrementID)
	}

	msg := OrderConfirmationMessage{
		OrderID:             order.ID,
		IncrementID:         order.IncrementID,
		StoreID:             order.StoreID,
		StoreName:           order.StoreName,
		CustomerEmail:       order.CustomerEmail,
		CustomerName:        order.CustomerName(),
		ShippingDescription: order.ShippingDescription,
		PaymentMethod:       order.PaymentMethod,
		ShippingAddress:     order.ShippingAddress,
		Subtotal:            order.Subtotal,
		ShippingAmount:      order.ShippingAmount,
		GrandTotal:          order.GrandTotal,
		Currency:            order.OrderCurrencyCode,
		CreatedAt:           order.CreatedAt,
	}
	for _, item := range order.Items {
		msg.Items = append(msg.Items, OrderConfirmationItem{
			SKU:      item.SKU,
			Name:     item.Name,
			Qty:      item.Qty,
			Price:    item.Price,
			RowTotal: item.RowTotal,
		})
	}

	if err := s.publisher.PublishJSON(ctx, MessageTypeOrderConfirmation, msg); err != nil {
		return fmt.Errorf("queueing confirmation for order %s: %w", order.IncrementID, err)
	}

	s.logger.Info("order confirmation queued", zap.Uint("orderId", order.ID), zap.String("incrementId", order.IncrementID))
	return nil
}

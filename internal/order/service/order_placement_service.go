package service

import (
	"context"
	"database/sql"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"easyorder/internal/domain"
	apperrors "easyorder/internal/errors"
	"easyorder/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type OrderRepository interface {
	NextIncrementID(ctx context.Context, tx *sql.Tx) (string, error)
	Insert(ctx context.Context, tx *sql.Tx, order *domain.Order) (uint, error)
	InsertAddress(ctx context.Context, tx *sql.Tx, orderID uint, addressType string, address domain.Address) error
	InsertPayment(ctx context.Context, tx *sql.Tx, orderID uint, method string) error
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error)
	FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error)
}

type QuoteDeactivator interface {
	Deactivate(ctx context.Context, tx *sql.Tx, id uint) error
}

type RetryMetrics interface {
	IncPlacementRetry()
}

// OrderPlacementService converts a ready quote into an order in a single transaction.
type OrderPlacementService struct {
	db               TransactionManager
	orderRepo        OrderRepository
	orderItemRepo    OrderItemRepository
	quoteRepo        QuoteDeactivator
	metrics          RetryMetrics
	storeName        string
	txTimeout        time.Duration
	maxRetryAttempts int
	logger           *zap.Logger
}

func NewOrderPlacementService(
	db TransactionManager,
	orderRepo OrderRepository,
	orderItemRepo OrderItemRepository,
	quoteRepo QuoteDeactivator,
	metrics RetryMetrics,
	storeName string,
	txTimeout time.Duration,
	maxRetryAttempts int,
	logger *zap.Logger,
) *OrderPlacementService {
	if maxRetryAttempts < 1 {
		maxRetryAttempts = 1
	}
	return &OrderPlacementService{
		db:               db,
		orderRepo:        orderRepo,
		orderItemRepo:    orderItemRepo,
		quoteRepo:        quoteRepo,
		metrics:          metrics,
		storeName:        storeName,
		txTimeout:        txTimeout,
		maxRetryAttempts: maxRetryAttempts,
		logger:           logger,
	}
}

// PlaceOrder commits the order for q and returns its id. Deadlocks are retried with backoff.
func (s *OrderPlacementService) PlaceOrder(ctx context.Context, q *domain.Quote) (uint, error) {
	// Backoff intervals: attempt 1 (0ms), attempt 2 (100ms), attempt 3 (200ms), etc.
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= s.maxRetryAttempts; attempt++ {
		orderID, err := s.placeOnce(ctx, q)
		if err == nil {
			return orderID, nil
		}

		if !mysql.IsDeadlock(err) {
			return 0, err
		}
		if attempt == s.maxRetryAttempts {
			break
		}

		s.metrics.IncPlacementRetry()
		s.logger.Warn("deadlock detected, retrying", zap.Int("attempt", attempt), zap.Int("maxAttempts", s.maxRetryAttempts), zap.Uint("quoteId", q.ID))

		base := backoffs[min(attempt, len(backoffs)-1)]
		// jitter: ±20% of the backoff base
		wait := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(wait):
		}
	}

	return 0, apperrors.NewDeadlockError("max retries exceeded")
}

func (s *OrderPlacementService) placeOnce(ctx context.Context, q *domain.Quote) (uint, error) {
	// Bloque 1: Iniciar transacción con timeout
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return 0, err
	}
	// Ensure rollback on any exit path. MySQL ignores rollback if already committed.
	defer tx.Rollback()

	// Bloque 2: Cabecera del pedido
	order := s.orderFromQuote(q)
	order.IncrementID, err = s.orderRepo.NextIncrementID(txCtx, tx)
	if err != nil {
		return 0, err
	}

	orderID, err := s.orderRepo.Insert(txCtx, tx, order)
	if err != nil {
		s.logger.Error("failed to insert order", zap.Uint("quoteId", q.ID), zap.Error(err))
		return 0, err
	}

	if err := s.orderRepo.InsertAddress(txCtx, tx, orderID, domain.AddressTypeBilling, q.BillingAddress); err != nil {
		return 0, err
	}
	if err := s.orderRepo.InsertAddress(txCtx, tx, orderID, domain.AddressTypeShipping, q.ShippingAddress.Address); err != nil {
		return 0, err
	}
	if err := s.orderRepo.InsertPayment(txCtx, tx, orderID, q.PaymentMethod); err != nil {
		return 0, err
	}

	// Bloque 3: Items
	for _, item := range q.Items {
		_, err := s.orderItemRepo.Insert(txCtx, tx, domain.OrderItem{
			OrderID:         orderID,
			ProductID:       item.ProductID,
			ParentProductID: item.ParentProductID,
			SKU:             item.SKU,
			Name:            item.Name,
			Qty:             item.Qty,
			Price:           item.Price,
			Weight:          item.Weight,
			RowTotal:        item.RowTotal,
		})
		if err != nil {
			s.logger.Error("failed to insert order item", zap.Uint("quoteId", q.ID), zap.Int("productId", item.ProductID), zap.Error(err))
			return 0, err
		}
	}

	// Bloque 4: Desactivar quote y commit
	if err := s.quoteRepo.Deactivate(txCtx, tx, q.ID); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint("quoteId", q.ID), zap.Error(err))
		return 0, err
	}

	s.logger.Info("order placed",
		zap.Uint("orderId", orderID),
		zap.String("incrementId", order.IncrementID),
		zap.Uint("quoteId", q.ID),
		zap.String("grandTotal", q.GrandTotal.String()))

	return orderID, nil
}

func (s *OrderPlacementService) orderFromQuote(q *domain.Quote) *domain.Order {
	return &domain.Order{
		QuoteID:             q.ID,
		StoreID:             q.StoreID,
		StoreName:           s.storeName,
		State:               domain.OrderStateNew,
		Status:              domain.OrderStatusPending,
		CustomerEmail:       q.CustomerEmail,
		CustomerFirstname:   q.CustomerFirstname,
		CustomerLastname:    q.CustomerLastname,
		CustomerGroupID:     q.CustomerGroupID,
		CustomerIsGuest:     q.CustomerIsGuest,
		ShippingMethod:      q.ShippingAddress.ShippingMethod,
		ShippingDescription: q.ShippingAddress.ShippingDescription,
		PaymentMethod:       q.PaymentMethod,
		Subtotal:            q.Subtotal,
		ShippingAmount:      q.ShippingAddress.ShippingAmount,
		GrandTotal:          q.GrandTotal,
		BaseGrandTotal:      q.GrandTotal,
		BaseCurrencyCode:    q.CurrencyCode,
		OrderCurrencyCode:   q.CurrencyCode,
	}
}

// Load reads a placed order with its items.
func (s *OrderPlacementService) Load(ctx context.Context, orderID uint) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := s.orderItemRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

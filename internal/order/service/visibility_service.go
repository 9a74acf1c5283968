package service

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"easyorder/internal/domain"
	apperrors "easyorder/internal/errors"
	"easyorder/internal/infrastructure/redis"
)

const (
	RepairStepSave      = "save"
	RepairStepCache     = "cache"
	RepairStepGrid      = "grid"
	RepairStepReindex   = "reindex"
	RepairStepFinalSave = "final_save"
)

type OrderStore interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	Save(ctx context.Context, order *domain.Order) error
}

type OrderGrid interface {
	Exists(ctx context.Context, orderID uint) (bool, error)
	Insert(ctx context.Context, row domain.OrderGridRow) error
	Reindex(ctx context.Context, row domain.OrderGridRow) error
	IsIndexerValid(ctx context.Context) (bool, error)
}

type CacheCleaner interface {
	Clean(ctx context.Context, tags ...string) error
}

type RepairMetrics interface {
	IncRepairFailure(step string)
}

// VisibilityService makes a freshly placed order show up in the admin listing. It runs after commit and
// every step is best effort.
type VisibilityService struct {
	orders        OrderStore
	grid          OrderGrid
	cache         CacheCleaner
	metrics       RepairMetrics
	defaultState  string
	defaultStatus string
	logger        *zap.Logger
}

func NewVisibilityService(
	orders OrderStore,
	grid OrderGrid,
	cache CacheCleaner,
	metrics RepairMetrics,
	defaultState string,
	defaultStatus string,
	logger *zap.Logger,
) *VisibilityService {
	return &VisibilityService{
		orders:        orders,
		grid:          grid,
		cache:         cache,
		metrics:       metrics,
		defaultState:  defaultState,
		defaultStatus: defaultStatus,
		logger:        logger,
	}
}

// Ensure repairs order visibility. Failures are logged and never returned.
func (s *VisibilityService) Ensure(ctx context.Context, order *domain.Order) {
	log := s.logger.With(zap.Uint("orderId", order.ID), zap.String("incrementId", order.IncrementID))

	var errs error
	record := func(step string, err error) {
		if err == nil {
			return
		}
		s.metrics.IncRepairFailure(step)
		log.Warn("order visibility step failed", zap.String("step", step), zap.Error(err))
		errs = multierr.Append(errs, fmt.Errorf("%s: %w", step, err))
	}

	if order.State == domain.OrderStateNew && order.Status == domain.OrderStatusPending {
		order.State = domain.OrderStateProcessing
		order.Status = domain.OrderStatusProcessing
	}
	s.applyConfiguredStatus(order, log)

	record(RepairStepSave, s.orders.Save(ctx, order))
	record(RepairStepCache, s.cache.Clean(ctx, redis.TagDBDDL, redis.TagCollections, redis.TagEAV))
	record(RepairStepGrid, s.backfillGrid(ctx, order, log))
	record(RepairStepReindex, s.reindex(ctx, order))
	record(RepairStepFinalSave, s.orders.Save(ctx, order))

	if errs != nil {
		log.Warn("order visibility repaired partially",
			zap.Int("failedSteps", len(multierr.Errors(errs))),
			zap.Error(errs))
		return
	}

	log.Info("order visibility ensured",
		zap.String("state", order.State),
		zap.String("status", order.Status),
		zap.String("grandTotal", order.GrandTotal.String()))
}

func (s *VisibilityService) applyConfiguredStatus(order *domain.Order, log *zap.Logger) {
	if s.defaultStatus != "" {
		order.Status = s.defaultStatus
		log.Info("applied configured order status", zap.String("status", s.defaultStatus))
	}
	if s.defaultState == "" {
		return
	}
	if !domain.IsValidOrderState(s.defaultState) {
		log.Warn("ignoring unknown configured order state", zap.String("state", s.defaultState))
		return
	}
	order.State = s.defaultState
	log.Info("applied configured order state", zap.String("state", s.defaultState))
}

func (s *VisibilityService) backfillGrid(ctx context.Context, order *domain.Order, log *zap.Logger) error {
	exists, err := s.grid.Exists(ctx, order.ID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// only project orders that really exist in the order table
	if _, err := s.orders.FindByID(ctx, order.ID); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil
		}
		return err
	}

	if err := s.grid.Insert(ctx, domain.NewOrderGridRow(*order)); err != nil {
		return err
	}
	log.Info("order inserted into grid")
	return nil
}

func (s *VisibilityService) reindex(ctx context.Context, order *domain.Order) error {
	valid, err := s.grid.IsIndexerValid(ctx)
	if err != nil {
		return err
	}
	if !valid {
		return nil
	}
	return s.grid.Reindex(ctx, domain.NewOrderGridRow(*order))
}

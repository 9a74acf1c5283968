package order

import (
	"database/sql"

	"go.uber.org/zap"

	"easyorder/internal/config"
	"easyorder/internal/infrastructure/metrics"
	"easyorder/internal/infrastructure/redis"
	notificationsvc "easyorder/internal/notification/service"
	"easyorder/internal/order/controller"
	orderrepo "easyorder/internal/order/repository"
	"easyorder/internal/order/service"
	"easyorder/internal/order/usecase"
	paymentsvc "easyorder/internal/payment/service"
	"easyorder/internal/pricing"
	"easyorder/internal/quote"
	"easyorder/internal/shipping"
	storeconfigsvc "easyorder/internal/storeconfig/service"
)

type Module struct {
	CreateOrder *controller.CreateOrderController
	Calculate   *controller.CalculateController
}

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	storeConfig *storeconfigsvc.StoreConfigService,
	cache *redis.Cache,
	publisher notificationsvc.Publisher,
	products usecase.ProductPricer,
	quotes *quote.Module,
	shippingModule *shipping.Module,
	regions usecase.RegionResolver,
	formatter *pricing.Formatter,
	m *metrics.QuickOrderMetrics,
	logger *zap.Logger,
) *Module {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	orderItemRepo := orderrepo.NewMySQLOrderItemRepository(db)
	gridRepo := orderrepo.NewMySQLOrderGridRepository(db)

	placement := service.NewOrderPlacementService(
		db,
		orderRepo,
		orderItemRepo,
		quotes.Repository,
		m,
		cfg.QuickOrder.StoreName,
		cfg.Order.PlacementTxTimeout,
		cfg.Order.MaxRetryAttempts,
		logger,
	)
	visibility := service.NewVisibilityService(
		orderRepo,
		gridRepo,
		cache,
		m,
		cfg.QuickOrder.DefaultOrderState,
		cfg.QuickOrder.DefaultOrderStatus,
		logger,
	)

	createOrder := usecase.NewCreateQuickOrderUseCase(
		quotes.Builder,
		quotes.Repository,
		quotes.Totals,
		regions,
		shippingModule.Collector,
		shippingModule.Reconciler,
		placement,
		visibility,
		notificationsvc.NewConfirmationSender(publisher, logger),
		m,
		cfg.QuickOrder,
		logger,
	)
	calculate := usecase.NewCalculateTotalUseCase(
		products,
		shippingModule.Quoter,
		formatter,
		cfg.QuickOrder.DefaultShippingPrice,
		logger,
	)
	payments := paymentsvc.NewPaymentMethodService(storeConfig, cfg.QuickOrder.AllowedPaymentMethods, logger)

	return &Module{
		CreateOrder: controller.NewCreateOrderController(
			createOrder,
			controller.NewShippingMethodValidator(shippingModule.Quoter, logger),
			payments,
			logger,
		),
		Calculate: controller.NewCalculateController(calculate, logger),
	}
}

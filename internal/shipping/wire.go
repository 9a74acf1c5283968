package shipping

import (
	"database/sql"

	"go.uber.org/zap"

	"easyorder/internal/carrier"
	carrierrepo "easyorder/internal/carrier/repository"
	"easyorder/internal/config"
	"easyorder/internal/infrastructure/metrics"
	"easyorder/internal/pricing"
	"easyorder/internal/quote"
	"easyorder/internal/shipping/controller"
	"easyorder/internal/shipping/service"
	storeconfigsvc "easyorder/internal/storeconfig/service"
)

type Module struct {
	Quoter     *service.ShippingQuoter
	Collector  *service.RateCollector
	Reconciler *service.Reconciler
	Controller *controller.ShippingController
}

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	storeConfig *storeconfigsvc.StoreConfigService,
	quotes *quote.Module,
	regions service.RegionResolver,
	formatter *pricing.Formatter,
	m *metrics.QuickOrderMetrics,
	logger *zap.Logger,
) *Module {
	registry := carrier.NewRegistry(storeConfig, logger,
		carrier.NewFlatRate(storeConfig),
		carrier.NewFreeShipping(storeConfig),
		carrier.NewTableRate(storeConfig, carrierrepo.NewMySQLTableRateRepository(db)),
	)

	collector := service.NewRateCollector(
		registry,
		storeConfig,
		quotes.Repository,
		quotes.Totals,
		formatter,
		m,
		cfg.QuickOrder.StoreID,
		cfg.QuickOrder.CurrencyCode,
		logger,
	)
	quoter := service.NewShippingQuoter(quotes.Builder, regions, collector, cfg.QuickOrder.AllowedShippingMethods, logger)

	return &Module{
		Quoter:     quoter,
		Collector:  collector,
		Reconciler: service.NewReconciler(logger),
		Controller: controller.NewShippingController(quoter, logger),
	}
}

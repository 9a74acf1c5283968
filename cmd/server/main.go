package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"easyorder/internal/commons"
	"easyorder/internal/directory"
	"easyorder/internal/infrastructure/logger"
	"easyorder/internal/infrastructure/metrics"
	"easyorder/internal/infrastructure/mysql"
	"easyorder/internal/infrastructure/rabbitmq"
	"easyorder/internal/infrastructure/redis"
	notificationsvc "easyorder/internal/notification/service"
	"easyorder/internal/order"
	"easyorder/internal/pricing"
	"easyorder/internal/product"
	"easyorder/internal/quote"
	"easyorder/internal/server"
	"easyorder/internal/shipping"
	"easyorder/internal/storeconfig"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	cfg, err := commons.LoadConfig("internal/config/config.yaml")
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	startCtx, cancelStart := context.WithTimeout(context.Background(), 5*time.Second)
	cache, err := redis.New(startCtx, cfg.Redis)
	cancelStart()
	if err != nil {
		zapLogger.Fatal("connecting to redis", zap.Error(err))
	}
	defer cache.Close()
	zapLogger.Info("redis connected")

	var publisher notificationsvc.Publisher
	if cfg.QuickOrder.EmailNotification {
		pool, err := rabbitmq.NewChannelPool(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, cfg.RabbitMQ.ChannelPoolSize, zapLogger)
		if err != nil {
			zapLogger.Fatal("connecting to rabbitmq", zap.Error(err))
		}
		defer pool.Close()
		publisher = rabbitmq.NewPublisher(pool, cfg.RabbitMQ.Queue)
		zapLogger.Info("rabbitmq connected", zap.String("queue", cfg.RabbitMQ.Queue))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	quickOrderMetrics := metrics.New(registry)

	formatter, err := pricing.NewFormatter(cfg.QuickOrder.CurrencyCode, language.English)
	if err != nil {
		zapLogger.Fatal("creating price formatter", zap.Error(err))
	}

	storeConfig := storeconfig.NewModule(db, cache, cfg.QuickOrder.StoreID, zapLogger)
	regions := directory.NewModule(db, cache, zapLogger)
	productModule := product.NewModule(db, formatter, zapLogger)
	quoteModule := quote.NewModule(db, cfg, productModule.Service, zapLogger)
	shippingModule := shipping.NewModule(db, cfg, storeConfig, quoteModule, regions, formatter, quickOrderMetrics, zapLogger)
	orderModule := order.NewModule(
		db,
		cfg,
		storeConfig,
		cache,
		publisher,
		productModule.Service,
		quoteModule,
		shippingModule,
		regions,
		formatter,
		quickOrderMetrics,
		zapLogger,
	)

	router := server.NewRouter(
		server.RouterConfig{
			Enabled:  cfg.QuickOrder.Enabled,
			Gatherer: registry,
			Pingers: map[string]server.Pinger{
				"mysql": server.PingFunc(db.PingContext),
				"redis": cache,
			},
		},
		productModule.Controller,
		shippingModule.Controller,
		orderModule.Calculate,
		orderModule.CreateOrder,
		zapLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, router, zapLogger)
	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}
}

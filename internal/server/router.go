package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a context aware check such as (*sql.DB).PingContext.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type PricingController interface {
	HandleGetPrice(w http.ResponseWriter, r *http.Request)
}

type ShippingController interface {
	AvailableMethods(w http.ResponseWriter, r *http.Request)
}

type CalculateController interface {
	Calculate(w http.ResponseWriter, r *http.Request)
}

type OrderController interface {
	CreateOrder(w http.ResponseWriter, r *http.Request)
	FormKey(w http.ResponseWriter, r *http.Request)
}

type RouterConfig struct {
	Enabled  bool
	Gatherer prometheus.Gatherer
	Pingers  map[string]Pinger
}

func NewRouter(
	cfg RouterConfig,
	pricing PricingController,
	shipping ShippingController,
	calculate CalculateController,
	orders OrderController,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		Logging(logger),
		middleware.Recoverer,
	)

	r.Get("/health", health(cfg.Pingers, logger))
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/easyorder", func(r chi.Router) {
		r.Use(QuickOrderEnabled(cfg.Enabled))

		r.Get("/form_key", orders.FormKey)
		r.Post("/ajax/getprice", pricing.HandleGetPrice)
		r.Post("/ajax/shipping", shipping.AvailableMethods)
		r.Post("/ajax/calculate", calculate.Calculate)
		r.Post("/order/create", orders.CreateOrder)
	})

	return r
}

func health(pingers map[string]Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{}
		var errs error
		for name, p := range pingers {
			if err := p.Ping(ctx); err != nil {
				status[name] = "down"
				errs = multierr.Append(errs, err)
				continue
			}
			status[name] = "up"
		}

		code := http.StatusOK
		if errs != nil {
			logger.Warn("health check failed", zap.Error(errs))
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(status)
	}
}

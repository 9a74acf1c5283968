package quote

import (
	"database/sql"

	"go.uber.org/zap"

	"easyorder/internal/config"
	"easyorder/internal/quote/repository"
	"easyorder/internal/quote/service"
)

type Module struct {
	Repository *repository.MySQLQuoteRepository
	Totals     *service.TotalsCollector
	Builder    *service.QuoteBuilder
}

func NewModule(db *sql.DB, cfg *config.Config, products service.ProductService, logger *zap.Logger) *Module {
	repo := repository.NewMySQLQuoteRepository(db)
	totals := service.NewTotalsCollector()
	return &Module{
		Repository: repo,
		Totals:     totals,
		Builder: service.NewQuoteBuilder(
			products,
			repo,
			totals,
			cfg.QuickOrder.StoreID,
			cfg.QuickOrder.CurrencyCode,
			logger,
		),
	}
}

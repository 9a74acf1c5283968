package product

import (
	"database/sql"

	"go.uber.org/zap"

	"easyorder/internal/product/repository"
	"easyorder/internal/product/service"
)

type Module struct {
	Service    *service.ProductService
	Controller *Controller
}

func NewModule(db *sql.DB, formatter PriceFormatter, logger *zap.Logger) *Module {
	repo := repository.NewMySQLRepository(db)
	svc := service.NewService(repo, logger)
	uc := NewPriceUseCase(svc, formatter)
	return &Module{
		Service:    svc,
		Controller: NewController(uc, logger),
	}
}

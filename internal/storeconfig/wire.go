package storeconfig

import (
	"database/sql"

	"go.uber.org/zap"

	"easyorder/internal/storeconfig/repository"
	"easyorder/internal/storeconfig/service"
)

func NewModule(db *sql.DB, cache service.Cache, storeID int, logger *zap.Logger) *service.StoreConfigService {
	repo := repository.NewMySQLStoreConfigRepository(db)
	return service.NewStoreConfigService(repo, cache, storeID, logger)
}

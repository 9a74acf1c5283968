package directory

import (
	"database/sql"

	"go.uber.org/zap"

	"easyorder/internal/directory/repository"
	"easyorder/internal/directory/service"
)

func NewModule(db *sql.DB, cache service.Cache, logger *zap.Logger) *service.RegionResolver {
	repo := repository.NewMySQLRegionRepository(db)
	return service.NewRegionResolver(repo, cache, logger)
}

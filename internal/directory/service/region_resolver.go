package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"easyorder/internal/domain"
	apperrors "easyorder/internal/errors"
)

const cacheTag = "eav"

type RegionRepository interface {
	FindByID(ctx context.Context, id int) (*domain.Region, error)
	FindByName(ctx context.Context, countryID, name string) (*domain.Region, error)
}

type Cache interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string, tags ...string) error
}

// RegionResolver maps a submitted region (numeric id or free text) to a directory region id.
type RegionResolver struct {
	repo   RegionRepository
	cache  Cache
	logger *zap.Logger
}

func NewRegionResolver(repo RegionRepository, cache Cache, logger *zap.Logger) *RegionResolver {
	return &RegionResolver{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ResolveID returns the region id for region within countryID, or nil when it cannot be resolved.
// Lookup failures are logged and read as "no region id".
func (r *RegionResolver) ResolveID(ctx context.Context, region, countryID string) *int {
	region = strings.TrimSpace(region)
	if region == "" {
		return nil
	}

	key := fmt.Sprintf("region:%s:%s", strings.ToUpper(countryID), strings.ToLower(region))
	if cached, ok, err := r.cache.Load(ctx, key); err == nil && ok {
		if id, convErr := strconv.Atoi(cached); convErr == nil {
			return &id
		}
	}

	found, err := r.lookup(ctx, region, countryID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			r.logger.Warn("region lookup failed", zap.String("region", region), zap.String("countryId", countryID), zap.Error(err))
		} else {
			r.logger.Warn("could not find region id", zap.String("region", region), zap.String("countryId", countryID))
		}
		return nil
	}

	if err := r.cache.Save(ctx, key, strconv.Itoa(found.ID), cacheTag); err != nil {
		r.logger.Debug("region cache write failed", zap.Error(err))
	}

	id := found.ID
	return &id
}

func (r *RegionResolver) lookup(ctx context.Context, region, countryID string) (*domain.Region, error) {
	if id, err := strconv.Atoi(region); err == nil {
		found, err := r.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if countryID != "" && !strings.EqualFold(found.CountryID, countryID) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("region %d does not belong to %s", id, countryID))
		}
		return found, nil
	}

	return r.repo.FindByName(ctx, countryID, region)
}

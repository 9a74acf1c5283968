package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "easyorder/internal/errors"
	"easyorder/internal/infrastructure/redis"
)

type StoreConfigRepository interface {
	FindValue(ctx context.Context, storeID int, path string) (string, error)
	FindByPrefix(ctx context.Context, storeID int, prefix string) (map[string]string, error)
}

type Cache interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string, tags ...string) error
}

// StoreConfigService reads admin configuration values for one store, read-through cached.
// Lookups never fail: a missing or unreadable path reads as empty.
type StoreConfigService struct {
	repo    StoreConfigRepository
	cache   Cache
	storeID int
	logger  *zap.Logger
}

func NewStoreConfigService(repo StoreConfigRepository, cache Cache, storeID int, logger *zap.Logger) *StoreConfigService {
	return &StoreConfigService{
		repo:    repo,
		cache:   cache,
		storeID: storeID,
		logger:  logger,
	}
}

func (s *StoreConfigService) Value(ctx context.Context, path string) string {
	key := fmt.Sprintf("config:%d:%s", s.storeID, path)

	if cached, ok, err := s.cache.Load(ctx, key); err != nil {
		s.logger.Warn("config cache read failed", zap.String("path", path), zap.Error(err))
	} else if ok {
		return cached
	}

	value, err := s.repo.FindValue(ctx, s.storeID, path)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); !ok {
			s.logger.Warn("config value lookup failed", zap.String("path", path), zap.Error(err))
			return ""
		}
		// unset paths cache as empty
		value = ""
	}

	if err := s.cache.Save(ctx, key, value, redis.TagConfig); err != nil {
		s.logger.Warn("config cache write failed", zap.String("path", path), zap.Error(err))
	}

	return value
}

// Flag reads a yes/no setting.
func (s *StoreConfigService) Flag(ctx context.Context, path string) bool {
	switch strings.ToLower(strings.TrimSpace(s.Value(ctx, path))) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// Decimal reads a numeric setting; ok is false when the value is empty or not a number.
func (s *StoreConfigService) Decimal(ctx context.Context, path string) (decimal.Decimal, bool) {
	raw := strings.TrimSpace(s.Value(ctx, path))
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		s.logger.Warn("config value is not numeric", zap.String("path", path), zap.String("value", raw))
		return decimal.Zero, false
	}
	return d, true
}

// Section returns the codes configured directly under prefix, e.g. "carriers/" yields "flatrate", "ups".
func (s *StoreConfigService) Section(ctx context.Context, prefix string) []string {
	values, err := s.repo.FindByPrefix(ctx, s.storeID, prefix)
	if err != nil {
		s.logger.Warn("config section lookup failed", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}

	codes := lo.FilterMap(lo.Keys(values), func(path string, _ int) (string, bool) {
		code, _, found := strings.Cut(strings.TrimPrefix(path, prefix), "/")
		return code, found && code != ""
	})
	codes = lo.Uniq(codes)
	sort.Strings(codes)
	return codes
}

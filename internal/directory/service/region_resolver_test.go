package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"easyorder/internal/domain"
	apperrors "easyorder/internal/errors"
)

type mockRegionRepository struct {
	FindByIDFunc   func(ctx context.Context, id int) (*domain.Region, error)
	FindByNameFunc func(ctx context.Context, countryID, name string) (*domain.Region, error)
	nameCalls      int
}

func (m *mockRegionRepository) FindByID(ctx context.Context, id int) (*domain.Region, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockRegionRepository) FindByName(ctx context.Context, countryID, name string) (*domain.Region, error) {
	m.nameCalls++
	return m.FindByNameFunc(ctx, countryID, name)
}

type memoryCache map[string]string

func (c memoryCache) Load(ctx context.Context, key string) (string, bool, error) {
	v, ok := c[key]
	return v, ok, nil
}

func (c memoryCache) Save(ctx context.Context, key, value string, tags ...string) error {
	c[key] = value
	return nil
}

func TestRegionResolver_ByNameIsCached(t *testing.T) {
	repo := &mockRegionRepository{
		FindByNameFunc: func(ctx context.Context, countryID, name string) (*domain.Region, error) {
			return &domain.Region{ID: 1127, CountryID: "EG", DefaultName: "Cairo"}, nil
		},
	}
	cache := memoryCache{}
	resolver := NewRegionResolver(repo, cache, zap.NewNop())

	id := resolver.ResolveID(context.Background(), "Cairo", "EG")
	require.NotNil(t, id)
	assert.Equal(t, 1127, *id)

	id = resolver.ResolveID(context.Background(), "cairo", "eg")
	require.NotNil(t, id)
	assert.Equal(t, 1127, *id)
	assert.Equal(t, 1, repo.nameCalls)
}

func TestRegionResolver_NumericID(t *testing.T) {
	repo := &mockRegionRepository{
		FindByIDFunc: func(ctx context.Context, id int) (*domain.Region, error) {
			return &domain.Region{ID: id, CountryID: "US"}, nil
		},
	}
	resolver := NewRegionResolver(repo, memoryCache{}, zap.NewNop())

	id := resolver.ResolveID(context.Background(), "12", "US")
	require.NotNil(t, id)
	assert.Equal(t, 12, *id)

	assert.Nil(t, resolver.ResolveID(context.Background(), "13", "EG"))
}

func TestRegionResolver_ToleratesFailures(t *testing.T) {
	repo := &mockRegionRepository{
		FindByNameFunc: func(ctx context.Context, countryID, name string) (*domain.Region, error) {
			if name == "Atlantis" {
				return nil, apperrors.NewNotFoundError("region not found")
			}
			return nil, errors.New("connection refused")
		},
	}
	resolver := NewRegionResolver(repo, memoryCache{}, zap.NewNop())

	assert.Nil(t, resolver.ResolveID(context.Background(), "Atlantis", "EG"))
	assert.Nil(t, resolver.ResolveID(context.Background(), "Giza", "EG"))
	assert.Nil(t, resolver.ResolveID(context.Background(), "  ", "EG"))
}

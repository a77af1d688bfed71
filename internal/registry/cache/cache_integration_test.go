//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cartegrise/internal/registry/cache"
	"cartegrise/internal/registry/models"
	"cartegrise/pkg/domain"
	"cartegrise/pkg/testutil/containers"
)

type RecordCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	cache *cache.RecordCache
}

func TestRecordCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RecordCacheSuite))
}

func (s *RecordCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.cache = cache.New(s.redis.Client, 5*time.Minute)
}

func (s *RecordCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RecordCacheSuite) details(id domain.TokenID) models.VehicleDetails {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return models.VehicleDetails{
		VehicleRecord: models.VehicleRecord{
			TokenID:   id,
			VIN:       "VIN123",
			Brand:     "Tesla",
			Model:     "Model 3",
			Mileage:   10000,
			TokenURI:  "ipfs://test",
			MintedAt:  now,
			UpdatedAt: now,
		},
		Owner: domain.Address("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
	}
}

func (s *RecordCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	in := s.details(7)

	s.Require().NoError(s.cache.Set(ctx, in))

	got, ok, err := s.cache.Get(ctx, 7)
	s.Require().NoError(err)
	s.Require().True(ok)
	s.Equal(in.VIN, got.VIN)
	s.Equal(in.Owner, got.Owner)
	s.Equal(in.Mileage, got.Mileage)
}

func (s *RecordCacheSuite) TestMissAndInvalidate() {
	ctx := context.Background()

	_, ok, err := s.cache.Get(ctx, 42)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.cache.Set(ctx, s.details(42)))
	s.Require().NoError(s.cache.Invalidate(ctx, 42))

	_, ok, err = s.cache.Get(ctx, 42)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RecordCacheSuite) TestNilCacheIsInert() {
	ctx := context.Background()
	var nilCache *cache.RecordCache

	_, ok, err := nilCache.Get(ctx, 1)
	s.Require().NoError(err)
	s.False(ok)
	s.Require().NoError(nilCache.Set(ctx, s.details(1)))
	s.Require().NoError(nilCache.Invalidate(ctx, 1))
}

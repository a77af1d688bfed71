//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cartegrise/internal/registry/models"
	"cartegrise/internal/registry/store"
	"cartegrise/pkg/domain"
	dErrors "cartegrise/pkg/domain-errors"
	"cartegrise/pkg/testutil/containers"
)

const (
	pgAdmin = domain.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	pgBuyer = domain.Address("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	pgOther = domain.Address("0xcccccccccccccccccccccccccccccccccccccccc")
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "vehicle_records", "registry_tokens", "registry_roles", "registry_counter")
	s.Require().NoError(err)
	s.Require().NoError(s.store.EnsureSchema(ctx))
	s.Require().NoError(s.store.EnsureBootstrapAdmin(ctx, pgAdmin))
}

func (s *PostgresStoreSuite) record(vin string) models.VehicleRecord {
	return models.VehicleRecord{VIN: vin, Brand: "Tesla", Model: "Model 3", Mileage: 10000, TokenURI: "ipfs://test"}
}

func (s *PostgresStoreSuite) TestBootstrapAdminIsSeededOnce() {
	ctx := context.Background()

	role, err := s.store.RoleOf(ctx, pgAdmin)
	s.Require().NoError(err)
	s.Equal(models.RoleAdmin, role)

	// Re-seeding must not clobber a role changed since bootstrap.
	_, err = s.store.SetRole(ctx, pgAdmin, models.RoleDealer)
	s.Require().NoError(err)
	s.Require().NoError(s.store.EnsureBootstrapAdmin(ctx, pgAdmin))

	role, err = s.store.RoleOf(ctx, pgAdmin)
	s.Require().NoError(err)
	s.Equal(models.RoleDealer, role)
}

func (s *PostgresStoreSuite) TestSetRoleReturnsPrevious() {
	ctx := context.Background()

	prev, err := s.store.SetRole(ctx, pgBuyer, models.RoleDealer)
	s.Require().NoError(err)
	s.Equal(models.RoleNone, prev)

	prev, err = s.store.SetRole(ctx, pgBuyer, models.RoleInsurer)
	s.Require().NoError(err)
	s.Equal(models.RoleDealer, prev)

	prev, err = s.store.SetRole(ctx, pgBuyer, models.RoleNone)
	s.Require().NoError(err)
	s.Equal(models.RoleInsurer, prev)

	role, err := s.store.RoleOf(ctx, pgBuyer)
	s.Require().NoError(err)
	s.Equal(models.RoleNone, role)
}

func (s *PostgresStoreSuite) TestMintRoundTrip() {
	ctx := context.Background()

	in := models.VehicleRecord{VIN: "VIN123", Brand: "Renault", Model: "Zoé", Mileage: 42, TokenURI: "ipfs://QmX"}
	id, err := s.store.Mint(ctx, pgBuyer, in, s.now)
	s.Require().NoError(err)
	s.Equal(domain.TokenID(0), id)

	got, err := s.store.Record(ctx, id)
	s.Require().NoError(err)
	s.Equal(in.VIN, got.VIN)
	s.Equal(in.Brand, got.Brand)
	s.Equal(in.Model, got.Model)
	s.Equal(in.Mileage, got.Mileage)
	s.Equal(in.TokenURI, got.TokenURI)
	s.True(got.MintedAt.Equal(s.now))

	owner, err := s.store.OwnerOf(ctx, id)
	s.Require().NoError(err)
	s.Equal(pgBuyer, owner)
}

// Concurrent mints must never hand out the same token id; the counter update
// serializes allocations inside each transaction.
func (s *PostgresStoreSuite) TestConcurrentMintsAllocateDistinctIDs() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	ids := make(chan domain.TokenID, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := s.store.Mint(ctx, pgBuyer, s.record("VIN"), s.now)
			s.Require().NoError(err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[domain.TokenID]bool)
	for id := range ids {
		s.False(seen[id], "token id %s allocated twice", id)
		seen[id] = true
	}
	s.Len(seen, goroutines)

	next, err := s.store.NextTokenID(ctx)
	s.Require().NoError(err)
	s.Equal(domain.TokenID(goroutines), next)
}

func (s *PostgresStoreSuite) TestFailedMintRollsBackEverything() {
	ctx := context.Background()

	before, err := s.store.NextTokenID(ctx)
	s.Require().NoError(err)

	_, err = s.store.Mint(ctx, domain.ZeroAddress, s.record("VINX"), s.now)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidRecipient))

	after, err := s.store.NextTokenID(ctx)
	s.Require().NoError(err)
	s.Equal(before, after)
}

func (s *PostgresStoreSuite) TestTransferGuardsAndApprovalClearing() {
	ctx := context.Background()

	id, err := s.store.Mint(ctx, pgBuyer, s.record("VIN123"), s.now)
	s.Require().NoError(err)

	s.Run("stranger may not transfer", func() {
		err := s.store.Transfer(ctx, pgOther, pgBuyer, pgOther, id)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("approved operator transfers and approval clears", func() {
		s.Require().NoError(s.store.Approve(ctx, pgBuyer, id, pgOther))
		s.Require().NoError(s.store.Transfer(ctx, pgOther, pgBuyer, pgOther, id))

		owner, err := s.store.OwnerOf(ctx, id)
		s.Require().NoError(err)
		s.Equal(pgOther, owner)

		approved, err := s.store.Approved(ctx, id)
		s.Require().NoError(err)
		s.True(approved.IsZero())
	})

	s.Run("nonexistent token fails", func() {
		err := s.store.Transfer(ctx, pgBuyer, pgBuyer, pgOther, domain.TokenID(999))
		s.True(dErrors.HasCode(err, dErrors.CodeNonexistentToken))
	})
}

func (s *PostgresStoreSuite) TestEnumerationAndBalances() {
	ctx := context.Background()

	var minted []domain.TokenID
	for i := 0; i < 3; i++ {
		id, err := s.store.Mint(ctx, pgBuyer, s.record("VIN"), s.now)
		s.Require().NoError(err)
		minted = append(minted, id)
	}
	s.Require().NoError(s.store.Transfer(ctx, pgBuyer, pgBuyer, pgOther, minted[1]))

	ids, err := s.store.TokensOfOwner(ctx, pgBuyer)
	s.Require().NoError(err)
	s.Equal([]domain.TokenID{minted[0], minted[2]}, ids)

	got, err := s.store.TokenOfOwnerByIndex(ctx, pgBuyer, 1)
	s.Require().NoError(err)
	s.Equal(minted[2], got)

	_, err = s.store.TokenOfOwnerByIndex(ctx, pgBuyer, 2)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	balance, err := s.store.BalanceOf(ctx, pgBuyer)
	s.Require().NoError(err)
	s.Equal(2, balance)
}

func (s *PostgresStoreSuite) TestMileageAndURIUpdates() {
	ctx := context.Background()

	id, err := s.store.Mint(ctx, pgBuyer, s.record("VIN123"), s.now)
	s.Require().NoError(err)

	later := s.now.Add(time.Hour)
	rec, err := s.store.UpdateMileage(ctx, id, 20000, later)
	s.Require().NoError(err)
	s.Equal(uint64(20000), rec.Mileage)
	s.True(rec.UpdatedAt.Equal(later))

	// Decreases are legal: monotonicity is intentionally unenforced.
	rec, err = s.store.UpdateMileage(ctx, id, 5, later)
	s.Require().NoError(err)
	s.Equal(uint64(5), rec.Mileage)

	rec, err = s.store.UpdateTokenURI(ctx, id, "ipfs://QmNew", later)
	s.Require().NoError(err)
	s.Equal("ipfs://QmNew", rec.TokenURI)

	_, err = s.store.UpdateMileage(ctx, domain.TokenID(404), 1, later)
	s.True(dErrors.HasCode(err, dErrors.CodeNonexistentToken))
}

func (s *PostgresStoreSuite) TestFindByVINReturnsAllMatches() {
	ctx := context.Background()

	_, err := s.store.Mint(ctx, pgBuyer, s.record("DUP"), s.now)
	s.Require().NoError(err)
	_, err = s.store.Mint(ctx, pgOther, s.record("DUP"), s.now)
	s.Require().NoError(err)

	recs, err := s.store.FindByVIN(ctx, "DUP")
	s.Require().NoError(err)
	s.Require().Len(recs, 2)
	s.Less(recs[0].TokenID, recs[1].TokenID)
}

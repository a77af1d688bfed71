package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cartegrise/internal/events"
	"cartegrise/internal/registry/models"
	"cartegrise/internal/registry/store"
	"cartegrise/pkg/domain"
	dErrors "cartegrise/pkg/domain-errors"
)

const (
	admin    = domain.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	dealer   = domain.Address("0xdddddddddddddddddddddddddddddddddddddddd")
	buyer    = domain.Address("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	other    = domain.Address("0xcccccccccccccccccccccccccccccccccccccccc")
	stranger = domain.Address("0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
)

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	store     *store.MemoryStore
	publisher *events.Publisher
	svc       *Service
	now       time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewMemory(admin)
	s.publisher = events.NewPublisher(events.NewInMemoryStore())
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.svc = New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithEventPublisher(s.publisher),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ServiceSuite) record(vin string) models.VehicleRecord {
	return models.VehicleRecord{VIN: vin, Brand: "Tesla", Model: "Model 3", Mileage: 10000, TokenURI: "ipfs://test"}
}

func (s *ServiceSuite) grantDealer() {
	_, err := s.svc.SetRole(s.ctx, admin, dealer, models.RoleDealer)
	s.Require().NoError(err)
}

// The canonical happy path: the admin appoints a dealer, the dealer registers
// a vehicle for a buyer, and the buyer sells it on.
func (s *ServiceSuite) TestDealerMintAndResale() {
	s.grantDealer()

	details, err := s.svc.Mint(s.ctx, dealer, buyer, s.record("VIN123"))
	s.Require().NoError(err)
	s.Equal(domain.TokenID(0), details.TokenID)
	s.Equal("VIN123", details.VIN)
	s.Equal("Tesla", details.Brand)
	s.Equal("Model 3", details.Model)
	s.Equal(uint64(10000), details.Mileage)
	s.Equal("ipfs://test", details.TokenURI)
	s.Equal(buyer, details.Owner)

	s.Require().NoError(s.svc.Transfer(s.ctx, buyer, buyer, other, details.TokenID))

	owner, err := s.svc.OwnerOf(s.ctx, details.TokenID)
	s.Require().NoError(err)
	s.Equal(other, owner)
}

func (s *ServiceSuite) TestMintRequiresDealerRole() {
	s.grantDealer()
	_, err := s.svc.Mint(s.ctx, dealer, buyer, s.record("VIN123"))
	s.Require().NoError(err)

	for _, caller := range []domain.Address{stranger, admin, buyer} {
		_, err := s.svc.Mint(s.ctx, caller, buyer, s.record("VINX"))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized), "caller %s must not mint", caller)
	}

	// Failed mints consume no ids.
	next, err := s.store.NextTokenID(s.ctx)
	s.Require().NoError(err)
	s.Equal(domain.TokenID(1), next)
}

func (s *ServiceSuite) TestSetRoleRequiresAdmin() {
	_, err := s.svc.SetRole(s.ctx, stranger, dealer, models.RoleDealer)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	role, err := s.svc.RoleOf(s.ctx, dealer)
	s.Require().NoError(err)
	s.Equal(models.RoleNone, role)
}

func (s *ServiceSuite) TestSetRoleLastWriteWinsAndReportsPrevious() {
	assignment, err := s.svc.SetRole(s.ctx, admin, dealer, models.RoleDealer)
	s.Require().NoError(err)
	s.Equal(models.RoleNone, assignment.Previous)

	assignment, err = s.svc.SetRole(s.ctx, admin, dealer, models.RoleInsurer)
	s.Require().NoError(err)
	s.Equal(models.RoleDealer, assignment.Previous)
	s.Equal(models.RoleInsurer, assignment.Role)
}

func (s *ServiceSuite) TestAdminMayRevokeOwnRole() {
	// Deliberately allowed; afterwards nobody can administer roles.
	_, err := s.svc.SetRole(s.ctx, admin, admin, models.RoleNone)
	s.Require().NoError(err)

	_, err = s.svc.SetRole(s.ctx, admin, dealer, models.RoleDealer)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestMileageUpdateGating() {
	s.grantDealer()
	details, err := s.svc.Mint(s.ctx, dealer, buyer, s.record("VIN123"))
	s.Require().NoError(err)
	id := details.TokenID

	s.Run("owner may update", func() {
		got, err := s.svc.UpdateMileage(s.ctx, buyer, id, 20000)
		s.Require().NoError(err)
		s.Equal(uint64(20000), got.Mileage)
	})

	s.Run("admin may update", func() {
		got, err := s.svc.UpdateMileage(s.ctx, admin, id, 30000)
		s.Require().NoError(err)
		s.Equal(uint64(30000), got.Mileage)
	})

	s.Run("decrease is legal", func() {
		got, err := s.svc.UpdateMileage(s.ctx, buyer, id, 5)
		s.Require().NoError(err)
		s.Equal(uint64(5), got.Mileage)
	})

	s.Run("stranger may not update", func() {
		_, err := s.svc.UpdateMileage(s.ctx, stranger, id, 1)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("nonexistent token", func() {
		_, err := s.svc.UpdateMileage(s.ctx, buyer, domain.TokenID(404), 1)
		s.True(dErrors.HasCode(err, dErrors.CodeNonexistentToken))
	})
}

func (s *ServiceSuite) TestTokenURIUpdateGating() {
	s.grantDealer()
	details, err := s.svc.Mint(s.ctx, dealer, buyer, s.record("VIN123"))
	s.Require().NoError(err)

	got, err := s.svc.UpdateTokenURI(s.ctx, buyer, details.TokenID, "ipfs://QmNew")
	s.Require().NoError(err)
	s.Equal("ipfs://QmNew", got.TokenURI)

	_, err = s.svc.UpdateTokenURI(s.ctx, stranger, details.TokenID, "ipfs://evil")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestApprovalFlow() {
	s.grantDealer()
	details, err := s.svc.Mint(s.ctx, dealer, buyer, s.record("VIN123"))
	s.Require().NoError(err)
	id := details.TokenID

	s.Require().NoError(s.svc.Approve(s.ctx, buyer, id, other))

	approved, err := s.svc.Approved(s.ctx, id)
	s.Require().NoError(err)
	s.Equal(other, approved)

	// The approved operator moves the token; approval clears.
	s.Require().NoError(s.svc.Transfer(s.ctx, other, buyer, other, id))
	approved, err = s.svc.Approved(s.ctx, id)
	s.Require().NoError(err)
	s.True(approved.IsZero())
}

func (s *ServiceSuite) TestVehicleLookupJoinsOwner() {
	s.grantDealer()
	details, err := s.svc.Mint(s.ctx, dealer, buyer, s.record("VIN123"))
	s.Require().NoError(err)

	got, err := s.svc.Vehicle(s.ctx, details.TokenID)
	s.Require().NoError(err)
	s.Equal(buyer, got.Owner)
	s.Equal("VIN123", got.VIN)

	_, err = s.svc.Vehicle(s.ctx, domain.TokenID(404))
	s.True(dErrors.HasCode(err, dErrors.CodeNonexistentToken))
}

func (s *ServiceSuite) TestOwnerPortfolio() {
	s.grantDealer()
	var ids []domain.TokenID
	for _, vin := range []string{"A", "B", "C"} {
		details, err := s.svc.Mint(s.ctx, dealer, buyer, s.record(vin))
		s.Require().NoError(err)
		ids = append(ids, details.TokenID)
	}
	s.Require().NoError(s.svc.Transfer(s.ctx, buyer, buyer, other, ids[1]))

	portfolio, err := s.svc.OwnerPortfolio(s.ctx, buyer)
	s.Require().NoError(err)
	s.Equal(2, portfolio.Balance)
	s.Require().Len(portfolio.Vehicles, 2)
	s.Equal("A", portfolio.Vehicles[0].VIN)
	s.Equal("C", portfolio.Vehicles[1].VIN)

	id, err := s.svc.TokenOfOwnerByIndex(s.ctx, buyer, 1)
	s.Require().NoError(err)
	s.Equal(ids[2], id)
}

func (s *ServiceSuite) TestFindByVINReturnsDuplicates() {
	s.grantDealer()
	_, err := s.svc.Mint(s.ctx, dealer, buyer, s.record("DUP"))
	s.Require().NoError(err)
	_, err = s.svc.Mint(s.ctx, dealer, other, s.record("DUP"))
	s.Require().NoError(err)

	recs, err := s.svc.FindByVIN(s.ctx, "DUP")
	s.Require().NoError(err)
	s.Len(recs, 2)
}

func (s *ServiceSuite) TestEventsEmitted() {
	s.grantDealer()
	details, err := s.svc.Mint(s.ctx, dealer, buyer, s.record("VIN123"))
	s.Require().NoError(err)
	s.Require().NoError(s.svc.Transfer(s.ctx, buyer, buyer, other, details.TokenID))

	listed, err := s.svc.RecentEvents(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(listed, 3)

	// Newest first: transfer, mint, role grant.
	s.Equal(events.TypeTransfer, listed[0].Type)
	s.Equal(buyer, listed[0].From)
	s.Equal(other, listed[0].To)

	s.Equal(events.TypeTransfer, listed[1].Type)
	s.True(listed[1].From.IsZero(), "mint must read as a transfer from the zero address")
	s.Equal(buyer, listed[1].To)

	s.Equal(events.TypeRoleChanged, listed[2].Type)
	s.Equal(dealer, listed[2].Target)
	s.Equal("dealer", listed[2].Role)
	s.Equal("none", listed[2].Previous)
}

func (s *ServiceSuite) TestFailedOperationsEmitNothing() {
	_, err := s.svc.Mint(s.ctx, stranger, buyer, s.record("VIN123"))
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	listed, err := s.svc.RecentEvents(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(listed)
}

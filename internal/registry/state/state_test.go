package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"cartegrise/internal/registry/models"
	"cartegrise/pkg/domain"
	dErrors "cartegrise/pkg/domain-errors"
)

const (
	admin  = domain.Address("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	dealer = domain.Address("0xdddddddddddddddddddddddddddddddddddddddd")
	buyer  = domain.Address("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	other  = domain.Address("0xcccccccccccccccccccccccccccccccccccccccc")
)

type StateSuite struct {
	suite.Suite
	state *State
	now   time.Time
}

func TestStateSuite(t *testing.T) {
	suite.Run(t, new(StateSuite))
}

func (s *StateSuite) SetupTest() {
	s.state = New(admin)
	s.now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StateSuite) record(vin string) models.VehicleRecord {
	return models.VehicleRecord{
		VIN:      vin,
		Brand:    "Tesla",
		Model:    "Model 3",
		Mileage:  10000,
		TokenURI: "ipfs://test",
	}
}

func (s *StateSuite) TestBootstrapAdminSeeded() {
	s.Equal(models.RoleAdmin, s.state.RoleOf(admin))
	s.Equal(models.RoleNone, s.state.RoleOf(buyer))
}

func (s *StateSuite) TestSetRole() {
	s.Run("last write wins", func() {
		prev, err := s.state.SetRole(dealer, models.RoleDealer)
		s.Require().NoError(err)
		s.Equal(models.RoleNone, prev)

		prev, err = s.state.SetRole(dealer, models.RoleInsurer)
		s.Require().NoError(err)
		s.Equal(models.RoleDealer, prev)
		s.Equal(models.RoleInsurer, s.state.RoleOf(dealer))
	})

	s.Run("none removes the entry", func() {
		_, err := s.state.SetRole(dealer, models.RoleDealer)
		s.Require().NoError(err)
		_, err = s.state.SetRole(dealer, models.RoleNone)
		s.Require().NoError(err)
		s.Equal(models.RoleNone, s.state.RoleOf(dealer))
	})

	s.Run("an admin may revoke their own admin role", func() {
		// Deliberately allowed; the registry does not guard against
		// bricking role administration.
		prev, err := s.state.SetRole(admin, models.RoleNone)
		s.Require().NoError(err)
		s.Equal(models.RoleAdmin, prev)
		s.Equal(models.RoleNone, s.state.RoleOf(admin))
	})

	s.Run("rejects the zero address", func() {
		_, err := s.state.SetRole(domain.ZeroAddress, models.RoleDealer)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidRecipient))
	})
}

func (s *StateSuite) TestMint() {
	s.Run("ids are dense from zero in call order", func() {
		for i, vin := range []string{"VIN0", "VIN1", "VIN2"} {
			id, err := s.state.Mint(buyer, s.record(vin), s.now)
			s.Require().NoError(err)
			s.Equal(domain.TokenID(i), id)
		}
		s.Equal(3, s.state.TotalMinted())
		s.Equal(3, s.state.BalanceOf(buyer))
	})

	s.Run("round-trips every submitted field", func() {
		in := models.VehicleRecord{VIN: "VIN123", Brand: "Renault", Model: "Zoé", Mileage: 42, TokenURI: "ipfs://QmX"}
		id, err := s.state.Mint(buyer, in, s.now)
		s.Require().NoError(err)

		got, err := s.state.Record(id)
		s.Require().NoError(err)
		s.Equal(in.VIN, got.VIN)
		s.Equal(in.Brand, got.Brand)
		s.Equal(in.Model, got.Model)
		s.Equal(in.Mileage, got.Mileage)
		s.Equal(in.TokenURI, got.TokenURI)
		s.Equal(s.now, got.MintedAt)
	})

	s.Run("zero recipient fails without consuming an id", func() {
		before := s.state.NextID()
		_, err := s.state.Mint(domain.ZeroAddress, s.record("VINX"), s.now)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidRecipient))
		s.Equal(before, s.state.NextID())
	})

	s.Run("duplicate VINs are allowed by design", func() {
		_, err := s.state.Mint(buyer, s.record("DUP"), s.now)
		s.Require().NoError(err)
		_, err = s.state.Mint(other, s.record("DUP"), s.now)
		s.Require().NoError(err)
		s.Len(s.state.FindByVIN("DUP"), 2)
	})
}

func (s *StateSuite) TestTransfer() {
	mint := func() domain.TokenID {
		id, err := s.state.Mint(buyer, s.record("VIN123"), s.now)
		s.Require().NoError(err)
		return id
	}

	s.Run("owner transfers and balances move", func() {
		id := mint()
		s.Require().NoError(s.state.Transfer(buyer, buyer, other, id))

		owner, err := s.state.OwnerOf(id)
		s.Require().NoError(err)
		s.Equal(other, owner)
		s.Equal(0, s.state.BalanceOf(buyer))
		s.Equal(1, s.state.BalanceOf(other))
	})

	s.Run("approval is cleared on transfer", func() {
		id := mint()
		s.Require().NoError(s.state.Approve(buyer, id, other))
		s.Require().NoError(s.state.Transfer(other, buyer, other, id))

		approved, err := s.state.Approved(id)
		s.Require().NoError(err)
		s.True(approved.IsZero())
	})

	s.Run("approved operator may transfer", func() {
		id := mint()
		s.Require().NoError(s.state.Approve(buyer, id, dealer))
		s.Require().NoError(s.state.Transfer(dealer, buyer, other, id))
	})

	s.Run("stranger may not transfer", func() {
		id := mint()
		err := s.state.Transfer(other, buyer, other, id)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("wrong from fails", func() {
		id := mint()
		err := s.state.Transfer(buyer, other, dealer, id)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("zero recipient fails", func() {
		id := mint()
		err := s.state.Transfer(buyer, buyer, domain.ZeroAddress, id)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidRecipient))
	})

	s.Run("unminted token fails", func() {
		err := s.state.Transfer(buyer, buyer, other, domain.TokenID(999))
		s.True(dErrors.HasCode(err, dErrors.CodeNonexistentToken))
	})
}

func (s *StateSuite) TestApprove() {
	id, err := s.state.Mint(buyer, s.record("VIN123"), s.now)
	s.Require().NoError(err)

	s.Run("only owner may approve", func() {
		err := s.state.Approve(other, id, dealer)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("zero operator clears approval", func() {
		s.Require().NoError(s.state.Approve(buyer, id, dealer))
		s.Require().NoError(s.state.Approve(buyer, id, domain.ZeroAddress))
		approved, err := s.state.Approved(id)
		s.Require().NoError(err)
		s.True(approved.IsZero())
	})
}

func (s *StateSuite) TestMileageUpdates() {
	id, err := s.state.Mint(buyer, s.record("VIN123"), s.now)
	s.Require().NoError(err)

	later := s.now.Add(time.Hour)
	rec, err := s.state.UpdateMileage(id, 20000, later)
	s.Require().NoError(err)
	s.Equal(uint64(20000), rec.Mileage)
	s.Equal(later, rec.UpdatedAt)

	// Decreases are legal: monotonicity is intentionally unenforced.
	rec, err = s.state.UpdateMileage(id, 5, later)
	s.Require().NoError(err)
	s.Equal(uint64(5), rec.Mileage)

	_, err = s.state.UpdateMileage(domain.TokenID(404), 1, later)
	s.True(dErrors.HasCode(err, dErrors.CodeNonexistentToken))
}

func (s *StateSuite) TestEnumeration() {
	var minted []domain.TokenID
	for _, vin := range []string{"A", "B", "C"} {
		id, err := s.state.Mint(buyer, s.record(vin), s.now)
		s.Require().NoError(err)
		minted = append(minted, id)
	}
	s.Require().NoError(s.state.Transfer(buyer, buyer, other, minted[1]))

	s.Equal([]domain.TokenID{minted[0], minted[2]}, s.state.TokensOfOwner(buyer))

	id, err := s.state.TokenOfOwnerByIndex(buyer, 1)
	s.Require().NoError(err)
	s.Equal(minted[2], id)

	_, err = s.state.TokenOfOwnerByIndex(buyer, 2)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// Balance bookkeeping: for every address, the balance equals the count of
// tokens whose current owner is that address, and the balances sum to the
// total minted count.
func (s *StateSuite) TestBalanceInvariant() {
	addrs := []domain.Address{buyer, other, dealer}
	for i := 0; i < 9; i++ {
		_, err := s.state.Mint(addrs[i%3], s.record("VIN"), s.now)
		s.Require().NoError(err)
	}
	s.Require().NoError(s.state.Transfer(buyer, buyer, other, 0))
	s.Require().NoError(s.state.Transfer(other, other, dealer, 1))

	total := 0
	for _, addr := range addrs {
		s.Equal(len(s.state.TokensOfOwner(addr)), s.state.BalanceOf(addr))
		total += s.state.BalanceOf(addr)
	}
	s.Equal(s.state.TotalMinted(), total)
}

func (s *StateSuite) TestCloneIsolation() {
	id, err := s.state.Mint(buyer, s.record("VIN123"), s.now)
	s.Require().NoError(err)

	clone := s.state.Clone()
	_, err = clone.UpdateMileage(id, 99999, s.now)
	s.Require().NoError(err)
	s.Require().NoError(clone.Transfer(buyer, buyer, other, id))

	// The original is untouched.
	rec, err := s.state.Record(id)
	s.Require().NoError(err)
	s.Equal(uint64(10000), rec.Mileage)
	owner, err := s.state.OwnerOf(id)
	s.Require().NoError(err)
	s.Equal(buyer, owner)
}

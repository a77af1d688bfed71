// Package store provides the registry's persistence implementations. Both the
// in-memory store and the PostgreSQL store expose the same atomic operations:
// a failed call never leaves a partial mutation behind, which is the registry's
// all-or-nothing contract.
package store

import (
	"context"
	"time"

	"cartegrise/internal/registry/models"
	"cartegrise/pkg/domain"
)

// Store is the persistence contract the registry service depends on. Ledger
// mechanics (existence, ownership, approval, zero-address guards) are enforced
// inside each operation so they hold atomically; role gating lives in the
// service layer. Operations surface pkg/domain-errors codes so every failure
// kind stays distinguishable from a zero-ish success.
type Store interface {
	// Access control.
	SetRole(ctx context.Context, target domain.Address, role models.Role) (previous models.Role, err error)
	RoleOf(ctx context.Context, addr domain.Address) (models.Role, error)

	// Minting and records.
	Mint(ctx context.Context, to domain.Address, rec models.VehicleRecord, now time.Time) (domain.TokenID, error)
	Record(ctx context.Context, id domain.TokenID) (models.VehicleRecord, error)
	UpdateMileage(ctx context.Context, id domain.TokenID, mileage uint64, now time.Time) (models.VehicleRecord, error)
	UpdateTokenURI(ctx context.Context, id domain.TokenID, uri string, now time.Time) (models.VehicleRecord, error)
	FindByVIN(ctx context.Context, vin string) ([]models.VehicleRecord, error)

	// Ledger reads and transfers.
	Transfer(ctx context.Context, caller, from, to domain.Address, id domain.TokenID) error
	Approve(ctx context.Context, caller domain.Address, id domain.TokenID, operator domain.Address) error
	Approved(ctx context.Context, id domain.TokenID) (domain.Address, error)
	OwnerOf(ctx context.Context, id domain.TokenID) (domain.Address, error)
	BalanceOf(ctx context.Context, addr domain.Address) (int, error)
	TokensOfOwner(ctx context.Context, addr domain.Address) ([]domain.TokenID, error)
	TokenOfOwnerByIndex(ctx context.Context, addr domain.Address, index int) (domain.TokenID, error)

	// NextTokenID exposes the monotonic counter for diagnostics and tests.
	NextTokenID(ctx context.Context) (domain.TokenID, error)
}

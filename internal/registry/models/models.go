package models

import (
	"time"

	"cartegrise/pkg/domain"
)

// VehicleRecord is the vehicle-specific payload attached to a token.
//
// Invariants:
//   - Created exactly once, at mint time; never deleted (no burn in scope)
//   - VIN, Brand, Model and TokenURI are stored verbatim; the registry does
//     not validate VIN checksums or uniqueness and never interprets the URI
//   - Mileage is mutable and NOT monotonic; callers own that policy
//
// The owner is not duplicated here; it lives in the token ledger and changes
// on transfer without touching the record.
type VehicleRecord struct {
	TokenID  domain.TokenID `json:"token_id"`
	VIN      string         `json:"vin"`
	Brand    string         `json:"brand"`
	Model    string         `json:"model"`
	Mileage  uint64         `json:"mileage"`
	TokenURI string         `json:"token_uri"`

	MintedAt  time.Time `json:"minted_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VehicleDetails joins a record with its current owner for read paths; the
// dashboards always want both.
type VehicleDetails struct {
	VehicleRecord
	Owner domain.Address `json:"owner"`
}

// Portfolio is the per-owner enumeration the dashboard renders: the balance
// plus every record currently owned, ordered by ascending token id.
type Portfolio struct {
	Owner    domain.Address   `json:"owner"`
	Balance  int              `json:"balance"`
	Vehicles []VehicleDetails `json:"vehicles"`
}

// RoleAssignment captures the outcome of a setRole call.
type RoleAssignment struct {
	Target   domain.Address `json:"target"`
	Role     Role           `json:"role"`
	Previous Role           `json:"previous"`
}

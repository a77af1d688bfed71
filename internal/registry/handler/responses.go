package handler

import (
	"cartegrise/internal/events"
	"cartegrise/internal/registry/models"
	"cartegrise/pkg/domain"
)

// RoleResponse is returned by the role endpoints.
type RoleResponse struct {
	Address  string `json:"address"`
	Role     string `json:"role"`
	Previous string `json:"previous,omitempty"`
	HasRole  bool   `json:"has_role"`
}

// OwnerResponse is returned by GET .../owner.
type OwnerResponse struct {
	TokenID domain.TokenID `json:"token_id"`
	Owner   string         `json:"owner"`
}

// ApprovedResponse is returned by GET .../approved. Approved is the zero
// address when no operator is set.
type ApprovedResponse struct {
	TokenID  domain.TokenID `json:"token_id"`
	Approved string         `json:"approved"`
}

// TokenByIndexResponse is returned by GET /registry/owners/{address}/tokens/{index}.
type TokenByIndexResponse struct {
	Owner   string         `json:"owner"`
	Index   int            `json:"index"`
	TokenID domain.TokenID `json:"token_id"`
}

// VINSearchResponse is returned by GET /registry/vehicles/vin/{vin}. Matches
// can be empty or plural; VINs are not unique.
type VINSearchResponse struct {
	VIN     string                 `json:"vin"`
	Matches []models.VehicleRecord `json:"matches"`
}

// EventsResponse is returned by GET /registry/events, newest first.
type EventsResponse struct {
	Events []events.Event `json:"events"`
}

// Package events captures the registry's public activity feed. Every
// successful mint, transfer, and role change produces one event; events are
// appended to the local log and fanned out to Kafka when a sink is wired.
package events

import (
	"time"

	"cartegrise/pkg/domain"
)

// Type classifies registry events.
type Type string

const (
	// TypeTransfer covers ownership movement. A mint is a transfer from the
	// zero address, matching the ledger convention dashboards expect.
	TypeTransfer Type = "transfer"

	// TypeRoleChanged covers role grants and revocations.
	TypeRoleChanged Type = "role_changed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Sequence  uint64         `json:"sequence"`
	Type      Type           `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Actor     domain.Address `json:"actor"`

	// Transfer fields. From is the zero address for mints.
	TokenID *domain.TokenID `json:"token_id,omitempty"`
	From    domain.Address  `json:"from,omitempty"`
	To      domain.Address  `json:"to,omitempty"`

	// Role change fields.
	Target   domain.Address `json:"target,omitempty"`
	Role     string         `json:"role,omitempty"`
	Previous string         `json:"previous,omitempty"`
}

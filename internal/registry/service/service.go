// Package service orchestrates the vehicle registry: role gating, ledger
// operations, record lookups with the optional cache, and event emission.
// Ledger mechanics live in the store; every authority decision lives here.
package service

import (
	"context"
	"log/slog"
	"time"

	"cartegrise/internal/events"
	"cartegrise/internal/platform/middleware"
	"cartegrise/internal/registry/cache"
	"cartegrise/internal/registry/metrics"
	"cartegrise/internal/registry/models"
	"cartegrise/internal/registry/store"
	"cartegrise/pkg/domain"
	dErrors "cartegrise/pkg/domain-errors"
)

// EventPublisher receives registry events after successful mutations.
type EventPublisher interface {
	Emit(ctx context.Context, event events.Event) error
	List(ctx context.Context, limit int) ([]events.Event, error)
}

// Service exposes every registry operation. The zero-value optional
// dependencies (logger, metrics, cache, publisher) are all nil-safe.
type Service struct {
	store     store.Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	cache     *cache.RecordCache
	publisher EventPublisher
	clock     func() time.Time
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCache(c *cache.RecordCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithClock overrides time.Now for deterministic tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// New constructs a Service.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{store: st, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetRole grants or revokes a role. Only an Admin caller may administer roles;
// last write wins, and revoking your own Admin role is allowed.
func (s *Service) SetRole(ctx context.Context, caller, target domain.Address, role models.Role) (models.RoleAssignment, error) {
	callerRole, err := s.store.RoleOf(ctx, caller)
	if err != nil {
		return models.RoleAssignment{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load caller role")
	}
	if !callerRole.CanAdministerRoles() {
		s.metrics.IncrementUnauthorized()
		return models.RoleAssignment{}, dErrors.New(dErrors.CodeUnauthorized, "only an admin may assign roles")
	}

	previous, err := s.store.SetRole(ctx, target, role)
	if err != nil {
		return models.RoleAssignment{}, err
	}

	s.metrics.IncrementRoleChanges()
	s.logEvent(ctx, "role changed", "target", target.String(), "role", role.String(), "previous", previous.String())
	s.emit(ctx, events.Event{
		Type:     events.TypeRoleChanged,
		Actor:    caller,
		Target:   target,
		Role:     role.String(),
		Previous: previous.String(),
	})

	return models.RoleAssignment{Target: target, Role: role, Previous: previous}, nil
}

// RoleOf returns the role currently held by an address, RoleNone by default.
func (s *Service) RoleOf(ctx context.Context, addr domain.Address) (models.Role, error) {
	role, err := s.store.RoleOf(ctx, addr)
	if err != nil {
		return models.RoleNone, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load role")
	}
	return role, nil
}

// Mint registers a new vehicle. Only a Dealer caller may mint; the stored
// record is returned with its allocated token id.
func (s *Service) Mint(ctx context.Context, caller, to domain.Address, rec models.VehicleRecord) (models.VehicleDetails, error) {
	callerRole, err := s.store.RoleOf(ctx, caller)
	if err != nil {
		return models.VehicleDetails{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load caller role")
	}
	if !callerRole.CanMint() {
		s.metrics.IncrementUnauthorized()
		return models.VehicleDetails{}, dErrors.New(dErrors.CodeUnauthorized, "only a dealer may register vehicles")
	}

	id, err := s.store.Mint(ctx, to, rec, s.clock().UTC())
	if err != nil {
		return models.VehicleDetails{}, err
	}
	stored, err := s.store.Record(ctx, id)
	if err != nil {
		return models.VehicleDetails{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load minted record")
	}

	s.metrics.IncrementMints()
	s.logEvent(ctx, "vehicle minted", "token_id", id.String(), "vin", stored.VIN, "to", to.String())
	s.emit(ctx, events.Event{
		Type:    events.TypeTransfer,
		Actor:   caller,
		TokenID: &id,
		From:    domain.ZeroAddress,
		To:      to,
	})

	return models.VehicleDetails{VehicleRecord: stored, Owner: to}, nil
}

// Vehicle returns the record plus current owner, read through the cache.
func (s *Service) Vehicle(ctx context.Context, id domain.TokenID) (models.VehicleDetails, error) {
	start := time.Now()
	defer s.metrics.ObserveLookup(start)

	if cached, ok, err := s.cache.Get(ctx, id); err == nil && ok {
		s.metrics.RecordCacheResult(true)
		return cached, nil
	} else if err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "record cache read failed", "error", err, "token_id", id.String())
	}
	s.metrics.RecordCacheResult(false)

	rec, err := s.store.Record(ctx, id)
	if err != nil {
		return models.VehicleDetails{}, err
	}
	owner, err := s.store.OwnerOf(ctx, id)
	if err != nil {
		return models.VehicleDetails{}, err
	}
	details := models.VehicleDetails{VehicleRecord: rec, Owner: owner}

	if err := s.cache.Set(ctx, details); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "record cache write failed", "error", err, "token_id", id.String())
	}
	return details, nil
}

// UpdateMileage overwrites the mileage. The token owner or an Admin may
// update; monotonicity is intentionally unenforced.
func (s *Service) UpdateMileage(ctx context.Context, caller domain.Address, id domain.TokenID, mileage uint64) (models.VehicleDetails, error) {
	if err := s.requireOwnerOrAdmin(ctx, caller, id); err != nil {
		return models.VehicleDetails{}, err
	}

	rec, err := s.store.UpdateMileage(ctx, id, mileage, s.clock().UTC())
	if err != nil {
		return models.VehicleDetails{}, err
	}
	s.invalidate(ctx, id)
	s.logEvent(ctx, "mileage updated", "token_id", id.String(), "mileage", rec.Mileage)
	return s.withOwner(ctx, rec)
}

// UpdateTokenURI repoints the metadata URI. Same gating as UpdateMileage.
func (s *Service) UpdateTokenURI(ctx context.Context, caller domain.Address, id domain.TokenID, uri string) (models.VehicleDetails, error) {
	if err := s.requireOwnerOrAdmin(ctx, caller, id); err != nil {
		return models.VehicleDetails{}, err
	}

	rec, err := s.store.UpdateTokenURI(ctx, id, uri, s.clock().UTC())
	if err != nil {
		return models.VehicleDetails{}, err
	}
	s.invalidate(ctx, id)
	s.logEvent(ctx, "token uri updated", "token_id", id.String())
	return s.withOwner(ctx, rec)
}

// Transfer moves a token. Owner/approval guards are enforced atomically in the
// store; the service emits the ledger event on success.
func (s *Service) Transfer(ctx context.Context, caller, from, to domain.Address, id domain.TokenID) error {
	if err := s.store.Transfer(ctx, caller, from, to, id); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.metrics.IncrementUnauthorized()
		}
		return err
	}

	s.invalidate(ctx, id)
	s.metrics.IncrementTransfers()
	s.logEvent(ctx, "vehicle transferred", "token_id", id.String(), "from", from.String(), "to", to.String())
	s.emit(ctx, events.Event{
		Type:    events.TypeTransfer,
		Actor:   caller,
		TokenID: &id,
		From:    from,
		To:      to,
	})
	return nil
}

// Approve sets or clears the approved operator for a token.
func (s *Service) Approve(ctx context.Context, caller domain.Address, id domain.TokenID, operator domain.Address) error {
	if err := s.store.Approve(ctx, caller, id, operator); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.metrics.IncrementUnauthorized()
		}
		return err
	}
	s.logEvent(ctx, "operator approved", "token_id", id.String(), "operator", operator.String())
	return nil
}

// Approved returns the approved operator, the zero address when none is set.
func (s *Service) Approved(ctx context.Context, id domain.TokenID) (domain.Address, error) {
	return s.store.Approved(ctx, id)
}

// OwnerOf returns the current owner of a token.
func (s *Service) OwnerOf(ctx context.Context, id domain.TokenID) (domain.Address, error) {
	return s.store.OwnerOf(ctx, id)
}

// OwnerPortfolio returns the balance and every vehicle currently owned by an
// address, ascending by token id.
func (s *Service) OwnerPortfolio(ctx context.Context, addr domain.Address) (models.Portfolio, error) {
	ids, err := s.store.TokensOfOwner(ctx, addr)
	if err != nil {
		return models.Portfolio{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to enumerate owner tokens")
	}

	vehicles := make([]models.VehicleDetails, 0, len(ids))
	for _, id := range ids {
		rec, err := s.store.Record(ctx, id)
		if err != nil {
			return models.Portfolio{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load owned record")
		}
		vehicles = append(vehicles, models.VehicleDetails{VehicleRecord: rec, Owner: addr})
	}

	return models.Portfolio{Owner: addr, Balance: len(ids), Vehicles: vehicles}, nil
}

// TokenOfOwnerByIndex returns the i-th token of an owner under ascending id
// order.
func (s *Service) TokenOfOwnerByIndex(ctx context.Context, addr domain.Address, index int) (domain.TokenID, error) {
	return s.store.TokenOfOwnerByIndex(ctx, addr, index)
}

// FindByVIN returns every record carrying the VIN. More than one match is
// legal; VIN uniqueness is intentionally unenforced.
func (s *Service) FindByVIN(ctx context.Context, vin string) ([]models.VehicleRecord, error) {
	return s.store.FindByVIN(ctx, vin)
}

// RecentEvents returns the newest entries of the registry event log.
func (s *Service) RecentEvents(ctx context.Context, limit int) ([]events.Event, error) {
	if s.publisher == nil {
		return nil, nil
	}
	return s.publisher.List(ctx, limit)
}

func (s *Service) requireOwnerOrAdmin(ctx context.Context, caller domain.Address, id domain.TokenID) error {
	owner, err := s.store.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if caller == owner {
		return nil
	}
	callerRole, err := s.store.RoleOf(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load caller role")
	}
	if callerRole.CanAdministerRoles() {
		return nil
	}
	s.metrics.IncrementUnauthorized()
	return dErrors.New(dErrors.CodeUnauthorized, "caller is neither the owner nor an admin")
}

func (s *Service) withOwner(ctx context.Context, rec models.VehicleRecord) (models.VehicleDetails, error) {
	owner, err := s.store.OwnerOf(ctx, rec.TokenID)
	if err != nil {
		return models.VehicleDetails{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load owner")
	}
	return models.VehicleDetails{VehicleRecord: rec, Owner: owner}, nil
}

func (s *Service) invalidate(ctx context.Context, id domain.TokenID) {
	if err := s.cache.Invalidate(ctx, id); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "record cache invalidation failed", "error", err, "token_id", id.String())
	}
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "event emission failed", "error", err, "type", string(event.Type))
	}
}

func (s *Service) logEvent(ctx context.Context, msg string, attributes ...any) {
	if s.logger == nil {
		return
	}
	if requestID := middleware.GetRequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	s.logger.InfoContext(ctx, msg, attributes...)
}

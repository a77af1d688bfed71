package store

import (
	"context"
	"sync"
	"time"

	"cartegrise/internal/registry/models"
	"cartegrise/internal/registry/state"
	"cartegrise/pkg/domain"
)

// MemoryStore keeps the whole registry in a single owned state.State guarded
// by a RWMutex. Mutations run against a staged clone and are committed by
// swapping the pointer only on full success, so a failed operation can never
// leave a half-applied write behind.
//
// It intentionally favors clarity over performance; the sequential execution
// model means the mutex sees no meaningful contention.
type MemoryStore struct {
	mu      sync.RWMutex
	current *state.State
}

// NewMemory builds a memory store with bootstrapAdmin seeded as Admin.
func NewMemory(bootstrapAdmin domain.Address) *MemoryStore {
	return &MemoryStore{current: state.New(bootstrapAdmin)}
}

// update clones the live state, applies fn to the clone, and commits the clone
// only when fn succeeds.
func (s *MemoryStore) update(fn func(*state.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.current.Clone()
	if err := fn(staged); err != nil {
		return err
	}
	s.current = staged
	return nil
}

func (s *MemoryStore) SetRole(_ context.Context, target domain.Address, role models.Role) (models.Role, error) {
	var previous models.Role
	err := s.update(func(st *state.State) error {
		var err error
		previous, err = st.SetRole(target, role)
		return err
	})
	return previous, err
}

func (s *MemoryStore) RoleOf(_ context.Context, addr domain.Address) (models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.RoleOf(addr), nil
}

func (s *MemoryStore) Mint(_ context.Context, to domain.Address, rec models.VehicleRecord, now time.Time) (domain.TokenID, error) {
	var id domain.TokenID
	err := s.update(func(st *state.State) error {
		var err error
		id, err = st.Mint(to, rec, now)
		return err
	})
	return id, err
}

func (s *MemoryStore) Record(_ context.Context, id domain.TokenID) (models.VehicleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Record(id)
}

func (s *MemoryStore) UpdateMileage(_ context.Context, id domain.TokenID, mileage uint64, now time.Time) (models.VehicleRecord, error) {
	var rec models.VehicleRecord
	err := s.update(func(st *state.State) error {
		var err error
		rec, err = st.UpdateMileage(id, mileage, now)
		return err
	})
	return rec, err
}

func (s *MemoryStore) UpdateTokenURI(_ context.Context, id domain.TokenID, uri string, now time.Time) (models.VehicleRecord, error) {
	var rec models.VehicleRecord
	err := s.update(func(st *state.State) error {
		var err error
		rec, err = st.UpdateTokenURI(id, uri, now)
		return err
	})
	return rec, err
}

func (s *MemoryStore) FindByVIN(_ context.Context, vin string) ([]models.VehicleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.FindByVIN(vin), nil
}

func (s *MemoryStore) Transfer(_ context.Context, caller, from, to domain.Address, id domain.TokenID) error {
	return s.update(func(st *state.State) error {
		return st.Transfer(caller, from, to, id)
	})
}

func (s *MemoryStore) Approve(_ context.Context, caller domain.Address, id domain.TokenID, operator domain.Address) error {
	return s.update(func(st *state.State) error {
		return st.Approve(caller, id, operator)
	})
}

func (s *MemoryStore) Approved(_ context.Context, id domain.TokenID) (domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Approved(id)
}

func (s *MemoryStore) OwnerOf(_ context.Context, id domain.TokenID) (domain.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.OwnerOf(id)
}

func (s *MemoryStore) BalanceOf(_ context.Context, addr domain.Address) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.BalanceOf(addr), nil
}

func (s *MemoryStore) TokensOfOwner(_ context.Context, addr domain.Address) ([]domain.TokenID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.TokensOfOwner(addr), nil
}

func (s *MemoryStore) TokenOfOwnerByIndex(_ context.Context, addr domain.Address, index int) (domain.TokenID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.TokenOfOwnerByIndex(addr, index)
}

func (s *MemoryStore) NextTokenID(_ context.Context) (domain.TokenID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.NextID(), nil
}

// Snapshot returns an isolated copy of the full state for before/after
// assertions in tests.
func (s *MemoryStore) Snapshot() *state.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Package state holds the registry's entire mutable state as one explicit
// owned struct, threaded through stores rather than living as package globals.
// It performs no I/O and no locking; stores own synchronization and
// durability.
//
// Every mutating method validates completely before touching any field, so a
// returned error always leaves the state exactly as it was. Combined with the
// memory store's staged-copy commit this preserves the all-or-nothing contract
// each public operation carries.
package state

import (
	"sort"
	"time"

	"cartegrise/internal/registry/models"
	"cartegrise/pkg/domain"
	dErrors "cartegrise/pkg/domain-errors"
)

// State is the vehicle registry ledger: role map, owner/balance/approval
// bookkeeping, the record store, and the monotonic token counter.
type State struct {
	roles     map[domain.Address]models.Role
	owners    map[domain.TokenID]domain.Address
	balances  map[domain.Address]int
	approvals map[domain.TokenID]domain.Address
	records   map[domain.TokenID]models.VehicleRecord
	nextID    domain.TokenID
}

// New builds an empty registry state with the bootstrap address seeded as
// Admin. Seeding happens at construction and is never implicitly revoked.
func New(bootstrapAdmin domain.Address) *State {
	s := &State{
		roles:     make(map[domain.Address]models.Role),
		owners:    make(map[domain.TokenID]domain.Address),
		balances:  make(map[domain.Address]int),
		approvals: make(map[domain.TokenID]domain.Address),
		records:   make(map[domain.TokenID]models.VehicleRecord),
	}
	if !bootstrapAdmin.IsZero() {
		s.roles[bootstrapAdmin] = models.RoleAdmin
	}
	return s
}

// Clone deep-copies the state. The memory store commits mutations by cloning,
// applying, and swapping; a failed operation never reaches the live state.
func (s *State) Clone() *State {
	c := &State{
		roles:     make(map[domain.Address]models.Role, len(s.roles)),
		owners:    make(map[domain.TokenID]domain.Address, len(s.owners)),
		balances:  make(map[domain.Address]int, len(s.balances)),
		approvals: make(map[domain.TokenID]domain.Address, len(s.approvals)),
		records:   make(map[domain.TokenID]models.VehicleRecord, len(s.records)),
		nextID:    s.nextID,
	}
	for k, v := range s.roles {
		c.roles[k] = v
	}
	for k, v := range s.owners {
		c.owners[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.approvals {
		c.approvals[k] = v
	}
	for k, v := range s.records {
		c.records[k] = v
	}
	return c
}

// SetRole overwrites target's role, last-write-wins, and returns the previous
// role. RoleNone removes the entry entirely.
func (s *State) SetRole(target domain.Address, role models.Role) (models.Role, error) {
	if target.IsZero() {
		return models.RoleNone, dErrors.New(dErrors.CodeInvalidRecipient, "cannot assign a role to the zero address")
	}
	if !role.Valid() {
		return models.RoleNone, dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+role.String())
	}
	previous := s.RoleOf(target)
	if role == models.RoleNone {
		delete(s.roles, target)
	} else {
		s.roles[target] = role
	}
	return previous, nil
}

// RoleOf returns the role held by addr, RoleNone by default.
func (s *State) RoleOf(addr domain.Address) models.Role {
	if role, ok := s.roles[addr]; ok {
		return role
	}
	return models.RoleNone
}

// Mint allocates the next token id, writes the record, and assigns ownership.
// The caller-supplied fields of rec are stored verbatim; TokenID and MintedAt
// are set here. Token ids stay dense: a failed mint does not consume an id.
func (s *State) Mint(to domain.Address, rec models.VehicleRecord, now time.Time) (domain.TokenID, error) {
	if to.IsZero() {
		return 0, dErrors.New(dErrors.CodeInvalidRecipient, "cannot mint to the zero address")
	}
	id := s.nextID
	// Unreachable given monotonic allocation; kept as a defensive check.
	if _, exists := s.owners[id]; exists {
		return 0, dErrors.New(dErrors.CodeAlreadyMinted, "token "+id.String()+" already minted")
	}

	rec.TokenID = id
	rec.MintedAt = now
	rec.UpdatedAt = now

	s.nextID++
	s.owners[id] = to
	s.balances[to]++
	s.records[id] = rec
	return id, nil
}

// Transfer moves token id from its current owner to another address. The
// caller must be the owner or the approved operator; any standing approval is
// cleared on success.
func (s *State) Transfer(caller, from, to domain.Address, id domain.TokenID) error {
	owner, exists := s.owners[id]
	if !exists {
		return dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	if owner != from {
		return dErrors.New(dErrors.CodeUnauthorized, "from address is not the token owner")
	}
	if caller != owner && s.approvals[id] != caller {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not owner or approved")
	}
	if to.IsZero() {
		return dErrors.New(dErrors.CodeInvalidRecipient, "cannot transfer to the zero address")
	}

	delete(s.approvals, id)
	s.owners[id] = to
	s.balances[from]--
	if s.balances[from] == 0 {
		delete(s.balances, from)
	}
	s.balances[to]++
	return nil
}

// Approve sets (or clears, with the zero address) the single approved operator
// for a token. Only the current owner may approve.
func (s *State) Approve(caller domain.Address, id domain.TokenID, operator domain.Address) error {
	owner, exists := s.owners[id]
	if !exists {
		return dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	if caller != owner {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the token owner")
	}
	if operator.IsZero() {
		delete(s.approvals, id)
		return nil
	}
	s.approvals[id] = operator
	return nil
}

// Approved returns the approved operator for a token, the zero address when
// none is set.
func (s *State) Approved(id domain.TokenID) (domain.Address, error) {
	if _, exists := s.owners[id]; !exists {
		return "", dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	if op, ok := s.approvals[id]; ok {
		return op, nil
	}
	return domain.ZeroAddress, nil
}

// OwnerOf returns the current owner of a token.
func (s *State) OwnerOf(id domain.TokenID) (domain.Address, error) {
	owner, exists := s.owners[id]
	if !exists {
		return "", dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	return owner, nil
}

// BalanceOf returns the number of tokens currently owned by addr.
func (s *State) BalanceOf(addr domain.Address) int {
	return s.balances[addr]
}

// TokensOfOwner returns the ids owned by addr in ascending token id order.
// Enumeration order is part of the contract with the dashboard; both store
// implementations sort the same way.
func (s *State) TokensOfOwner(addr domain.Address) []domain.TokenID {
	var ids []domain.TokenID
	for id, owner := range s.owners {
		if owner == addr {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TokenOfOwnerByIndex returns the i-th token of addr under the ascending id
// ordering used by TokensOfOwner.
func (s *State) TokenOfOwnerByIndex(addr domain.Address, index int) (domain.TokenID, error) {
	ids := s.TokensOfOwner(addr)
	if index < 0 || index >= len(ids) {
		return 0, dErrors.New(dErrors.CodeNotFound, "owner index out of range")
	}
	return ids[index], nil
}

// Record returns the vehicle record for a minted token.
func (s *State) Record(id domain.TokenID) (models.VehicleRecord, error) {
	rec, exists := s.records[id]
	if !exists {
		return models.VehicleRecord{}, dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	return rec, nil
}

// UpdateMileage overwrites the mileage unconditionally. Monotonicity is
// intentionally unenforced; decreases are legal (preserved policy choice).
func (s *State) UpdateMileage(id domain.TokenID, mileage uint64, now time.Time) (models.VehicleRecord, error) {
	rec, exists := s.records[id]
	if !exists {
		return models.VehicleRecord{}, dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	rec.Mileage = mileage
	rec.UpdatedAt = now
	s.records[id] = rec
	return rec, nil
}

// UpdateTokenURI repoints the opaque metadata URI. The registry never fetches
// or validates its content.
func (s *State) UpdateTokenURI(id domain.TokenID, uri string, now time.Time) (models.VehicleRecord, error) {
	rec, exists := s.records[id]
	if !exists {
		return models.VehicleRecord{}, dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	rec.TokenURI = uri
	rec.UpdatedAt = now
	s.records[id] = rec
	return rec, nil
}

// FindByVIN returns every record carrying the VIN, ascending by token id.
// VINs are not unique by design, so this can return more than one record.
func (s *State) FindByVIN(vin string) []models.VehicleRecord {
	var recs []models.VehicleRecord
	for _, rec := range s.records {
		if rec.VIN == vin {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].TokenID < recs[j].TokenID })
	return recs
}

// NextID exposes the counter so tests can assert that failed operations do
// not consume ids.
func (s *State) NextID() domain.TokenID {
	return s.nextID
}

// TotalMinted returns the number of tokens ever minted. With no burn in
// scope this always equals the sum of all balances.
func (s *State) TotalMinted() int {
	return len(s.owners)
}

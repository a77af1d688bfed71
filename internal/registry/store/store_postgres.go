package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"cartegrise/internal/registry/models"
	"cartegrise/pkg/domain"
	dErrors "cartegrise/pkg/domain-errors"
	"cartegrise/pkg/platform/tx"
)

// Schema creates the registry tables. The VIN index serves dashboard search
// only; it is deliberately not unique (preserved policy choice).
const Schema = `
CREATE TABLE IF NOT EXISTS registry_roles (
	address TEXT PRIMARY KEY,
	role    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS registry_tokens (
	token_id BIGINT PRIMARY KEY,
	owner    TEXT NOT NULL,
	approved TEXT
);

CREATE INDEX IF NOT EXISTS registry_tokens_owner_idx ON registry_tokens (owner);

CREATE TABLE IF NOT EXISTS vehicle_records (
	token_id   BIGINT PRIMARY KEY REFERENCES registry_tokens (token_id),
	vin        TEXT NOT NULL,
	brand      TEXT NOT NULL,
	model      TEXT NOT NULL,
	mileage    BIGINT NOT NULL,
	token_uri  TEXT NOT NULL,
	minted_at  TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS vehicle_records_vin_idx ON vehicle_records (vin);

CREATE TABLE IF NOT EXISTS registry_counter (
	singleton     BOOLEAN PRIMARY KEY DEFAULT TRUE,
	next_token_id BIGINT NOT NULL
);
`

// PostgresStore persists the registry in PostgreSQL. Every mutating operation
// runs inside a single SQL transaction with its guards evaluated under row
// locks, which preserves the same all-or-nothing semantics the memory store
// gets from staged-copy commits.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed registry store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies the schema and seeds the token counter.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply registry schema: %w", err)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO registry_counter (singleton, next_token_id) VALUES (TRUE, 0) ON CONFLICT (singleton) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("seed token counter: %w", err)
	}
	return nil
}

// EnsureBootstrapAdmin seeds the deploying address as Admin without
// overwriting a role it may have been given since.
func (s *PostgresStore) EnsureBootstrapAdmin(ctx context.Context, admin domain.Address) error {
	if admin.IsZero() {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO registry_roles (address, role) VALUES ($1, $2) ON CONFLICT (address) DO NOTHING`,
		admin.String(), models.RoleAdmin.String())
	if err != nil {
		return fmt.Errorf("seed bootstrap admin: %w", err)
	}
	return nil
}

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside the context transaction when one is present, or a
// fresh transaction otherwise.
func (s *PostgresStore) withTx(ctx context.Context, fn func(q querier) error) error {
	if existing, ok := tx.From(ctx); ok {
		return fn(existing)
	}
	t, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin registry tx: %w", err)
	}
	defer func() {
		_ = t.Rollback()
	}()
	if err := fn(t); err != nil {
		return err
	}
	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit registry tx: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetRole(ctx context.Context, target domain.Address, role models.Role) (models.Role, error) {
	if target.IsZero() {
		return models.RoleNone, dErrors.New(dErrors.CodeInvalidRecipient, "cannot assign a role to the zero address")
	}
	if !role.Valid() {
		return models.RoleNone, dErrors.New(dErrors.CodeInvalidInput, "unknown role: "+role.String())
	}
	previous := models.RoleNone
	err := s.withTx(ctx, func(q querier) error {
		var current string
		err := q.QueryRowContext(ctx,
			`SELECT role FROM registry_roles WHERE address = $1 FOR UPDATE`, target.String()).Scan(&current)
		switch {
		case err == nil:
			previous = models.Role(current)
		case errors.Is(err, sql.ErrNoRows):
			previous = models.RoleNone
		default:
			return fmt.Errorf("load current role: %w", err)
		}

		if role == models.RoleNone {
			if _, err := q.ExecContext(ctx, `DELETE FROM registry_roles WHERE address = $1`, target.String()); err != nil {
				return fmt.Errorf("revoke role: %w", err)
			}
			return nil
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO registry_roles (address, role) VALUES ($1, $2)
			ON CONFLICT (address) DO UPDATE SET role = EXCLUDED.role
		`, target.String(), role.String())
		if err != nil {
			return fmt.Errorf("set role: %w", err)
		}
		return nil
	})
	return previous, err
}

func (s *PostgresStore) RoleOf(ctx context.Context, addr domain.Address) (models.Role, error) {
	var role string
	err := s.db.QueryRowContext(ctx,
		`SELECT role FROM registry_roles WHERE address = $1`, addr.String()).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RoleNone, nil
	}
	if err != nil {
		return models.RoleNone, fmt.Errorf("role of %s: %w", addr, err)
	}
	return models.Role(role), nil
}

func (s *PostgresStore) Mint(ctx context.Context, to domain.Address, rec models.VehicleRecord, now time.Time) (domain.TokenID, error) {
	if to.IsZero() {
		return 0, dErrors.New(dErrors.CodeInvalidRecipient, "cannot mint to the zero address")
	}
	var id domain.TokenID
	err := s.withTx(ctx, func(q querier) error {
		var allocated int64
		err := q.QueryRowContext(ctx, `
			UPDATE registry_counter SET next_token_id = next_token_id + 1
			WHERE singleton RETURNING next_token_id - 1
		`).Scan(&allocated)
		if err != nil {
			return fmt.Errorf("allocate token id: %w", err)
		}
		id = domain.TokenID(allocated)

		_, err = q.ExecContext(ctx,
			`INSERT INTO registry_tokens (token_id, owner, approved) VALUES ($1, $2, NULL)`,
			allocated, to.String())
		if err != nil {
			// Unreachable given monotonic allocation; kept as a defensive check.
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
				return dErrors.New(dErrors.CodeAlreadyMinted, "token "+id.String()+" already minted")
			}
			return fmt.Errorf("insert token: %w", err)
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO vehicle_records (token_id, vin, brand, model, mileage, token_uri, minted_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		`, allocated, rec.VIN, rec.Brand, rec.Model, int64(rec.Mileage), rec.TokenURI, now)
		if err != nil {
			return fmt.Errorf("insert vehicle record: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *PostgresStore) Record(ctx context.Context, id domain.TokenID) (models.VehicleRecord, error) {
	rec, err := scanRecord(s.db.QueryRowContext(ctx, `
		SELECT token_id, vin, brand, model, mileage, token_uri, minted_at, updated_at
		FROM vehicle_records WHERE token_id = $1
	`, int64(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.VehicleRecord{}, dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	if err != nil {
		return models.VehicleRecord{}, fmt.Errorf("load vehicle record: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) UpdateMileage(ctx context.Context, id domain.TokenID, mileage uint64, now time.Time) (models.VehicleRecord, error) {
	var rec models.VehicleRecord
	err := s.withTx(ctx, func(q querier) error {
		var err error
		rec, err = scanRecord(q.QueryRowContext(ctx, `
			UPDATE vehicle_records SET mileage = $2, updated_at = $3
			WHERE token_id = $1
			RETURNING token_id, vin, brand, model, mileage, token_uri, minted_at, updated_at
		`, int64(id), int64(mileage), now))
		if errors.Is(err, sql.ErrNoRows) {
			return dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
		}
		if err != nil {
			return fmt.Errorf("update mileage: %w", err)
		}
		return nil
	})
	return rec, err
}

func (s *PostgresStore) UpdateTokenURI(ctx context.Context, id domain.TokenID, uri string, now time.Time) (models.VehicleRecord, error) {
	var rec models.VehicleRecord
	err := s.withTx(ctx, func(q querier) error {
		var err error
		rec, err = scanRecord(q.QueryRowContext(ctx, `
			UPDATE vehicle_records SET token_uri = $2, updated_at = $3
			WHERE token_id = $1
			RETURNING token_id, vin, brand, model, mileage, token_uri, minted_at, updated_at
		`, int64(id), uri, now))
		if errors.Is(err, sql.ErrNoRows) {
			return dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
		}
		if err != nil {
			return fmt.Errorf("update token uri: %w", err)
		}
		return nil
	})
	return rec, err
}

func (s *PostgresStore) FindByVIN(ctx context.Context, vin string) ([]models.VehicleRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token_id, vin, brand, model, mileage, token_uri, minted_at, updated_at
		FROM vehicle_records WHERE vin = $1 ORDER BY token_id
	`, vin)
	if err != nil {
		return nil, fmt.Errorf("find by vin: %w", err)
	}
	defer rows.Close()

	var recs []models.VehicleRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle record: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vin matches: %w", err)
	}
	return recs, nil
}

func (s *PostgresStore) Transfer(ctx context.Context, caller, from, to domain.Address, id domain.TokenID) error {
	return s.withTx(ctx, func(q querier) error {
		owner, approved, err := lockToken(ctx, q, id)
		if err != nil {
			return err
		}
		if owner != from {
			return dErrors.New(dErrors.CodeUnauthorized, "from address is not the token owner")
		}
		if caller != owner && approved != caller {
			return dErrors.New(dErrors.CodeUnauthorized, "caller is not owner or approved")
		}
		if to.IsZero() {
			return dErrors.New(dErrors.CodeInvalidRecipient, "cannot transfer to the zero address")
		}
		_, err = q.ExecContext(ctx,
			`UPDATE registry_tokens SET owner = $2, approved = NULL WHERE token_id = $1`,
			int64(id), to.String())
		if err != nil {
			return fmt.Errorf("transfer token: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Approve(ctx context.Context, caller domain.Address, id domain.TokenID, operator domain.Address) error {
	return s.withTx(ctx, func(q querier) error {
		owner, _, err := lockToken(ctx, q, id)
		if err != nil {
			return err
		}
		if caller != owner {
			return dErrors.New(dErrors.CodeUnauthorized, "caller is not the token owner")
		}
		var approved any
		if !operator.IsZero() {
			approved = operator.String()
		}
		_, err = q.ExecContext(ctx,
			`UPDATE registry_tokens SET approved = $2 WHERE token_id = $1`, int64(id), approved)
		if err != nil {
			return fmt.Errorf("approve operator: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) Approved(ctx context.Context, id domain.TokenID) (domain.Address, error) {
	var approved sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT approved FROM registry_tokens WHERE token_id = $1`, int64(id)).Scan(&approved)
	if errors.Is(err, sql.ErrNoRows) {
		return "", dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	if err != nil {
		return "", fmt.Errorf("load approval: %w", err)
	}
	if !approved.Valid {
		return domain.ZeroAddress, nil
	}
	return domain.Address(approved.String), nil
}

func (s *PostgresStore) OwnerOf(ctx context.Context, id domain.TokenID) (domain.Address, error) {
	var owner string
	err := s.db.QueryRowContext(ctx,
		`SELECT owner FROM registry_tokens WHERE token_id = $1`, int64(id)).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	if err != nil {
		return "", fmt.Errorf("load owner: %w", err)
	}
	return domain.Address(owner), nil
}

func (s *PostgresStore) BalanceOf(ctx context.Context, addr domain.Address) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registry_tokens WHERE owner = $1`, addr.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("balance of %s: %w", addr, err)
	}
	return count, nil
}

func (s *PostgresStore) TokensOfOwner(ctx context.Context, addr domain.Address) ([]domain.TokenID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT token_id FROM registry_tokens WHERE owner = $1 ORDER BY token_id`, addr.String())
	if err != nil {
		return nil, fmt.Errorf("tokens of owner: %w", err)
	}
	defer rows.Close()

	var ids []domain.TokenID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan token id: %w", err)
		}
		ids = append(ids, domain.TokenID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owner tokens: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) TokenOfOwnerByIndex(ctx context.Context, addr domain.Address, index int) (domain.TokenID, error) {
	if index < 0 {
		return 0, dErrors.New(dErrors.CodeNotFound, "owner index out of range")
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `
		SELECT token_id FROM registry_tokens WHERE owner = $1
		ORDER BY token_id OFFSET $2 LIMIT 1
	`, addr.String(), index).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, dErrors.New(dErrors.CodeNotFound, "owner index out of range")
	}
	if err != nil {
		return 0, fmt.Errorf("token of owner by index: %w", err)
	}
	return domain.TokenID(id), nil
}

func (s *PostgresStore) NextTokenID(ctx context.Context) (domain.TokenID, error) {
	var next int64
	err := s.db.QueryRowContext(ctx, `SELECT next_token_id FROM registry_counter WHERE singleton`).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("load token counter: %w", err)
	}
	return domain.TokenID(next), nil
}

// lockToken loads owner and approval under FOR UPDATE so transfer/approve
// guards hold until commit.
func lockToken(ctx context.Context, q querier, id domain.TokenID) (domain.Address, domain.Address, error) {
	var owner string
	var approved sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT owner, approved FROM registry_tokens WHERE token_id = $1 FOR UPDATE`, int64(id)).
		Scan(&owner, &approved)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", dErrors.New(dErrors.CodeNonexistentToken, "token "+id.String()+" does not exist")
	}
	if err != nil {
		return "", "", fmt.Errorf("lock token: %w", err)
	}
	op := domain.Address("")
	if approved.Valid {
		op = domain.Address(approved.String)
	}
	return domain.Address(owner), op, nil
}

type recordRow interface {
	Scan(dest ...any) error
}

func scanRecord(row recordRow) (models.VehicleRecord, error) {
	var rec models.VehicleRecord
	var tokenID, mileage int64
	if err := row.Scan(&tokenID, &rec.VIN, &rec.Brand, &rec.Model, &mileage, &rec.TokenURI, &rec.MintedAt, &rec.UpdatedAt); err != nil {
		return models.VehicleRecord{}, err
	}
	rec.TokenID = domain.TokenID(tokenID)
	rec.Mileage = uint64(mileage)
	return rec, nil
}

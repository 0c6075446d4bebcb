/*
Package sqlite provides the SQLite-backed implementation of billing.Store.

PURPOSE:
  Persists the three record collections (tenants, properties, payments)
  in SQLite. The same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

CONTRACT:
  Implements the List/Replace-whole-collection contract exactly:
  - List* reads the full collection in stored order (position column)
  - Replace* deletes and re-inserts the collection in one SQL
    transaction, so a replace is all-or-nothing for that collection

  No referential integrity is declared between tables. Dangling
  references are data, not errors: the engine tolerates them by design.

ORDERING:
  Collection order is load-bearing (reports render in insertion order,
  occupant resolution takes the first match), so each row carries an
  explicit position and List* orders by it.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers
  don't block, single writer at a time, better crash recovery.

USAGE:
  st, err := sqlite.New("./data/rental.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()
  engine := billing.NewEngine(st)

SEE ALSO:
  - billing/store.go: Interface definitions
  - billing/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/rental-engine/billing"
)

// Store implements billing.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tenants (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		id_card TEXT,
		phone TEXT,
		property_id TEXT,
		rent TEXT NOT NULL,
		start_date TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tenants_position ON tenants(position);
	CREATE INDEX IF NOT EXISTS idx_tenants_property ON tenants(property_id);

	CREATE TABLE IF NOT EXISTS properties (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		address TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_properties_position ON properties(position);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		tenant_id TEXT NOT NULL,
		paid_on TEXT NOT NULL,
		amount TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_position ON payments(position);
	CREATE INDEX IF NOT EXISTS idx_payments_tenant ON payments(tenant_id);
	CREATE INDEX IF NOT EXISTS idx_payments_paid_on ON payments(paid_on);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TENANTS
// =============================================================================

func (s *Store) ListTenants(ctx context.Context) ([]billing.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, id_card, phone, property_id, rent, start_date
		FROM tenants ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	tenants := []billing.Tenant{}
	for rows.Next() {
		var t billing.Tenant
		var idCard, phone, propertyID sql.NullString
		var rent, startDate string
		if err := rows.Scan(&t.ID, &t.Name, &idCard, &phone, &propertyID, &rent, &startDate); err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		t.IDCard = idCard.String
		t.Phone = phone.String
		t.PropertyID = billing.PropertyID(propertyID.String)
		if t.Rent, err = parseMoney(rent); err != nil {
			return nil, fmt.Errorf("tenant %s: %w", t.ID, err)
		}
		if t.StartDate, err = billing.ParseDate(startDate); err != nil {
			return nil, fmt.Errorf("tenant %s: %w", t.ID, err)
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (s *Store) ReplaceTenants(ctx context.Context, tenants []billing.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceAll(ctx, "tenants", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO tenants (id, position, name, id_card, phone, property_id, rent, start_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, t := range tenants {
			_, err := stmt.ExecContext(ctx, t.ID, i, t.Name,
				nullString(t.IDCard), nullString(t.Phone), nullString(string(t.PropertyID)),
				t.Rent.String(), t.StartDate.String())
			if err != nil {
				return fmt.Errorf("failed to insert tenant %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// =============================================================================
// PROPERTIES
// =============================================================================

func (s *Store) ListProperties(ctx context.Context) ([]billing.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, address FROM properties ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	properties := []billing.Property{}
	for rows.Next() {
		var p billing.Property
		var address sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &address); err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		p.Address = address.String
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

func (s *Store) ReplaceProperties(ctx context.Context, properties []billing.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceAll(ctx, "properties", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO properties (id, position, name, address) VALUES (?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, p := range properties {
			if _, err := stmt.ExecContext(ctx, p.ID, i, p.Name, nullString(p.Address)); err != nil {
				return fmt.Errorf("failed to insert property %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// =============================================================================
// PAYMENTS
// =============================================================================

func (s *Store) ListPayments(ctx context.Context) ([]billing.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, paid_on, amount FROM payments ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []billing.Payment{}
	for rows.Next() {
		var p billing.Payment
		var paidOn, amount string
		if err := rows.Scan(&p.ID, &p.TenantID, &paidOn, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if p.Date, err = billing.ParseDate(paidOn); err != nil {
			return nil, fmt.Errorf("payment %s: %w", p.ID, err)
		}
		if p.Amount, err = parseMoney(amount); err != nil {
			return nil, fmt.Errorf("payment %s: %w", p.ID, err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *Store) ReplacePayments(ctx context.Context, payments []billing.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceAll(ctx, "payments", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO payments (id, position, tenant_id, paid_on, amount) VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i, p := range payments {
			if _, err := stmt.ExecContext(ctx, p.ID, i, p.TenantID, p.Date.String(), p.Amount.String()); err != nil {
				return fmt.Errorf("failed to insert payment %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// replaceAll runs a whole-collection overwrite: DELETE everything, then
// let insert repopulate, inside one SQL transaction.
func (s *Store) replaceAll(ctx context.Context, table string, insert func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func parseMoney(s string) (billing.Money, error) {
	var m billing.Money
	if err := m.UnmarshalJSON([]byte(s)); err != nil {
		return billing.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return m, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements ledger.Registry and ledger.PaymentStore using SQLite. The same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  customers:  registry of customer name -> total contracted debt
  payments:   ordered payment records; the raw date string is stored as
              submitted so unparseable input survives a round trip

WRITE SEMANTICS:
  Replaces the original system's load-whole-file / write-whole-file-back
  cycle with row-level writes serialized behind a mutex. An edit is a single
  UPDATE by primary key, so concurrent edits cannot clobber each other's
  records.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/debts.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - ledger/store.go: interface definitions
  - ledger/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/araya/debt-engine/fiscal"
	"github.com/araya/debt-engine/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single pooled connection: SQLite allows one writer anyway, and a
	// ":memory:" database exists per connection.
	db.SetMaxOpenConns(1)

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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Customer registry (read-only to the engine)
	CREATE TABLE IF NOT EXISTS customers (
		name TEXT PRIMARY KEY,
		total_debt TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Payment records. pay_date holds the raw submitted string; unparseable
	-- dates are kept verbatim and excluded from bucketing at read time.
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		customer_name TEXT NOT NULL,
		pay_date TEXT NOT NULL,
		amount TEXT NOT NULL,
		note TEXT,
		position INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_customer
		ON payments(customer_name, position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// REGISTRY
// =============================================================================

// SaveCustomer inserts or replaces a registry entry.
func (s *Store) SaveCustomer(ctx context.Context, c ledger.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (name, total_debt, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET total_debt = excluded.total_debt`,
		c.Name, c.TotalDebt.String(), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save customer: %w", err)
	}
	return nil
}

// Customer returns the registry entry, or nil when the name is unknown.
func (s *Store) Customer(ctx context.Context, name string) (*ledger.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT name, total_debt FROM customers WHERE name = ?`, name)

	var c ledger.Customer
	var debt string
	if err := row.Scan(&c.Name, &debt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}

	d, err := decimal.NewFromString(debt)
	if err != nil {
		return nil, fmt.Errorf("corrupt total_debt for %s: %w", name, err)
	}
	c.TotalDebt = d
	return &c, nil
}

// ListCustomers returns all registry entries ordered by name.
func (s *Store) ListCustomers(ctx context.Context) ([]ledger.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, total_debt FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []ledger.Customer
	for rows.Next() {
		var c ledger.Customer
		var debt string
		if err := rows.Scan(&c.Name, &debt); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(debt)
		if err != nil {
			return nil, fmt.Errorf("corrupt total_debt for %s: %w", c.Name, err)
		}
		c.TotalDebt = d
		out = append(out, c)
	}
	return out, rows.Err()
}

// =============================================================================
// PAYMENT STORE
// =============================================================================

// Append adds a new payment at the end of the customer's history.
func (s *Store) Append(ctx context.Context, rec ledger.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (id, customer_name, pay_date, amount, note, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), -1) + 1 FROM payments WHERE customer_name = ?),
			?, ?)`,
		string(rec.ID), rec.CustomerName, rec.RawDate, rec.Amount.String(), rec.Note,
		rec.CustomerName, now, now)
	if err != nil {
		return fmt.Errorf("append payment: %w", err)
	}
	return nil
}

// Update overwrites date/amount/note for the identified payment.
func (s *Store) Update(ctx context.Context, id ledger.PaymentID, edit ledger.PaymentEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	amount, err := decimal.NewFromString(edit.Amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", edit.Amount, err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE payments SET pay_date = ?, amount = ?, note = ?, updated_at = ?
		WHERE id = ?`,
		edit.RawDate, amount.String(), edit.Note,
		time.Now().UTC().Format(time.RFC3339), string(id))
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrPaymentNotFound
	}
	return nil
}

// Get returns a single payment by ID.
func (s *Store) Get(ctx context.Context, id ledger.PaymentID) (*ledger.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, customer_name, pay_date, amount, note, position
		FROM payments WHERE id = ?`, string(id))

	rec, err := scanPayment(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return rec, nil
}

// ListByCustomer returns the customer's payments in insertion order.
func (s *Store) ListByCustomer(ctx context.Context, customer string) ([]ledger.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, customer_name, pay_date, amount, note, position
		FROM payments WHERE customer_name = ? ORDER BY position`, customer)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []ledger.PaymentRecord
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(sc scanner) (*ledger.PaymentRecord, error) {
	var rec ledger.PaymentRecord
	var id, amount string
	var note sql.NullString

	if err := sc.Scan(&id, &rec.CustomerName, &rec.RawDate, &amount, &note, &rec.Position); err != nil {
		return nil, err
	}

	rec.ID = ledger.PaymentID(id)
	rec.Note = note.String

	a, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("corrupt amount for payment %s: %w", id, err)
	}
	rec.Amount = a

	if d, err := fiscal.ParseDate(rec.RawDate); err == nil {
		rec.Date = &d
	}
	return &rec, nil
}

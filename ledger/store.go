/*
store.go - Persistence interfaces for the debt ledger

PURPOSE:
  Defines the boundary between the calculation engine and storage. The
  engine itself only ever sees in-memory snapshots; these interfaces are how
  collaborators load and mutate those snapshots.

KEY INTERFACES:
  Registry:     read-only customer name -> total debt mapping
  PaymentStore: ordered payment records with append and in-place edit

WRITE SEMANTICS:
  Payments are appended or edited (date/amount/note only), never deleted.
  Implementations must serialize writes so concurrent edits cannot clobber
  each other; the original system's whole-file read-then-write cycle had no
  such protection.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: production SQLite
  - ledger/store/memory.go: in-memory for testing

SEE ALSO:
  - schedule.go: consumes snapshots loaded through these interfaces
*/
package ledger

import "context"

// Registry provides read-only access to the customer registry.
type Registry interface {
	// Customer returns the registry entry, or nil when the name is unknown.
	// A missing entry is not an error: the calculator treats its debt as 0.
	Customer(ctx context.Context, name string) (*Customer, error)

	// ListCustomers returns all registry entries.
	ListCustomers(ctx context.Context) ([]Customer, error)
}

// PaymentEdit is an in-place overwrite of a payment's mutable fields.
type PaymentEdit struct {
	RawDate string
	Amount  string // decimal string; parsed by the store
	Note    string
}

// PaymentStore persists payment records.
type PaymentStore interface {
	// Append adds a new payment at the end of the customer's history.
	Append(ctx context.Context, rec PaymentRecord) error

	// Update overwrites date/amount/note for the identified payment.
	// Returns ErrPaymentNotFound for an unknown ID.
	Update(ctx context.Context, id PaymentID, edit PaymentEdit) error

	// Get returns a single payment by ID, or ErrPaymentNotFound.
	Get(ctx context.Context, id PaymentID) (*PaymentRecord, error)

	// ListByCustomer returns the customer's payments in insertion order.
	ListByCustomer(ctx context.Context, customer string) ([]PaymentRecord, error)
}

// Store combines both collaborator interfaces. The SQLite implementation
// satisfies it; tests may compose the in-memory pieces.
type Store interface {
	Registry
	PaymentStore
}

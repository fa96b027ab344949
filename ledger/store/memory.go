// Package store provides in-memory Store implementations for testing.
package store

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/araya/debt-engine/fiscal"
	"github.com/araya/debt-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	customers map[string]ledger.Customer
	payments  []ledger.PaymentRecord
	byID      map[ledger.PaymentID]int // index into payments
}

func NewMemory() *Memory {
	return &Memory{
		customers: make(map[string]ledger.Customer),
		byID:      make(map[ledger.PaymentID]int),
	}
}

// SeedCustomer adds a registry entry. Test setup helper.
func (m *Memory) SeedCustomer(c ledger.Customer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.customers[c.Name] = c
}

// SaveCustomer inserts or replaces a registry entry.
func (m *Memory) SaveCustomer(_ context.Context, c ledger.Customer) error {
	m.SeedCustomer(c)
	return nil
}

func (m *Memory) Customer(_ context.Context, name string) (*ledger.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.customers[name]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *Memory) ListCustomers(_ context.Context) ([]ledger.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, c)
	}
	return out, nil
}

func (m *Memory) Append(_ context.Context, rec ledger.PaymentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec.Position = len(m.payments)
	m.byID[rec.ID] = len(m.payments)
	m.payments = append(m.payments, rec)
	return nil
}

func (m *Memory) Update(_ context.Context, id ledger.PaymentID, edit ledger.PaymentEdit) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i, ok := m.byID[id]
	if !ok {
		return ledger.ErrPaymentNotFound
	}

	rec := &m.payments[i]
	rec.RawDate = edit.RawDate
	rec.Date = nil
	if d, err := fiscal.ParseDate(edit.RawDate); err == nil {
		rec.Date = &d
	}
	amount, err := decimal.NewFromString(edit.Amount)
	if err != nil {
		return err
	}
	rec.Amount = amount
	rec.Note = edit.Note
	return nil
}

func (m *Memory) Get(_ context.Context, id ledger.PaymentID) (*ledger.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.byID[id]
	if !ok {
		return nil, ledger.ErrPaymentNotFound
	}
	rec := m.payments[i]
	return &rec, nil
}

func (m *Memory) ListByCustomer(_ context.Context, customer string) ([]ledger.PaymentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ledger.PaymentRecord
	for _, rec := range m.payments {
		if rec.CustomerName == customer {
			out = append(out, rec)
		}
	}
	return out, nil
}

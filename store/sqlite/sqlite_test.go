package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/araya/debt-engine/ledger"
	"github.com/araya/debt-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func pay(id, customer, rawDate string, amount int64) ledger.PaymentRecord {
	return ledger.NewPaymentRecord(
		ledger.PaymentID(id), customer, rawDate, decimal.NewFromInt(amount), "")
}

func TestRegistry_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCustomer(ctx, ledger.Customer{
		Name: "somchai", TotalDebt: decimal.RequireFromString("400000.50"),
	}))

	c, err := store.Customer(ctx, "somchai")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "400000.5", c.TotalDebt.String())
}

func TestRegistry_MissingCustomer_NilNotError(t *testing.T) {
	store := newTestStore(t)

	c, err := store.Customer(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestRegistry_SaveTwice_Overwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveCustomer(ctx, ledger.Customer{
		Name: "somchai", TotalDebt: decimal.NewFromInt(100)}))
	require.NoError(t, store.SaveCustomer(ctx, ledger.Customer{
		Name: "somchai", TotalDebt: decimal.NewFromInt(200)}))

	c, err := store.Customer(ctx, "somchai")
	require.NoError(t, err)
	assert.Equal(t, "200", c.TotalDebt.String())
}

func TestPayments_InsertionOrderPreserved(t *testing.T) {
	// Records come back in the order they were appended, even when their
	// dates are out of order.
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, pay("p1", "somchai", "2026-01-01", 100)))
	require.NoError(t, store.Append(ctx, pay("p2", "somchai", "2025-05-01", 200)))
	require.NoError(t, store.Append(ctx, pay("p3", "somchai", "bad-date", 300)))

	recs, err := store.ListByCustomer(ctx, "somchai")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, ledger.PaymentID("p1"), recs[0].ID)
	assert.Equal(t, ledger.PaymentID("p2"), recs[1].ID)
	assert.Equal(t, ledger.PaymentID("p3"), recs[2].ID)
}

func TestPayments_RawDateSurvivesRoundTrip(t *testing.T) {
	// An unparseable date is stored verbatim and comes back with a nil
	// parsed date, so the engine can keep excluding it from buckets.
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, pay("p1", "somchai", "sometime in june", 500)))

	rec, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "sometime in june", rec.RawDate)
	assert.False(t, rec.HasDate())
}

func TestPayments_Update(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, pay("p1", "somchai", "2025-05-01", 100)))
	require.NoError(t, store.Update(ctx, "p1", ledger.PaymentEdit{
		RawDate: "2026-05-01", Amount: "150.25", Note: "corrected",
	}))

	rec, err := store.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "2026-05-01", rec.RawDate)
	require.True(t, rec.HasDate())
	assert.Equal(t, "150.25", rec.Amount.String())
	assert.Equal(t, "corrected", rec.Note)
}

func TestPayments_UpdateUnknownID(t *testing.T) {
	store := newTestStore(t)

	err := store.Update(context.Background(), "nope", ledger.PaymentEdit{
		RawDate: "2025-05-01", Amount: "1",
	})
	assert.ErrorIs(t, err, ledger.ErrPaymentNotFound)
}

package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/araya/debt-engine/fiscal"
	"github.com/araya/debt-engine/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func amt(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func payment(id, rawDate string, amount float64) ledger.PaymentRecord {
	return ledger.NewPaymentRecord(ledger.PaymentID(id), "somchai", rawDate, amt(amount), "")
}

func input(debt float64, asOf fiscal.Date, payments ...ledger.PaymentRecord) ledger.ScheduleInput {
	return ledger.ScheduleInput{
		TotalDebt:         amt(debt),
		ContractStartYear: 2025,
		Payments:          payments,
		AsOf:              asOf,
	}
}

// approxEqual checks decimal equality within 1e-9.
func approxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(decimal.NewFromFloat(1e-9))
}

// =============================================================================
// REQUIRED AMOUNT TESTS
// =============================================================================

func TestSchedule_RequiredSumsToTotalDebt(t *testing.T) {
	// GIVEN: A range of total debts, including amounts not divisible by 4
	// THEN: The four required amounts always sum back to the total debt

	for _, debt := range []float64{400000, 100, 1, 0.01, 333333.33, 999999.99} {
		sched := ledger.BuildSchedule(input(debt, fiscal.NewDate(2025, time.June, 1)))

		sum := decimal.Zero
		for _, row := range sched.Rows {
			sum = sum.Add(row.Required)
		}
		if !approxEqual(sum, amt(debt)) {
			t.Errorf("debt %v: required sums to %v", debt, sum)
		}
	}
}

func TestSchedule_ZeroOrNegativeDebt_RequiredIsZero(t *testing.T) {
	// GIVEN: Missing registry entry (debt 0) or a negative debt
	// THEN: Required is 0 everywhere, no penalty can ever trigger

	for _, debt := range []float64{0, -5000} {
		sched := ledger.BuildSchedule(input(debt, fiscal.NewDate(2030, time.June, 1)))

		for _, row := range sched.Rows {
			if !row.Required.IsZero() {
				t.Errorf("debt %v: required = %v, want 0", debt, row.Required)
			}
			if row.Status != ledger.StatusNone {
				t.Errorf("debt %v: status = %s, want none", debt, row.Status)
			}
		}
	}
}

func TestSchedule_Overpayment_TotalRemainingGoesNegative(t *testing.T) {
	// GIVEN: Payments exceeding the total debt
	// THEN: Lifetime remaining is negative (reported, not clamped)

	sched := ledger.BuildSchedule(input(1000, fiscal.NewDate(2025, time.June, 1),
		payment("p1", "2025-05-01", 1500)))

	if !sched.TotalRemaining.Equal(amt(-500)) {
		t.Errorf("TotalRemaining = %v, want -500", sched.TotalRemaining)
	}
}

// =============================================================================
// BUCKETING TESTS
// =============================================================================

func TestSchedule_BoundaryDates(t *testing.T) {
	// GIVEN: Payments on and around the fiscal year boundaries
	// THEN: April 5 and March 5 are inside; April 4 falls before the contract

	cases := []struct {
		date    string
		rowIdx  int // which of the 4 rows should receive the payment
		outside bool
	}{
		{"2025-04-05", 0, false}, // first day of FY2025
		{"2026-03-05", 0, false}, // last day of FY2025
		{"2026-04-05", 1, false}, // first day of FY2026
		{"2025-04-04", 0, true},  // FY2024, before the contract
	}

	for _, c := range cases {
		sched := ledger.BuildSchedule(input(400000, fiscal.NewDate(2025, time.June, 1),
			payment("p1", c.date, 100)))

		if c.outside {
			for i, row := range sched.Rows {
				if !row.Paid.IsZero() {
					t.Errorf("date %s: row %d paid = %v, want all rows empty", c.date, i, row.Paid)
				}
			}
			continue
		}

		for i, row := range sched.Rows {
			want := decimal.Zero
			if i == c.rowIdx {
				want = amt(100)
			}
			if !row.Paid.Equal(want) {
				t.Errorf("date %s: row %d paid = %v, want %v", c.date, i, row.Paid, want)
			}
		}
	}
}

func TestSchedule_GapDays_NoBucket(t *testing.T) {
	// GIVEN: A payment dated March 6 - April 4, between one fiscal year's end
	//        and the next one's start
	// THEN: It enters no bucket but still counts toward lifetime totals

	sched := ledger.BuildSchedule(input(400000, fiscal.NewDate(2026, time.June, 1),
		payment("p1", "2026-03-20", 5000)))

	for i, row := range sched.Rows {
		if !row.Paid.IsZero() {
			t.Errorf("row %d paid = %v, want 0", i, row.Paid)
		}
	}
	if !sched.TotalPaidAllTime.Equal(amt(5000)) {
		t.Errorf("TotalPaidAllTime = %v, want 5000", sched.TotalPaidAllTime)
	}
}

func TestSchedule_UnparseableDate_ExcludedFromBucketsOnly(t *testing.T) {
	// GIVEN: One dated payment and one payment with garbage in the date field
	// THEN: Only the dated one is bucketed; both count toward lifetime paid

	sched := ledger.BuildSchedule(input(400000, fiscal.NewDate(2025, time.June, 1),
		payment("p1", "2025-05-01", 10000),
		payment("p2", "not-a-date", 7000)))

	if !sched.Rows[0].Paid.Equal(amt(10000)) {
		t.Errorf("year 0 paid = %v, want 10000", sched.Rows[0].Paid)
	}
	if !sched.TotalPaidAllTime.Equal(amt(17000)) {
		t.Errorf("TotalPaidAllTime = %v, want 17000", sched.TotalPaidAllTime)
	}
	if sched.ExcludedPayments != 1 {
		t.Errorf("ExcludedPayments = %d, want 1", sched.ExcludedPayments)
	}
}

// =============================================================================
// PENALTY RULE TESTS
// =============================================================================

func TestSchedule_NoPayments_BeforeCutoff_AllPending(t *testing.T) {
	// GIVEN: 400,000 debt, contract starting FY2025, no payments
	// WHEN: Evaluated at 2025-04-10
	// THEN: Every row shows required 100,000, remaining 100,000, pending;
	//       no penalties anywhere

	sched := ledger.BuildSchedule(input(400000, fiscal.NewDate(2025, time.April, 10)))

	for i, row := range sched.Rows {
		if !row.Required.Equal(amt(100000)) {
			t.Errorf("row %d required = %v, want 100000", i, row.Required)
		}
		if !row.Paid.IsZero() {
			t.Errorf("row %d paid = %v, want 0", i, row.Paid)
		}
		if !row.Remaining.Equal(amt(100000)) {
			t.Errorf("row %d remaining = %v, want 100000", i, row.Remaining)
		}
		if row.Status != ledger.StatusPending {
			t.Errorf("row %d status = %s, want pending", i, row.Status)
		}
	}
	if len(sched.Penalized()) != 0 {
		t.Errorf("penalized count = %d, want 0", len(sched.Penalized()))
	}
}

func TestSchedule_DayAfterCutoff_PenaltyApplied(t *testing.T) {
	// GIVEN: Same setup, nothing paid for FY2025
	// WHEN: Evaluated at 2026-03-04, one day past the 2026-03-03 cutoff
	// THEN: The 2025-2026 row is penalized at 15% of 100,000 = 15,000

	sched := ledger.BuildSchedule(input(400000, fiscal.NewDate(2026, time.March, 4)))

	row := sched.Rows[0]
	if row.Label != "2025-2026" {
		t.Fatalf("row 0 label = %q", row.Label)
	}
	if row.Status != ledger.StatusPenalized {
		t.Errorf("status = %s, want penalized", row.Status)
	}
	if !row.Penalty.Equal(amt(15000)) {
		t.Errorf("penalty = %v, want 15000", row.Penalty)
	}

	pen := sched.Penalized()
	if len(pen) != 1 || pen[0].Label != "2025-2026" {
		t.Errorf("Penalized() = %v, want just 2025-2026", pen)
	}
}

func TestSchedule_OnCutoffDay_StillPending(t *testing.T) {
	// GIVEN: Unpaid FY2025
	// WHEN: Evaluated exactly on the cutoff, 2026-03-03
	// THEN: Still pending, not penalized

	sched := ledger.BuildSchedule(input(400000, fiscal.NewDate(2026, time.March, 3)))

	if sched.Rows[0].Status != ledger.StatusPending {
		t.Errorf("status on cutoff day = %s, want pending", sched.Rows[0].Status)
	}
}

func TestSchedule_FullyPaidYear_NeverPenalized(t *testing.T) {
	// GIVEN: A payment covering the full required amount inside the period
	// WHEN: Evaluated long after every cutoff has passed
	// THEN: remaining = 0, status none, regardless of AsOf

	sched := ledger.BuildSchedule(input(400000, fiscal.NewDate(2040, time.January, 1),
		payment("p1", "2025-12-25", 100000)))

	row := sched.Rows[0]
	if !row.Remaining.IsZero() {
		t.Errorf("remaining = %v, want 0", row.Remaining)
	}
	if row.Status != ledger.StatusNone {
		t.Errorf("status = %s, want none", row.Status)
	}
	if !row.Penalty.IsZero() {
		t.Errorf("penalty = %v, want 0", row.Penalty)
	}
}

func TestSchedule_PartialPayment_PenaltyOnRemainderOnly(t *testing.T) {
	// GIVEN: 60,000 of the 100,000 requirement paid in FY2025
	// WHEN: Evaluated past the cutoff
	// THEN: Penalty is 15% of the 40,000 remainder

	sched := ledger.BuildSchedule(input(400000, fiscal.NewDate(2026, time.March, 10),
		payment("p1", "2025-07-01", 60000)))

	row := sched.Rows[0]
	if !row.Remaining.Equal(amt(40000)) {
		t.Errorf("remaining = %v, want 40000", row.Remaining)
	}
	if !row.Penalty.Equal(amt(6000)) {
		t.Errorf("penalty = %v, want 6000", row.Penalty)
	}
}

// =============================================================================
// PURITY / EDIT SEMANTICS
// =============================================================================

func TestSchedule_Idempotent(t *testing.T) {
	// GIVEN: The same input computed twice
	// THEN: Every field of the result is identical

	in := input(400000, fiscal.NewDate(2026, time.June, 1),
		payment("p1", "2025-05-01", 50000),
		payment("p2", "bad-date", 1234),
		payment("p3", "2026-06-15", 25000))

	a := ledger.BuildSchedule(in)
	b := ledger.BuildSchedule(in)

	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("row counts differ")
	}
	for i := range a.Rows {
		ra, rb := a.Rows[i], b.Rows[i]
		if ra.Label != rb.Label || ra.Status != rb.Status ||
			!ra.Required.Equal(rb.Required) || !ra.Paid.Equal(rb.Paid) ||
			!ra.Remaining.Equal(rb.Remaining) || !ra.Penalty.Equal(rb.Penalty) {
			t.Errorf("row %d differs between runs", i)
		}
	}
	if !a.TotalPaidAllTime.Equal(b.TotalPaidAllTime) || !a.TotalRemaining.Equal(b.TotalRemaining) {
		t.Errorf("aggregates differ between runs")
	}
}

func TestSchedule_EditedDate_MovesAcrossBuckets(t *testing.T) {
	// GIVEN: A payment originally inside FY2025
	// WHEN: Its date is edited into FY2026
	// THEN: The amount moves buckets; lifetime totals are unchanged

	before := ledger.BuildSchedule(input(400000, fiscal.NewDate(2025, time.June, 1),
		payment("p1", "2025-05-01", 30000)))

	after := ledger.BuildSchedule(input(400000, fiscal.NewDate(2025, time.June, 1),
		payment("p1", "2026-05-01", 30000)))

	if !before.Rows[0].Paid.Equal(amt(30000)) || !before.Rows[1].Paid.IsZero() {
		t.Errorf("before edit: paid = %v / %v", before.Rows[0].Paid, before.Rows[1].Paid)
	}
	if !after.Rows[0].Paid.IsZero() || !after.Rows[1].Paid.Equal(amt(30000)) {
		t.Errorf("after edit: paid = %v / %v", after.Rows[0].Paid, after.Rows[1].Paid)
	}
	if !before.TotalPaidAllTime.Equal(after.TotalPaidAllTime) {
		t.Errorf("lifetime totals changed by edit: %v vs %v",
			before.TotalPaidAllTime, after.TotalPaidAllTime)
	}
}

// =============================================================================
// RECEIPT LOOKUP
// =============================================================================

func TestSchedule_RowForDate(t *testing.T) {
	// GIVEN: A contract spanning FY2025..FY2028
	// THEN: A date inside the span resolves to its row; outside returns false

	sched := ledger.BuildSchedule(input(400000, fiscal.NewDate(2025, time.June, 1)))

	row, ok := sched.RowForDate(fiscal.NewDate(2026, time.October, 1))
	if !ok || row.Label != "2026-2027" {
		t.Errorf("RowForDate(2026-10-01) = %q, %v; want 2026-2027, true", row.Label, ok)
	}

	if _, ok := sched.RowForDate(fiscal.NewDate(2031, time.January, 1)); ok {
		t.Errorf("RowForDate outside contract should return false")
	}
	if _, ok := sched.RowForDate(fiscal.NewDate(2024, time.June, 1)); ok {
		t.Errorf("RowForDate before contract should return false")
	}
}

func TestSchedule_RowForDate_AgreesWithBucketing(t *testing.T) {
	// GIVEN: A payment on the April 5 boundary
	// THEN: The receipt lookup for that date features the same row the
	//       payment was bucketed into

	d := "2026-04-05"
	sched := ledger.BuildSchedule(input(400000, fiscal.NewDate(2026, time.June, 1),
		payment("p1", d, 12345)))

	date, err := fiscal.ParseDate(d)
	if err != nil {
		t.Fatal(err)
	}
	row, ok := sched.RowForDate(date)
	if !ok {
		t.Fatal("expected a matching row")
	}
	if !row.Paid.Equal(amt(12345)) {
		t.Errorf("featured row paid = %v, want 12345", row.Paid)
	}
}

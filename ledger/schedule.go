/*
schedule.go - The obligation and penalty calculator

PURPOSE:
  Produces the four-row fiscal schedule for one customer as of an explicit
  evaluation date. This is a pure function of its inputs: recomputing with
  the same inputs yields an identical schedule, which is what lets a receipt
  be regenerated for any historical moment.

RULES:
  - required = TotalDebt / 4 per fiscal year (0 when TotalDebt <= 0)
  - paid     = sum of payments whose parsed date falls inside the year's
               inclusive bounds; dateless payments never enter a bucket
  - remaining = max(0, required - paid), per-row only
  - status: remaining == 0            -> none
            AsOf <= penalty cutoff    -> pending
            otherwise                 -> penalized, penalty = remaining * 15%
  - lifetime totals include every payment regardless of date validity, and
    TotalRemaining is NOT clamped (overpayment shows as negative)

EVALUATION DATES:
  The engine takes AsOf explicitly. Receipt rendering selects its featured
  row by the payment's own date (RowForDate) while penalty status reflects
  whatever AsOf the caller passed; the two are deliberately independent.

SEE ALSO:
  - types.go: PaymentRecord, PenaltyStatus
  - fiscal/fiscal.go: year bounds and cutoff dates
*/
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/araya/debt-engine/fiscal"
)

// =============================================================================
// INPUT / OUTPUT
// =============================================================================

// ScheduleInput is everything the calculator needs for one customer.
type ScheduleInput struct {
	TotalDebt         decimal.Decimal
	ContractStartYear int
	Payments          []PaymentRecord
	AsOf              fiscal.Date
}

// YearRow is one fiscal year of the schedule.
type YearRow struct {
	Year      fiscal.Year
	Label     string
	Required  decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal
	Status    PenaltyStatus
	Penalty   decimal.Decimal
}

// Schedule is the full result: four chronological rows plus aggregates.
type Schedule struct {
	Rows []YearRow

	TotalDue         decimal.Decimal
	TotalPaidAllTime decimal.Decimal
	TotalRemaining   decimal.Decimal

	// ExcludedPayments counts payments that carried no parseable date and
	// were therefore left out of every fiscal bucket. Reported so callers
	// can flag the condition; not an error.
	ExcludedPayments int
}

// =============================================================================
// CALCULATOR
// =============================================================================

// BuildSchedule computes the four-row schedule. Pure: no clock access, no
// mutation of the input.
func BuildSchedule(in ScheduleInput) Schedule {
	required := decimal.Zero
	if in.TotalDebt.IsPositive() {
		required = in.TotalDebt.Div(decimal.NewFromInt(ContractYears))
	}

	sched := Schedule{
		Rows:             make([]YearRow, 0, ContractYears),
		TotalDue:         in.TotalDebt,
		TotalPaidAllTime: decimal.Zero,
		TotalRemaining:   decimal.Zero,
	}

	for _, p := range in.Payments {
		sched.TotalPaidAllTime = sched.TotalPaidAllTime.Add(p.Amount)
		if !p.HasDate() {
			sched.ExcludedPayments++
		}
	}
	sched.TotalRemaining = in.TotalDebt.Sub(sched.TotalPaidAllTime)

	for i := 0; i < ContractYears; i++ {
		year := fiscal.Year{Start: in.ContractStartYear + i}

		paid := decimal.Zero
		for _, p := range in.Payments {
			if p.HasDate() && year.Contains(*p.Date) {
				paid = paid.Add(p.Amount)
			}
		}

		remaining := required.Sub(paid)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}

		row := YearRow{
			Year:      year,
			Label:     year.Label(),
			Required:  required,
			Paid:      paid,
			Remaining: remaining,
			Status:    StatusNone,
			Penalty:   decimal.Zero,
		}

		if remaining.IsPositive() {
			if in.AsOf.After(year.PenaltyCutoff()) {
				row.Status = StatusPenalized
				row.Penalty = remaining.Mul(PenaltyRate)
			} else {
				row.Status = StatusPending
			}
		}

		sched.Rows = append(sched.Rows, row)
	}

	return sched
}

// Penalized returns the rows that have incurred a penalty, for alerting.
func (s Schedule) Penalized() []YearRow {
	var rows []YearRow
	for _, r := range s.Rows {
		if r.Status == StatusPenalized {
			rows = append(rows, r)
		}
	}
	return rows
}

// RowForDate returns the schedule row whose fiscal year contains the given
// date. The second return is false when the date falls outside the contract's
// four years; the caller decides the fallback presentation.
func (s Schedule) RowForDate(d fiscal.Date) (YearRow, bool) {
	label := fiscal.YearOf(d).Label()
	for _, r := range s.Rows {
		if r.Label == label {
			return r, true
		}
	}
	return YearRow{}, false
}

// TotalPenalties sums the penalty amounts across all rows.
func (s Schedule) TotalPenalties() decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Rows {
		total = total.Add(r.Penalty)
	}
	return total
}

/*
Package ledger tracks installment debt repayment under a four-year contract.

PURPOSE:
  This package contains the obligation and penalty engine: it partitions a
  customer's contracted debt into four annual obligations aligned to the
  fiscal calendar, aggregates payments into the correct fiscal bucket, and
  derives penalty status from payment timing relative to the cutoff date.

KEY CONCEPTS IN THIS FILE (types.go):
  - Customer: registry entry, name plus total contracted debt
  - PaymentRecord: one recorded payment; the date may be unparseable,
    in which case Date is nil and the raw input is preserved
  - PenaltyStatus: structured status (none | pending | penalized) so
    renderers never have to string-match formatted currency

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all money, never float64
  2. Explicit optionality: unparseable dates are *Date == nil, not a
     sentinel time value filtered by comparison side effects
  3. Purity: the schedule computation has no side effects and no hidden
     "now"; every evaluation date is a parameter

SEE ALSO:
  - schedule.go: the obligation and penalty calculator
  - store.go: registry and payment store interfaces
*/
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/araya/debt-engine/fiscal"
)

// ContractYears is the fixed length of the repayment contract.
const ContractYears = 4

// PenaltyRate is applied to the unpaid remainder of a fiscal year once its
// cutoff date has passed.
var PenaltyRate = decimal.NewFromFloat(0.15)

// =============================================================================
// CUSTOMER - Registry entry
// =============================================================================

// Customer is a debtor from the external registry. Immutable during a
// session; identified by name.
type Customer struct {
	Name      string
	TotalDebt decimal.Decimal
}

// =============================================================================
// PAYMENT RECORD
// =============================================================================

// PaymentID identifies a payment record.
type PaymentID string

// PaymentRecord is one recorded payment for a customer. Ordering among a
// customer's records is insertion order (Position).
//
// RawDate holds the date exactly as submitted. Date is the parsed form and
// is nil when RawDate could not be parsed; such payments count toward
// lifetime totals but never toward any fiscal bucket.
type PaymentRecord struct {
	ID           PaymentID
	CustomerName string
	RawDate      string
	Date         *fiscal.Date
	Amount       decimal.Decimal
	Note         string
	Position     int
}

// NewPaymentRecord builds a record from raw input, parsing the date when
// possible. An unparseable date is not an error here: the record is kept
// with Date == nil and the caller decides how to report it.
func NewPaymentRecord(id PaymentID, customer, rawDate string, amount decimal.Decimal, note string) PaymentRecord {
	rec := PaymentRecord{
		ID:           id,
		CustomerName: customer,
		RawDate:      rawDate,
		Amount:       amount,
		Note:         note,
	}
	if d, err := fiscal.ParseDate(rawDate); err == nil {
		rec.Date = &d
	}
	return rec
}

// HasDate reports whether the payment carries a parseable date.
func (p PaymentRecord) HasDate() bool { return p.Date != nil }

// =============================================================================
// PENALTY STATUS
// =============================================================================

// PenaltyStatus is the penalty determination for one fiscal year row.
type PenaltyStatus string

const (
	// StatusNone: nothing remains for the year, no penalty possible.
	StatusNone PenaltyStatus = "none"

	// StatusPending: a balance remains but the evaluation date has not yet
	// passed the penalty cutoff.
	StatusPending PenaltyStatus = "pending"

	// StatusPenalized: a balance remained after the cutoff; the 15% penalty
	// has been applied.
	StatusPenalized PenaltyStatus = "penalized"
)

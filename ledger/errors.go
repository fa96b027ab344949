package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCustomerNotFound is returned when a registry lookup misses. Note the
	// calculator itself tolerates a missing customer (treats debt as zero);
	// this error is for callers that need the distinction, like the API.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrPaymentNotFound is returned when a payment edit targets an unknown ID.
	ErrPaymentNotFound = errors.New("payment not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// UndatedPaymentError flags a payment whose date could not be parsed. The
// payment is still stored and still counts toward lifetime totals; this
// error exists so callers can surface the exclusion to users.
type UndatedPaymentError struct {
	PaymentID PaymentID
	RawDate   string
}

func (e *UndatedPaymentError) Error() string {
	return fmt.Sprintf("payment %s has unparseable date %q; excluded from fiscal buckets", e.PaymentID, e.RawDate)
}

// IsNotFound reports whether the error is a missing-resource condition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCustomerNotFound) || errors.Is(err, ErrPaymentNotFound)
}

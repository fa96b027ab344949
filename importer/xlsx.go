/*
Package importer loads customer and payment workbooks into the stores.

PURPOSE:
  The legacy system kept its data in two Excel files: a customer registry
  (NAME, AmountDue) and a payment log (customer, date, amount, note). This
  package reads either workbook and loads it through the store interfaces,
  so existing books migrate without hand conversion.

TOLERANCE:
  Bad rows are reported, not fatal. An unparseable amount skips the row; an
  unparseable payment date keeps the row with the raw date preserved, which
  is exactly how the engine treats such payments (lifetime totals only).
*/
package importer

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/araya/debt-engine/ledger"
)

// RegistryWriter is the store side the customer import needs.
type RegistryWriter interface {
	SaveCustomer(ctx context.Context, c ledger.Customer) error
}

// Result summarizes one import run.
type Result struct {
	RowsImported int
	RowsSkipped  int
	Skipped      []string // one message per skipped or degraded row
}

// =============================================================================
// CUSTOMER REGISTRY IMPORT
// =============================================================================

// ImportCustomers reads a registry workbook (columns: NAME, AmountDue) from
// the first sheet and saves each entry.
func ImportCustomers(ctx context.Context, r io.Reader, w RegistryWriter) (Result, error) {
	var res Result

	rows, err := sheetRows(r)
	if err != nil {
		return res, err
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
			res.RowsSkipped++
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d: missing name", i+1))
			continue
		}

		name := strings.TrimSpace(row[0])
		debt, err := parseAmount(row[1])
		if err != nil {
			res.RowsSkipped++
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d (%s): bad amount %q", i+1, name, row[1]))
			continue
		}

		if err := w.SaveCustomer(ctx, ledger.Customer{Name: name, TotalDebt: debt}); err != nil {
			return res, fmt.Errorf("save customer %s: %w", name, err)
		}
		res.RowsImported++
	}

	log.Printf("registry import: %d imported, %d skipped", res.RowsImported, res.RowsSkipped)
	return res, nil
}

// =============================================================================
// PAYMENT LOG IMPORT
// =============================================================================

// ImportPayments reads a payment workbook (columns: customer, date, amount,
// note) from the first sheet and appends each row. Rows with unparseable
// dates are kept with the raw date string; the engine excludes them from
// fiscal buckets but counts them in lifetime totals.
func ImportPayments(ctx context.Context, r io.Reader, store ledger.PaymentStore) (Result, error) {
	var res Result

	rows, err := sheetRows(r)
	if err != nil {
		return res, err
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 3 || strings.TrimSpace(row[0]) == "" {
			res.RowsSkipped++
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d: missing customer", i+1))
			continue
		}

		customer := strings.TrimSpace(row[0])
		rawDate := strings.TrimSpace(row[1])
		amount, err := parseAmount(row[2])
		if err != nil {
			res.RowsSkipped++
			res.Skipped = append(res.Skipped, fmt.Sprintf("row %d (%s): bad amount %q", i+1, customer, row[2]))
			continue
		}

		note := ""
		if len(row) > 3 {
			note = strings.TrimSpace(row[3])
		}

		rec := ledger.NewPaymentRecord(ledger.PaymentID(uuid.NewString()), customer, rawDate, amount, note)
		if !rec.HasDate() {
			res.Skipped = append(res.Skipped,
				(&ledger.UndatedPaymentError{PaymentID: rec.ID, RawDate: rawDate}).Error())
		}

		if err := store.Append(ctx, rec); err != nil {
			return res, fmt.Errorf("append payment for %s: %w", customer, err)
		}
		res.RowsImported++
	}

	log.Printf("payment import: %d imported, %d skipped", res.RowsImported, res.RowsSkipped)
	return res, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func sheetRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return decimal.NewFromString(s)
}

/*
Package receipt renders a printable PDF receipt for a single payment.

PURPOSE:
  Given one payment and the customer's computed schedule, produces a PDF
  containing the payment line, the fiscal-year summary for the year the
  payment's own date falls into, and the customer's overall debt position.

DATA, NOT LAYOUT:
  The layout is deliberately plain. What matters is the data set: payment
  amount and date, the featured year's required/paid/remaining/penalty
  status, and the lifetime totals. The featured row is selected by the
  payment's date via Schedule.RowForDate; when the date falls outside the
  contract years (or is unparseable) the receipt says so instead of
  fabricating a row.
*/
package receipt

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/araya/debt-engine/ledger"
)

// Data is everything the renderer needs for one receipt.
type Data struct {
	CustomerName string
	Payment      ledger.PaymentRecord
	Schedule     ledger.Schedule
}

// FileName returns the suggested download name for the receipt.
func (d Data) FileName() string {
	date := d.Payment.RawDate
	if d.Payment.HasDate() {
		date = d.Payment.Date.String()
	}
	return fmt.Sprintf("receipt_%s_%s.pdf", d.CustomerName, date)
}

// Render produces the PDF bytes.
func Render(d Data) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 22)
	pdf.CellFormat(0, 14, "Payment Receipt", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, fmt.Sprintf("Date: %s", d.Payment.RawDate), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Customer: %s", d.CustomerName), "", 1, "L", false, 0, "")
	if d.Payment.Note != "" {
		pdf.CellFormat(0, 7, fmt.Sprintf("Note: %s", d.Payment.Note), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// Payment line
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(130, 9, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(50, 9, "Amount", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(130, 9, "Installment payment under contract", "1", 0, "L", false, 0, "")
	pdf.CellFormat(50, 9, money(d.Payment.Amount), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	// Fiscal year status for the payment's own date
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Fiscal year status for this payment", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)

	row, ok := featuredRow(d)
	if ok {
		labeled(pdf, "Fiscal year:", row.Label)
		labeled(pdf, "Required this year:", money(row.Required))
		labeled(pdf, "Paid this year:", money(row.Paid))
		labeled(pdf, "Remaining this year:", money(row.Remaining))
		labeled(pdf, "Penalty status:", penaltyText(row))
	} else {
		pdf.CellFormat(0, 7, "No matching fiscal period for this payment date.", "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	// Overall position
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, "Overall debt summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	labeled(pdf, "Total contracted debt:", money(d.Schedule.TotalDue))
	labeled(pdf, "Total paid to date:", money(d.Schedule.TotalPaidAllTime))
	labeled(pdf, "Current remaining debt:", money(d.Schedule.TotalRemaining))
	pdf.Ln(14)

	// Signatures
	pdf.CellFormat(95, 9, "Received by .........................................", "", 1, "L", false, 0, "")
	pdf.Ln(14)
	pdf.CellFormat(95, 9, "Paid by ...............................................", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

func featuredRow(d Data) (ledger.YearRow, bool) {
	if !d.Payment.HasDate() {
		return ledger.YearRow{}, false
	}
	return d.Schedule.RowForDate(*d.Payment.Date)
}

func labeled(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(90, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(60, 7, value, "", 1, "R", false, 0, "")
}

func money(v decimal.Decimal) string {
	return v.StringFixed(2)
}

func penaltyText(row ledger.YearRow) string {
	switch row.Status {
	case ledger.StatusPenalized:
		return fmt.Sprintf("penalty %s (15%%)", money(row.Penalty))
	case ledger.StatusPending:
		return "pending (cutoff not reached)"
	default:
		return "none"
	}
}

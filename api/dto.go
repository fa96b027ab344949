/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY ON THE WIRE:
  Amounts are serialized as decimal strings ("100000.00"), never floats,
  so clients round-trip exact values.
*/
package api

import (
	"github.com/araya/debt-engine/fiscal"
	"github.com/araya/debt-engine/ledger"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// CustomerDTO represents a registry entry plus lifetime totals.
type CustomerDTO struct {
	Name             string `json:"name"`
	TotalDebt        string `json:"total_debt"`
	TotalPaidAllTime string `json:"total_paid_all_time,omitempty"`
	TotalRemaining   string `json:"total_remaining,omitempty"`
}

// PaymentDTO represents a payment record.
type PaymentDTO struct {
	ID           string `json:"id"`
	CustomerName string `json:"customer_name"`
	Date         string `json:"date"`           // raw as submitted
	DateValid    bool   `json:"date_valid"`     // false = excluded from buckets
	FiscalYear   string `json:"fiscal_year,omitempty"` // label, when date is valid
	Amount       string `json:"amount"`
	Note         string `json:"note,omitempty"`
}

// SubmitPaymentRequest is the body for recording a new payment.
type SubmitPaymentRequest struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// EditPaymentRequest overwrites a payment's mutable fields.
type EditPaymentRequest struct {
	Date   string `json:"date"`
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// YearRowDTO is one fiscal year of the schedule.
type YearRowDTO struct {
	FiscalYear string `json:"fiscal_year"`
	Required   string `json:"required"`
	Paid       string `json:"paid"`
	Remaining  string `json:"remaining"`
	Status     string `json:"penalty_status"`
	Penalty    string `json:"penalty_amount,omitempty"`
}

// ScheduleDTO is the full schedule response.
type ScheduleDTO struct {
	CustomerName     string       `json:"customer_name"`
	AsOf             string       `json:"as_of"`
	Rows             []YearRowDTO `json:"rows"`
	Penalized        []YearRowDTO `json:"penalized"`
	TotalDue         string       `json:"total_due"`
	TotalPaidAllTime string       `json:"total_paid_all_time"`
	TotalRemaining   string       `json:"total_remaining"`
	ExcludedPayments int          `json:"excluded_payments,omitempty"`
}

// SubmitPaymentResponse returns the stored payment plus the refreshed schedule.
type SubmitPaymentResponse struct {
	Payment  PaymentDTO  `json:"payment"`
	Schedule ScheduleDTO `json:"schedule"`
}

// ImportResultDTO summarizes an xlsx import.
type ImportResultDTO struct {
	RowsImported int      `json:"rows_imported"`
	RowsSkipped  int      `json:"rows_skipped"`
	Skipped      []string `json:"skipped,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toPaymentDTO(p ledger.PaymentRecord) PaymentDTO {
	dto := PaymentDTO{
		ID:           string(p.ID),
		CustomerName: p.CustomerName,
		Date:         p.RawDate,
		DateValid:    p.HasDate(),
		Amount:       p.Amount.StringFixed(2),
		Note:         p.Note,
	}
	if p.HasDate() {
		dto.FiscalYear = fiscal.YearOf(*p.Date).Label()
	}
	return dto
}

func toPaymentDTOs(recs []ledger.PaymentRecord) []PaymentDTO {
	dtos := make([]PaymentDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = toPaymentDTO(rec)
	}
	return dtos
}

func toYearRowDTO(r ledger.YearRow) YearRowDTO {
	dto := YearRowDTO{
		FiscalYear: r.Label,
		Required:   r.Required.StringFixed(2),
		Paid:       r.Paid.StringFixed(2),
		Remaining:  r.Remaining.StringFixed(2),
		Status:     string(r.Status),
	}
	if r.Status == ledger.StatusPenalized {
		dto.Penalty = r.Penalty.StringFixed(2)
	}
	return dto
}

func toScheduleDTO(customer string, asOf string, s ledger.Schedule) ScheduleDTO {
	dto := ScheduleDTO{
		CustomerName:     customer,
		AsOf:             asOf,
		Rows:             make([]YearRowDTO, len(s.Rows)),
		Penalized:        []YearRowDTO{},
		TotalDue:         s.TotalDue.StringFixed(2),
		TotalPaidAllTime: s.TotalPaidAllTime.StringFixed(2),
		TotalRemaining:   s.TotalRemaining.StringFixed(2),
		ExcludedPayments: s.ExcludedPayments,
	}
	for i, r := range s.Rows {
		dto.Rows[i] = toYearRowDTO(r)
	}
	for _, r := range s.Penalized() {
		dto.Penalized = append(dto.Penalized, toYearRowDTO(r))
	}
	return dto
}

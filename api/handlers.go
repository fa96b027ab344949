/*
handlers.go - HTTP API handlers for the debt ledger

PURPOSE:
  Exposes the obligation and penalty engine via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Customers:
    GET    /api/customers                      List registry
    GET    /api/customers/{name}               Customer + lifetime totals
    GET    /api/customers/{name}/schedule      Four-year schedule
    GET    /api/customers/{name}/payments      Payment history
    POST   /api/customers/{name}/payments      Record a payment

  Payments:
    PUT    /api/payments/{id}                  Edit date/amount/note
    GET    /api/payments/{id}/receipt          PDF receipt

  Import:
    POST   /api/import/customers               Registry workbook upload
    POST   /api/import/payments                Payment workbook upload

EVALUATION DATES:
  Schedule endpoints accept ?as_of=YYYY-MM-DD and default to today. The
  receipt endpoint evaluates penalty status at the same explicit as_of
  while featuring the fiscal year of the payment's own date; neither date
  is hard-coded inside the engine.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/araya/debt-engine/fiscal"
	"github.com/araya/debt-engine/importer"
	"github.com/araya/debt-engine/ledger"
	"github.com/araya/debt-engine/receipt"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// RegistryStore is the full store surface the handlers need: the ledger
// interfaces plus registry writes for the import endpoints.
type RegistryStore interface {
	ledger.Store
	importer.RegistryWriter
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store RegistryStore

	// ContractStartYear is the fiscal year the four-year contracts begin in.
	ContractStartYear int
}

// NewHandler creates a new handler with the given store.
func NewHandler(store RegistryStore, contractStartYear int) *Handler {
	return &Handler{Store: store, ContractStartYear: contractStartYear}
}

// =============================================================================
// CUSTOMER HANDLERS
// =============================================================================

// ListCustomers returns the registry.
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Store.ListCustomers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list customers", err)
		return
	}

	dtos := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		dtos[i] = CustomerDTO{Name: c.Name, TotalDebt: c.TotalDebt.StringFixed(2)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCustomer returns one customer with lifetime totals.
func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := r.Context()

	c, err := h.Store.Customer(ctx, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get customer", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Customer not found", nil)
		return
	}

	payments, err := h.Store.ListByCustomer(ctx, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payments", err)
		return
	}

	paid := decimal.Zero
	for _, p := range payments {
		paid = paid.Add(p.Amount)
	}

	writeJSON(w, http.StatusOK, CustomerDTO{
		Name:             c.Name,
		TotalDebt:        c.TotalDebt.StringFixed(2),
		TotalPaidAllTime: paid.StringFixed(2),
		TotalRemaining:   c.TotalDebt.Sub(paid).StringFixed(2),
	})
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GetSchedule returns the four-year schedule for a customer.
// GET /api/customers/{name}/schedule?as_of=YYYY-MM-DD
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	asOf, err := asOfParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of (use YYYY-MM-DD)", err)
		return
	}

	sched, err := h.buildSchedule(r, name, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleDTO(name, asOf.String(), sched))
}

// buildSchedule loads a snapshot and runs the calculator. A customer missing
// from the registry gets a zero-debt schedule, matching the engine's rule.
func (h *Handler) buildSchedule(r *http.Request, name string, asOf fiscal.Date) (ledger.Schedule, error) {
	ctx := r.Context()

	debt := decimal.Zero
	if c, err := h.Store.Customer(ctx, name); err != nil {
		return ledger.Schedule{}, err
	} else if c != nil {
		debt = c.TotalDebt
	}

	payments, err := h.Store.ListByCustomer(ctx, name)
	if err != nil {
		return ledger.Schedule{}, err
	}

	return ledger.BuildSchedule(ledger.ScheduleInput{
		TotalDebt:         debt,
		ContractStartYear: h.ContractStartYear,
		Payments:          payments,
		AsOf:              asOf,
	}), nil
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListPayments returns a customer's payment history in insertion order.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	payments, err := h.Store.ListByCustomer(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payments", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTOs(payments))
}

// SubmitPayment records a new payment and returns the refreshed schedule.
// POST /api/customers/{name}/payments
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := r.Context()

	var req SubmitPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}
	if amount.IsNegative() {
		writeError(w, http.StatusBadRequest, "Amount must not be negative", nil)
		return
	}

	rec := ledger.NewPaymentRecord(
		ledger.PaymentID(uuid.NewString()), name, req.Date, amount, req.Note)

	if err := h.Store.Append(ctx, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record payment", err)
		return
	}

	// An unparseable date is accepted but worth flagging to the caller.
	if !rec.HasDate() {
		w.Header().Set("X-Payment-Date-Excluded", "true")
	}

	sched, err := h.buildSchedule(r, name, fiscal.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute schedule", err)
		return
	}

	writeJSON(w, http.StatusCreated, SubmitPaymentResponse{
		Payment:  toPaymentDTO(rec),
		Schedule: toScheduleDTO(name, fiscal.Today().String(), sched),
	})
}

// EditPayment overwrites a payment's date/amount/note.
// PUT /api/payments/{id}
func (h *Handler) EditPayment(w http.ResponseWriter, r *http.Request) {
	id := ledger.PaymentID(chi.URLParam(r, "id"))
	ctx := r.Context()

	var req EditPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, err := decimal.NewFromString(req.Amount); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	err := h.Store.Update(ctx, id, ledger.PaymentEdit{
		RawDate: req.Date,
		Amount:  req.Amount,
		Note:    req.Note,
	})
	if ledger.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Payment not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update payment", err)
		return
	}

	rec, err := h.Store.Get(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentDTO(*rec))
}

// =============================================================================
// RECEIPT HANDLER
// =============================================================================

// GetReceipt renders the PDF receipt for one payment.
// GET /api/payments/{id}/receipt?as_of=YYYY-MM-DD
func (h *Handler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	id := ledger.PaymentID(chi.URLParam(r, "id"))
	ctx := r.Context()

	rec, err := h.Store.Get(ctx, id)
	if ledger.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "Payment not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payment", err)
		return
	}

	asOf, err := asOfParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of (use YYYY-MM-DD)", err)
		return
	}

	sched, err := h.buildSchedule(r, rec.CustomerName, asOf)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute schedule", err)
		return
	}

	data := receipt.Data{CustomerName: rec.CustomerName, Payment: *rec, Schedule: sched}
	pdf, err := receipt.Render(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render receipt", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", data.FileName()))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// =============================================================================
// IMPORT HANDLERS
// =============================================================================

// ImportCustomers ingests a registry workbook (multipart field "file").
func (h *Handler) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	file, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := importer.ImportCustomers(r.Context(), file, h.Store)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Import failed", err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResultDTO{
		RowsImported: res.RowsImported,
		RowsSkipped:  res.RowsSkipped,
		Skipped:      res.Skipped,
	})
}

// ImportPayments ingests a payment workbook (multipart field "file").
func (h *Handler) ImportPayments(w http.ResponseWriter, r *http.Request) {
	file, ok := formFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	res, err := importer.ImportPayments(r.Context(), file, h.Store)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Import failed", err)
		return
	}
	writeJSON(w, http.StatusOK, ImportResultDTO{
		RowsImported: res.RowsImported,
		RowsSkipped:  res.RowsSkipped,
		Skipped:      res.Skipped,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func asOfParam(r *http.Request) (fiscal.Date, error) {
	if s := r.URL.Query().Get("as_of"); s != "" {
		return fiscal.ParseDate(s)
	}
	return fiscal.Today(), nil
}

func formFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form", err)
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field", err)
		return nil, false
	}
	return file, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

/*
handlers.go - HTTP API handlers for the rental billing engine

PURPOSE:
  Exposes the billing engine via REST. Handles HTTP request/response and
  JSON serialization, and delegates everything else to the billing
  package.

ENDPOINTS:
  Records:
    GET/POST       /api/tenants            List / create
    GET/PUT/DELETE /api/tenants/{id}       Get / update / delete
    GET            /api/tenants/{id}/statement
    GET/POST       /api/properties
    GET/PUT/DELETE /api/properties/{id}
    GET/POST       /api/payments
    GET/PUT/DELETE /api/payments/{id}

  Derived:
    GET /api/dashboard
    GET /api/reports/income
    GET /api/reports/overdue
    GET /api/reports/occupancy
    GET /api/reports/rent-income

  Snapshot:
    GET  /api/snapshot        Export all collections
    POST /api/snapshot        Import (validated, replaces all)

DESTRUCTIVE OPERATIONS:
  DELETE requires ?confirm=true. Without it the handler returns 409 and
  the store is untouched.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed input
  - 404: Record not found
  - 409: Missing delete confirmation
  - 500: Internal errors
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/rental-engine/billing"
	"github.com/warp/rental-engine/snapshot"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    billing.Store
	Engine   *billing.Engine
	Registry *billing.Registry
}

// NewHandler creates a handler over the given store.
func NewHandler(store billing.Store) *Handler {
	return &Handler{
		Store:    store,
		Engine:   billing.NewEngine(store),
		Registry: billing.NewRegistry(store),
	}
}

// =============================================================================
// TENANT HANDLERS
// =============================================================================

// ListTenants returns all tenants with property names and billing status
// resolved.
func (h *Handler) ListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenants, err := h.Store.ListTenants(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tenants", err)
		return
	}
	properties, err := h.Store.ListProperties(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list properties", err)
		return
	}
	payments, err := h.Store.ListPayments(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	reference := h.Engine.Now()
	dtos := make([]TenantDTO, len(tenants))
	for i, t := range tenants {
		dtos[i] = toTenantDTO(t, properties, billing.IsOverdue(t, payments, reference))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateTenant creates a tenant. The id is assigned by the registry.
func (h *Handler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	var req SaveTenantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	tenant, err := tenantFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tenant", err)
		return
	}
	created, err := h.Registry.AddTenant(r.Context(), tenant)
	if err != nil {
		writeDomainError(w, "Failed to create tenant", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetTenant returns a single tenant record.
func (h *Handler) GetTenant(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.Store.ListTenants(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tenants", err)
		return
	}
	tenant, ok := billing.FindTenant(tenants, billing.TenantID(chi.URLParam(r, "id")))
	if !ok {
		writeError(w, http.StatusNotFound, "Tenant not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

// UpdateTenant replaces a tenant record in place.
func (h *Handler) UpdateTenant(w http.ResponseWriter, r *http.Request) {
	var req SaveTenantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	tenant, err := tenantFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tenant", err)
		return
	}
	tenant.ID = billing.TenantID(chi.URLParam(r, "id"))
	if err := h.Registry.UpdateTenant(r.Context(), tenant); err != nil {
		writeDomainError(w, "Failed to update tenant", err)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

// DeleteTenant removes a tenant. Requires ?confirm=true.
func (h *Handler) DeleteTenant(w http.ResponseWriter, r *http.Request) {
	err := h.Registry.DeleteTenant(r.Context(),
		billing.TenantID(chi.URLParam(r, "id")), confirmed(r))
	if err != nil {
		writeDomainError(w, "Failed to delete tenant", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetStatement returns the tenant detail view: resolved property, payment
// history, due date, overdue flag, lifetime total.
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stmt, err := h.Engine.TenantStatement(ctx, billing.TenantID(chi.URLParam(r, "id")))
	if err != nil {
		writeDomainError(w, "Failed to build statement", err)
		return
	}

	properties, err := h.Store.ListProperties(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list properties", err)
		return
	}
	tenants, err := h.Store.ListTenants(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tenants", err)
		return
	}

	payments := make([]PaymentDTO, len(stmt.Payments))
	for i, p := range stmt.Payments {
		payments[i] = toPaymentDTO(p, tenants, properties)
	}

	writeJSON(w, http.StatusOK, StatementDTO{
		Tenant:    toTenantDTO(stmt.Tenant, properties, stmt.Overdue),
		Payments:  payments,
		DueDate:   stmt.DueDate.String(),
		Overdue:   stmt.Overdue,
		TotalPaid: stmt.TotalPaid,
	})
}

// =============================================================================
// PROPERTY HANDLERS
// =============================================================================

// ListProperties returns all properties with occupants resolved.
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	properties, err := h.Store.ListProperties(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list properties", err)
		return
	}
	tenants, err := h.Store.ListTenants(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tenants", err)
		return
	}

	dtos := make([]PropertyDTO, len(properties))
	for i, p := range properties {
		dto := PropertyDTO{ID: string(p.ID), Name: p.Name, Address: p.Address}
		if occupant, ok := billing.Occupant(tenants, p.ID); ok {
			dto.Occupant = occupant.Name
		}
		dtos[i] = dto
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req SavePropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	created, err := h.Registry.AddProperty(r.Context(), billing.Property{
		Name:    req.Name,
		Address: req.Address,
	})
	if err != nil {
		writeDomainError(w, "Failed to create property", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	properties, err := h.Store.ListProperties(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list properties", err)
		return
	}
	property, ok := billing.FindProperty(properties, billing.PropertyID(chi.URLParam(r, "id")))
	if !ok {
		writeError(w, http.StatusNotFound, "Property not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, property)
}

func (h *Handler) UpdateProperty(w http.ResponseWriter, r *http.Request) {
	var req SavePropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	property := billing.Property{
		ID:      billing.PropertyID(chi.URLParam(r, "id")),
		Name:    req.Name,
		Address: req.Address,
	}
	if err := h.Registry.UpdateProperty(r.Context(), property); err != nil {
		writeDomainError(w, "Failed to update property", err)
		return
	}
	writeJSON(w, http.StatusOK, property)
}

func (h *Handler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	err := h.Registry.DeleteProperty(r.Context(),
		billing.PropertyID(chi.URLParam(r, "id")), confirmed(r))
	if err != nil {
		writeDomainError(w, "Failed to delete property", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListPayments returns all payments with tenant and property names
// resolved ("N/A" on dangling references).
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	payments, err := h.Store.ListPayments(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}
	tenants, err := h.Store.ListTenants(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tenants", err)
		return
	}
	properties, err := h.Store.ListProperties(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list properties", err)
		return
	}

	dtos := make([]PaymentDTO, len(payments))
	for i, p := range payments {
		dtos[i] = toPaymentDTO(p, tenants, properties)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req SavePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	payment, err := paymentFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment", err)
		return
	}
	created, err := h.Registry.AddPayment(r.Context(), payment)
	if err != nil {
		writeDomainError(w, "Failed to create payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Store.ListPayments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}
	payment, ok := billing.FindPayment(payments, billing.PaymentID(chi.URLParam(r, "id")))
	if !ok {
		writeError(w, http.StatusNotFound, "Payment not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req SavePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	payment, err := paymentFromRequest(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payment", err)
		return
	}
	payment.ID = billing.PaymentID(chi.URLParam(r, "id"))
	if err := h.Registry.UpdatePayment(r.Context(), payment); err != nil {
		writeDomainError(w, "Failed to update payment", err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	err := h.Registry.DeletePayment(r.Context(),
		billing.PaymentID(chi.URLParam(r, "id")), confirmed(r))
	if err != nil {
		writeDomainError(w, "Failed to delete payment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// DASHBOARD & REPORT HANDLERS
// =============================================================================

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Engine.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardDTO{
		TotalTenants:    summary.TotalTenants,
		TotalProperties: summary.TotalProperties,
		MonthlyIncome:   summary.MonthlyIncome,
		OverdueTenants:  summary.OverdueTenants,
	})
}

func (h *Handler) GetIncomeReport(w http.ResponseWriter, r *http.Request) {
	totals, err := h.Engine.Income(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build income report", err)
		return
	}
	lines := make([]IncomeLineDTO, len(totals))
	for i, t := range totals {
		lines[i] = IncomeLineDTO{Month: t.Month, Income: t.Total}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *Handler) GetOverdueReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Engine.Overdue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build overdue report", err)
		return
	}
	lines := make([]OverdueLineDTO, len(report))
	for i, line := range report {
		lines[i] = OverdueLineDTO{
			TenantID:     string(line.Tenant.ID),
			TenantName:   line.Tenant.Name,
			PropertyName: line.PropertyName,
			DueDate:      line.DueDate.String(),
			AmountOwed:   line.AmountOwed,
		}
	}
	writeJSON(w, http.StatusOK, lines)
}

func (h *Handler) GetOccupancyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Engine.OccupancyRate(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build occupancy report", err)
		return
	}
	dto := OccupancyDTO{
		TotalProperties: report.TotalProperties,
		Occupied:        report.Occupied,
		Rate:            billing.UnknownRef,
		Defined:         report.Defined,
	}
	if report.Defined {
		dto.Rate = report.Rate.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) GetRentIncomeReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Engine.RentIncome(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build rent income report", err)
		return
	}
	// Report contract: only tenants with positive income are rendered.
	positive := report.Positive()
	lines := make([]RentIncomeLineDTO, len(positive))
	for i, line := range positive {
		lines[i] = RentIncomeLineDTO{
			TenantID:   string(line.TenantID),
			TenantName: line.Name,
			Income:     line.Income,
		}
	}
	writeJSON(w, http.StatusOK, RentIncomeDTO{Lines: lines, Total: report.Total})
}

// =============================================================================
// SNAPSHOT HANDLERS
// =============================================================================

// ExportSnapshot returns the full data set as a downloadable JSON document.
func (h *Handler) ExportSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := snapshot.Export(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to export snapshot", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="rental_data.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportSnapshot validates and applies a snapshot document.
func (h *Handler) ImportSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	if err := snapshot.Import(r.Context(), h.Store, data); err != nil {
		if errors.Is(err, snapshot.ErrMalformed) || errors.Is(err, snapshot.ErrMissingKey) {
			writeError(w, http.StatusBadRequest, "Invalid snapshot", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to import snapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// HELPERS
// =============================================================================

func toTenantDTO(t billing.Tenant, properties []billing.Property, overdue bool) TenantDTO {
	dto := TenantDTO{
		ID:           string(t.ID),
		Name:         t.Name,
		IDCard:       t.IDCard,
		Phone:        t.Phone,
		PropertyID:   string(t.PropertyID),
		PropertyName: billing.UnknownRef,
		Rent:         t.Rent,
		StartDate:    t.StartDate.String(),
		Overdue:      overdue,
	}
	if p, ok := billing.FindProperty(properties, t.PropertyID); ok {
		dto.PropertyName = p.Name
	}
	return dto
}

func toPaymentDTO(p billing.Payment, tenants []billing.Tenant, properties []billing.Property) PaymentDTO {
	dto := PaymentDTO{
		ID:           string(p.ID),
		TenantID:     string(p.TenantID),
		TenantName:   billing.UnknownRef,
		PropertyName: billing.UnknownRef,
		Date:         p.Date.String(),
		Amount:       p.Amount,
	}
	if tenant, ok := billing.FindTenant(tenants, p.TenantID); ok {
		dto.TenantName = tenant.Name
		if property, ok := billing.FindProperty(properties, tenant.PropertyID); ok {
			dto.PropertyName = property.Name
		}
	}
	return dto
}

func tenantFromRequest(req SaveTenantRequest) (billing.Tenant, error) {
	start, err := billing.ParseDate(req.StartDate)
	if err != nil {
		return billing.Tenant{}, err
	}
	return billing.Tenant{
		Name:       req.Name,
		IDCard:     req.IDCard,
		Phone:      req.Phone,
		PropertyID: billing.PropertyID(req.PropertyID),
		Rent:       req.Rent,
		StartDate:  start,
	}, nil
}

func paymentFromRequest(req SavePaymentRequest) (billing.Payment, error) {
	date, err := billing.ParseDate(req.Date)
	if err != nil {
		return billing.Payment{}, err
	}
	return billing.Payment{
		TenantID: billing.TenantID(req.TenantID),
		Date:     date,
		Amount:   req.Amount,
	}, nil
}

// confirmed reports whether the request carries the explicit affirmative
// confirmation required for destructive operations.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeDomainError maps billing errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case billing.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, billing.ErrConfirmationRequired):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, billing.ErrValidation):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
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

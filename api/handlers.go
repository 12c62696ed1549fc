/*
handlers.go - HTTP API handlers for the leave ledger

PURPOSE:
  Exposes the leave service via REST API. Handles HTTP request/response,
  JSON serialization, and delegates every rule to the leave package.

ENDPOINTS:
  Employees:
    GET    /api/employees                          List employees (?all=true includes inactive)
    POST   /api/employees                          Create employee
    GET    /api/employees/lookup?birth=YYMMDD      Self-service lookup by birth code
    GET    /api/employees/{id}                     Get employee
    POST   /api/employees/{id}/deactivate          Deactivate employee

  Year accounts:
    GET    /api/employees/{id}/years/{year}        Summary, requests, grants
    PUT    /api/employees/{id}/years/{year}        Set base days and carry-over
    GET    /api/employees/{id}/years/{year}/monthly Usage per month

  Leave and comp credit:
    POST   /api/employees/{id}/requests            Submit a leave request
    POST   /api/employees/{id}/comp-grants         Grant comp credit
    POST   /api/comp-grants/bulk                   Grant comp credit to many

  Reports:
    GET    /api/years/{year}/summary               Overview of active employees
    GET    /api/years/{year}/summary.xlsx          Same, as a spreadsheet

  Health:
    GET    /healthz                                 200, or 503 if the store is down

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, inactive employee
  - 404: Employee not found
  - 409: Duplicate employee name
  - 500: Internal errors

  An overdrawn balance is never an error; the request is stored and the
  negative balance is reported.

SECURITY NOTE:
  No authentication or authorization. Deploy behind an authenticating proxy.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/leave-ledger/leave"
	"github.com/warp/leave-ledger/report"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Resetter wipes a store. Demo scenarios need it.
type Resetter interface {
	Reset(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service *leave.Service
	Store   Resetter
	Logger  *slog.Logger

	mu              sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler. A nil logger discards output.
func NewHandler(svc *leave.Service, store Resetter, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handler{Service: svc, Store: store, Logger: logger}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns active employees, or all with ?all=true.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	employees, err := h.Service.ListEmployees(r.Context(), !all)
	if err != nil {
		h.writeServiceError(w, "Failed to list employees", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTOs(employees))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Service.GetEmployee(r.Context(), employeeID(r))
	if err != nil {
		h.writeServiceError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.Service.CreateEmployee(r.Context(), req.Name, req.BirthCode)
	if err != nil {
		h.writeServiceError(w, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// DeactivateEmployee hides an employee from lookups and new submissions.
func (h *Handler) DeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.DeactivateEmployee(r.Context(), employeeID(r)); err != nil {
		h.writeServiceError(w, "Failed to deactivate employee", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// LookupEmployees finds active employees by birth code. Several employees
// may share a code; the client lets the user pick.
func (h *Handler) LookupEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.FindByBirthCode(r.Context(), r.URL.Query().Get("birth"))
	if err != nil {
		h.writeServiceError(w, "Failed to look up employees", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTOs(employees))
}

// =============================================================================
// YEAR ACCOUNT HANDLERS
// =============================================================================

// GetYear returns summary, requests and grants for one employee-year.
func (h *Handler) GetYear(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	detail, err := h.Service.AccountDetail(r.Context(), employeeID(r), year)
	if err != nil {
		h.writeServiceError(w, "Failed to load year", err)
		return
	}
	writeJSON(w, http.StatusOK, toYearDetailDTO(detail))
}

// SetEntitlement sets base days and carry-over for a year.
func (h *Handler) SetEntitlement(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	var req SetEntitlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	acc, err := h.Service.SetEntitlement(r.Context(), employeeID(r), year, req.BaseDays, req.CarryOver)
	if err != nil {
		h.writeServiceError(w, "Failed to set entitlement", err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountDTO(acc))
}

// GetMonthlyUsage returns usage per "YYYY-MM" of request start dates.
func (h *Handler) GetMonthlyUsage(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	id := employeeID(r)
	months, err := h.Service.MonthlyUsage(r.Context(), id, year)
	if err != nil {
		h.writeServiceError(w, "Failed to load monthly usage", err)
		return
	}
	writeJSON(w, http.StatusOK, MonthlyUsageDTO{EmployeeID: string(id), Year: year, Months: months})
}

// =============================================================================
// REQUEST AND GRANT HANDLERS
// =============================================================================

// SubmitRequest validates, splits and stores a leave request.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		h.writeServiceError(w, "Invalid start_date (use YYYY-MM-DD)", err)
		return
	}
	end, err := parseOptionalDate("end_date", req.EndDate)
	if err != nil {
		h.writeServiceError(w, "Invalid end_date (use YYYY-MM-DD)", err)
		return
	}

	created, err := h.Service.Submit(r.Context(), leave.Submission{
		EmployeeID: employeeID(r),
		Type:       leave.LeaveType(req.Type),
		Start:      start,
		End:        end,
		HalfDay:    leave.HalfDay(req.HalfDay),
		Reason:     req.Reason,
	})
	if err != nil {
		h.writeServiceError(w, "Failed to submit request", err)
		return
	}

	observeRequest(created)
	writeJSON(w, http.StatusCreated, toRequestDTO(created))
}

// GrantComp records comp credit for one employee.
func (h *Handler) GrantComp(w http.ResponseWriter, r *http.Request) {
	var req GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeServiceError(w, "Invalid worked_date (use YYYY-MM-DD)", err)
		return
	}

	g, err := h.Service.GrantComp(r.Context(), employeeID(r), in)
	if err != nil {
		h.writeServiceError(w, "Failed to grant comp credit", err)
		return
	}

	observeGrants([]leave.CompGrant{g})
	writeJSON(w, http.StatusCreated, toGrantDTO(g))
}

// BulkGrantComp records the same grant for several employees, all or nothing.
func (h *Handler) BulkGrantComp(w http.ResponseWriter, r *http.Request) {
	var req BulkGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeServiceError(w, "Invalid worked_date (use YYYY-MM-DD)", err)
		return
	}
	ids := make([]leave.EmployeeID, len(req.EmployeeIDs))
	for i, id := range req.EmployeeIDs {
		ids[i] = leave.EmployeeID(id)
	}

	grants, err := h.Service.BulkGrant(r.Context(), ids, in)
	if err != nil {
		h.writeServiceError(w, "Failed to grant comp credit", err)
		return
	}

	observeGrants(grants)
	dtos := make([]GrantDTO, len(grants))
	for i, g := range grants {
		dtos[i] = toGrantDTO(g)
	}
	writeJSON(w, http.StatusCreated, dtos)
}

func (req GrantRequest) toInput() (leave.GrantInput, error) {
	worked, err := parseOptionalDate("worked_date", req.WorkedDate)
	if err != nil {
		return leave.GrantInput{}, err
	}
	return leave.GrantInput{
		WorkedDate: worked,
		Label:      req.Label,
		Amount:     req.Amount,
		Memo:       req.Memo,
	}, nil
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetYearOverview summarizes every active employee for a year.
func (h *Handler) GetYearOverview(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	rows, err := h.Service.YearOverview(r.Context(), year)
	if err != nil {
		h.writeServiceError(w, "Failed to build overview", err)
		return
	}

	dtos := make([]OverviewRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = OverviewRowDTO{Employee: toEmployeeDTO(row.Employee), Summary: toSummaryDTO(row.Summary)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ExportYearOverview streams the overview as an XLSX workbook.
func (h *Handler) ExportYearOverview(w http.ResponseWriter, r *http.Request) {
	year, ok := yearParam(w, r)
	if !ok {
		return
	}
	rows, err := h.Service.YearOverview(r.Context(), year)
	if err != nil {
		h.writeServiceError(w, "Failed to build overview", err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteYearOverview(&buf, year, rows); err != nil {
		h.writeServiceError(w, "Failed to render spreadsheet", err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="leave-%d.xlsx"`, year))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// readiness is implemented by stores that can check their connection.
type readiness interface {
	Ready(ctx context.Context) error
}

// Health reports 503 when the store cannot be reached.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if rs, ok := h.Store.(readiness); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := rs.Ready(ctx); err != nil {
			h.Logger.Warn("store not ready", "err", err)
			writeError(w, http.StatusServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

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

// writeServiceError maps leave errors to HTTP statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, message string, err error) {
	resp := ErrorResponse{Error: message, Details: err.Error()}
	status := http.StatusInternalServerError

	var vErr *leave.ValidationError
	switch {
	case errors.As(err, &vErr):
		status, resp.Code, resp.Field = http.StatusBadRequest, "invalid_input", vErr.Field
	case leave.IsClientError(err):
		status, resp.Code = http.StatusBadRequest, "invalid_input"
	case leave.IsNotFound(err):
		status, resp.Code = http.StatusNotFound, "not_found"
	case leave.IsConflict(err):
		status, resp.Code = http.StatusConflict, "conflict"
	default:
		h.Logger.Error(message, "err", err)
	}
	writeJSON(w, status, resp)
}

func employeeID(r *http.Request) leave.EmployeeID {
	return leave.EmployeeID(chi.URLParam(r, "id"))
}

func yearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err == nil {
		err = leave.ValidateYear(year)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return 0, false
	}
	return year, true
}

// parseOptionalDate parses YYYY-MM-DD; an empty string is the zero time.
func parseOptionalDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := leave.ParseDate(s)
	if err != nil {
		return time.Time{}, &leave.ValidationError{Field: field, Message: "date must be YYYY-MM-DD"}
	}
	return t, nil
}

func toEmployeeDTOs(employees []leave.Employee) []EmployeeDTO {
	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	return dtos
}

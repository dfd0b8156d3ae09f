package payrollhandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jung-kurt/gofpdf"

	"jobcore/internal/domain/audit"
	"jobcore/internal/domain/auth"
	"jobcore/internal/domain/payroll"
	"jobcore/internal/platform/jobs"
	"jobcore/internal/transport/http/api"
	"jobcore/internal/transport/http/middleware"
	"jobcore/internal/transport/http/shared"
)

type Handler struct {
	DB      *pgxpool.Pool
	Service *payroll.Service
	Jobs    *jobs.Service
}

func NewHandler(db *pgxpool.Pool, service *payroll.Service, jobsSvc *jobs.Service) *Handler {
	return &Handler{DB: db, Service: service, Jobs: jobsSvc}
}

type generatePayload struct {
	AsOf string `json:"asOf"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleEmployer)).Get("/periods", h.handleListPeriods)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleEmployer)).Get("/periods/{periodID}", h.handleGetPeriod)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleEmployer)).Get("/periods/{periodID}/export/register", h.handleExportRegister)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Post("/periods/generate", h.handleGenerateAll)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleEmployer)).Post("/employers/{employerID}/periods/generate", h.handleGenerate)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleEmployer)).Get("/employers/{employerID}/projection", h.handleProjection)
		r.Get("/payments", h.handleEmployeePayments)
	})
}

func (h *Handler) handleListPeriods(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	filter := payroll.PeriodFilter{
		EmployerID: r.URL.Query().Get("employer"),
		Status:     r.URL.Query().Get("status"),
	}
	if !user.IsAdmin() {
		// Employers only ever see their own periods.
		filter.EmployerID = user.EmployerID
	}
	page := shared.ParsePagination(r, 50, 200)

	periods, total, err := h.Service.ListPeriods(r.Context(), filter, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "periods_list_failed", "failed to list payroll periods", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"periods": periods,
		"total":   total,
		"limit":   page.Limit,
		"offset":  page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetPeriod(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	period, err := h.Service.GetPeriod(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		h.failPayroll(w, r, err, "period_get_failed", "failed to load payroll period")
		return
	}
	if !user.CanActFor(period.EmployerID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, period, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employerID := chi.URLParam(r, "employerID")
	if !user.CanActFor(employerID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("generate payload decode failed: %v", err)
	}
	asOf, err := parseAsOf(payload.AsOf)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "asOf must be RFC3339 or YYYY-MM-DD", middleware.GetRequestID(r.Context()))
		return
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")
	requestHash := middleware.RequestHash([]byte(employerID + "|" + asOf.Format(time.RFC3339)))
	if idempotencyKey != "" && h.DB != nil {
		stored, found, err := middleware.CheckIdempotency(r.Context(), h.DB, user.UserID, "payroll.periods.generate", idempotencyKey, requestHash)
		if errors.Is(err, middleware.ErrIdempotencyConflict) {
			api.Fail(w, http.StatusConflict, "idempotency_conflict", "idempotency key was used with a different request", middleware.GetRequestID(r.Context()))
			return
		}
		if err != nil {
			log.Printf("idempotency check failed: %v", err)
		}
		if found {
			api.Success(w, json.RawMessage(stored), middleware.GetRequestID(r.Context()))
			return
		}
	}

	periods, err := h.generate(r.Context(), employerID, asOf)
	if err != nil {
		// Committed periods stand even when a later one failed; surface both.
		h.failPayroll(w, r, err, "generation_failed", "payroll period generation failed")
		return
	}

	if h.DB != nil {
		if err := audit.New(h.DB).Record(r.Context(), user.UserID, employerID, "payroll.periods.generate", "payroll_period", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"asOf": asOf, "committed": len(periods)}); err != nil {
			log.Printf("audit payroll.periods.generate failed: %v", err)
		}
	}

	response := map[string]any{"periods": periods, "committed": len(periods)}
	if idempotencyKey != "" && h.DB != nil {
		encoded, err := json.Marshal(response)
		if err != nil {
			log.Printf("idempotency response marshal failed: %v", err)
		} else if err := middleware.SaveIdempotency(r.Context(), h.DB, user.UserID, "payroll.periods.generate", idempotencyKey, requestHash, encoded); err != nil {
			log.Printf("idempotency save failed: %v", err)
		}
	}
	api.Created(w, response, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGenerateAll(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload generatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("generate-all payload decode failed: %v", err)
	}
	asOf, err := parseAsOf(payload.AsOf)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "asOf must be RFC3339 or YYYY-MM-DD", middleware.GetRequestID(r.Context()))
		return
	}

	periods, err := h.Service.GenerateAllPeriods(r.Context(), asOf)
	response := map[string]any{"periods": periods, "committed": len(periods)}
	if err != nil {
		// Partial result: some employers generated, some failed.
		response["error"] = err.Error()
	}

	if h.DB != nil {
		if auditErr := audit.New(h.DB).Record(r.Context(), user.UserID, "", "payroll.periods.generate_all", "payroll_period", "", middleware.GetRequestID(r.Context()), shared.ClientIP(r), nil, map[string]any{"asOf": asOf, "committed": len(periods)}); auditErr != nil {
			log.Printf("audit payroll.periods.generate_all failed: %v", auditErr)
		}
	}
	api.Success(w, response, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employerID := chi.URLParam(r, "employerID")
	if !user.CanActFor(employerID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	query := r.URL.Query()
	start, err := shared.ParseDate(query.Get("start"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "start must be RFC3339 or YYYY-MM-DD", middleware.GetRequestID(r.Context()))
		return
	}
	days := 0
	if raw := query.Get("days"); raw != "" {
		if _, convErr := fmt.Sscanf(raw, "%d", &days); convErr != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "days must be a number", middleware.GetRequestID(r.Context()))
			return
		}
	}
	unit := query.Get("unit")
	if unit == "" {
		unit = payroll.PeriodTypeDays
	}

	projection, err := h.Service.ProjectPayments(r.Context(), employerID, start, days, unit, query.Get("employee"))
	if err != nil {
		h.failPayroll(w, r, err, "projection_failed", "failed to project payments")
		return
	}
	api.Success(w, map[string]any{"days": projection}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleEmployeePayments(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	query := r.URL.Query()
	employeeID := query.Get("employee")
	if user.Role == auth.RoleTalent {
		// Talents only ever see their own payments.
		employeeID = user.EmployeeID
	}
	from, err := shared.ParseDate(query.Get("start"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "start must be RFC3339 or YYYY-MM-DD", middleware.GetRequestID(r.Context()))
		return
	}
	employerID := query.Get("employer")
	if user.Role == auth.RoleEmployer {
		employerID = user.EmployerID
	}

	payments, err := h.Service.EmployeePayments(r.Context(), employeeID, from, employerID)
	if err != nil {
		h.failPayroll(w, r, err, "payments_list_failed", "failed to list payments")
		return
	}
	api.Success(w, payments, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	period, err := h.Service.GetPeriod(r.Context(), chi.URLParam(r, "periodID"))
	if err != nil {
		h.failPayroll(w, r, err, "export_failed", "failed to export register")
		return
	}
	if !user.CanActFor(period.EmployerID) {
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", middleware.GetRequestID(r.Context()))
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payroll Register")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s",
		period.StartingAt.Format("2006-01-02 15:04:05"), period.EndingAt.Format("2006-01-02 15:04:05")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(45, 8, "Employee", "1", 0, "", false, 0, "")
	pdf.CellFormat(30, 8, "Regular hrs", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Overtime hrs", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Rate", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, payment := range period.Payments {
		pdf.CellFormat(45, 8, payment.EmployeeID, "1", 0, "", false, 0, "")
		pdf.CellFormat(30, 8, payment.RegularHours.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, payment.OverTime.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, payment.HourlyRate.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, payment.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=payroll-register.pdf")
	if err := pdf.Output(w); err != nil {
		log.Printf("register pdf write failed: %v", err)
	}
}

// generate routes manual triggers through the job runner when one is wired,
// so they leave the same job_runs trail as scheduled sweeps.
func (h *Handler) generate(ctx context.Context, employerID string, asOf time.Time) ([]payroll.PeriodWithPayments, error) {
	if h.Jobs == nil {
		return h.Service.GeneratePeriods(ctx, employerID, asOf)
	}
	result, err := h.Jobs.RunNow(ctx, jobs.JobPeriodGeneration, employerID, func(ctx context.Context) (any, error) {
		return h.Service.GeneratePeriods(ctx, employerID, asOf)
	})
	periods, _ := result.([]payroll.PeriodWithPayments)
	return periods, err
}

func (h *Handler) failPayroll(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, payroll.ErrUnsupportedPeriodType):
		api.Fail(w, http.StatusBadRequest, "unsupported_period_type", payroll.ErrUnsupportedPeriodType.Error(), requestID)
	case errors.Is(err, payroll.ErrMissingParameter):
		api.Fail(w, http.StatusBadRequest, "missing_parameter", payroll.ErrMissingParameter.Error(), requestID)
	case errors.Is(err, payroll.ErrEmployerNotFound):
		api.Fail(w, http.StatusNotFound, "employer_not_found", payroll.ErrEmployerNotFound.Error(), requestID)
	case errors.Is(err, payroll.ErrPeriodNotFound):
		api.Fail(w, http.StatusNotFound, "period_not_found", payroll.ErrPeriodNotFound.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}

// parseAsOf resolves the explicit generation cutoff; empty means now.
func parseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return shared.ParseDate(raw)
}

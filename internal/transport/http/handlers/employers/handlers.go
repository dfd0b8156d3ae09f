package employershandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobcore/internal/domain/audit"
	"jobcore/internal/domain/auth"
	"jobcore/internal/domain/employers"
	"jobcore/internal/domain/notifications"
	"jobcore/internal/transport/http/api"
	"jobcore/internal/transport/http/middleware"
	"jobcore/internal/transport/http/shared"
)

type Handler struct {
	DB            *pgxpool.Pool
	Service       *employers.Service
	Notifications *notifications.Service
}

func NewHandler(db *pgxpool.Pool, service *employers.Service, notificationsSvc *notifications.Service) *Handler {
	return &Handler{DB: db, Service: service, Notifications: notificationsSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employers", func(r chi.Router) {
		r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/", h.handleList)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleEmployer)).Get("/{employerID}", h.handleGet)
		r.With(middleware.RequireRole(auth.RoleAdmin, auth.RoleEmployer)).Put("/{employerID}", h.handleUpdate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page := shared.ParsePagination(r, 50, 200)
	list, total, err := h.Service.List(r.Context(), page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "employers_list_failed", "failed to list employers", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"employers": list,
		"total":     total,
		"limit":     page.Limit,
		"offset":    page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
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

	employer, err := h.Service.Get(r.Context(), employerID)
	if err != nil {
		h.failEmployers(w, r, err, "employer_get_failed", "failed to load employer")
		return
	}
	api.Success(w, employer, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
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

	var payload employers.UpdateInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body must be valid JSON", middleware.GetRequestID(r.Context()))
		return
	}

	before, err := h.Service.Get(r.Context(), employerID)
	if err != nil {
		h.failEmployers(w, r, err, "employer_get_failed", "failed to load employer")
		return
	}

	updated, err := h.Service.Update(r.Context(), employerID, payload)
	if err != nil {
		h.failEmployers(w, r, err, "employer_update_failed", "failed to update employer")
		return
	}

	if h.DB != nil {
		if err := audit.New(h.DB).Record(r.Context(), user.UserID, employerID, "employers.update", "employer", employerID, middleware.GetRequestID(r.Context()), shared.ClientIP(r), before, updated); err != nil {
			log.Printf("audit employers.update failed: %v", err)
		}
	}
	if h.Notifications != nil {
		body := fmt.Sprintf("Payroll settings are now %d %s starting at %s.", updated.PeriodLength, updated.PeriodType, updated.PeriodStartAt)
		if err := h.Notifications.Create(r.Context(), employerID, notifications.TypeSettingsUpdated, "Payroll settings updated", body); err != nil {
			log.Printf("settings-updated notification failed: %v", err)
		}
	}
	api.Success(w, updated, middleware.GetRequestID(r.Context()))
}

func (h *Handler) failEmployers(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	requestID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, employers.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "employer_not_found", employers.ErrNotFound.Error(), requestID)
	case errors.Is(err, employers.ErrNothingToUpdate):
		api.Fail(w, http.StatusBadRequest, "nothing_to_update", employers.ErrNothingToUpdate.Error(), requestID)
	case errors.Is(err, employers.ErrInvalidPeriodLength),
		errors.Is(err, employers.ErrInvalidPeriodType),
		errors.Is(err, employers.ErrInvalidStartingTime):
		api.Fail(w, http.StatusBadRequest, "invalid_payroll_settings", err.Error(), requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, code, message, requestID)
	}
}

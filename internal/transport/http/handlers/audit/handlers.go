package audithandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"jobcore/internal/domain/audit"
	"jobcore/internal/domain/auth"
	"jobcore/internal/transport/http/api"
	"jobcore/internal/transport/http/middleware"
	"jobcore/internal/transport/http/shared"
)

type Handler struct {
	Service *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole(auth.RoleAdmin)).Get("/audit", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := audit.Filter{
		EmployerID: query.Get("employer"),
		Action:     query.Get("action"),
		EntityType: query.Get("entityType"),
		Actor:      query.Get("actor"),
	}
	includeDetails := query.Get("includeDetails") == "true"
	page := shared.ParsePagination(r, 50, 200)

	events, err := h.Service.List(r.Context(), filter, includeDetails, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to list audit events", middleware.GetRequestID(r.Context()))
		return
	}
	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_list_failed", "failed to count audit events", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"events": events,
		"total":  total,
		"limit":  page.Limit,
		"offset": page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

package notificationshandler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"jobcore/internal/domain/auth"
	"jobcore/internal/domain/notifications"
	"jobcore/internal/transport/http/api"
	"jobcore/internal/transport/http/middleware"
	"jobcore/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleEmployer))
		r.Get("/", h.handleList)
		r.Post("/{notificationID}/read", h.handleMarkRead)
		r.Get("/settings", h.handleGetSettings)
		r.Put("/settings", h.handleUpdateSettings)
	})
}

// scopedEmployer resolves which employer's notifications the caller may see.
// Admins may target any employer via the query string.
func scopedEmployer(r *http.Request, user auth.UserContext) string {
	if user.IsAdmin() {
		if target := r.URL.Query().Get("employer"); target != "" {
			return target
		}
	}
	return user.EmployerID
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employerID := scopedEmployer(r, user)
	if employerID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_parameter", "employer is required", middleware.GetRequestID(r.Context()))
		return
	}
	page := shared.ParsePagination(r, 50, 200)

	list, err := h.Service.List(r.Context(), employerID, page.Limit, page.Offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_list_failed", "failed to list notifications", middleware.GetRequestID(r.Context()))
		return
	}
	total, err := h.Service.Count(r.Context(), employerID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "notifications_list_failed", "failed to count notifications", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"notifications": list,
		"total":         total,
		"limit":         page.Limit,
		"offset":        page.Offset,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employerID := scopedEmployer(r, user)
	if employerID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_parameter", "employer is required", middleware.GetRequestID(r.Context()))
		return
	}

	if err := h.Service.MarkRead(r.Context(), employerID, chi.URLParam(r, "notificationID")); err != nil {
		api.Fail(w, http.StatusNotFound, "notification_not_found", "notification not found", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"read": true}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employerID := scopedEmployer(r, user)
	if employerID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_parameter", "employer is required", middleware.GetRequestID(r.Context()))
		return
	}

	enabled, from, err := h.Service.GetSettings(r.Context(), employerID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_get_failed", "failed to load notification settings", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"emailNotificationsEnabled": enabled,
		"emailFrom":                 from,
	}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	employerID := scopedEmployer(r, user)
	if employerID == "" {
		api.Fail(w, http.StatusBadRequest, "missing_parameter", "employer is required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload struct {
		EmailNotificationsEnabled bool   `json:"emailNotificationsEnabled"`
		EmailFrom                 string `json:"emailFrom"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "request body must be valid JSON", middleware.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	if from := strings.TrimSpace(payload.EmailFrom); from != "" && !strings.Contains(from, "@") {
		v.Add("emailFrom", "must be a valid email address")
	}
	if v.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	if err := h.Service.UpdateSettings(r.Context(), employerID, payload.EmailNotificationsEnabled, payload.EmailFrom); err != nil {
		api.Fail(w, http.StatusInternalServerError, "settings_update_failed", "failed to update notification settings", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"emailNotificationsEnabled": payload.EmailNotificationsEnabled,
		"emailFrom":                 payload.EmailFrom,
	}, middleware.GetRequestID(r.Context()))
}

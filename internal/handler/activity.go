package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/mergington/activities-service/internal/service"
)

// ActivityHandler обрабатывает эндпоинты реестра занятий
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler создает новый ActivityHandler
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// ListActivities обрабатывает GET /activities
func (h *ActivityHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.List(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, activities)
}

// Signup обрабатывает POST /activities/{activity_name}/signup?email=...
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	name, email, ok := h.parseSignupRequest(w, r)
	if !ok {
		return
	}

	if err := h.activityService.Signup(r.Context(), name, email); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Signed up %s for %s", email, name),
	})
}

// Unregister обрабатывает DELETE /activities/{activity_name}/signup?email=...
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	name, email, ok := h.parseSignupRequest(w, r)
	if !ok {
		return
	}

	if err := h.activityService.Unregister(r.Context(), name, email); err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Removed %s from %s", email, name),
	})
}

// parseSignupRequest извлекает название занятия из пути и email из query.
// Название в пути приходит percent-encoded и декодируется перед поиском в реестре
func (h *ActivityHandler) parseSignupRequest(w http.ResponseWriter, r *http.Request) (name, email string, ok bool) {
	name, err := url.PathUnescape(chi.URLParam(r, "activity_name"))
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid activity name")
		return "", "", false
	}

	email = r.URL.Query().Get("email")
	if email == "" {
		RespondWithError(w, r, http.StatusBadRequest, "email query parameter is required")
		return "", "", false
	}

	return name, email, true
}

package handler

import (
	"net/http"

	"github.com/mergington/activities-service/internal/service"
)

// StatsHandler обрабатывает эндпоинты статистики записей
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler создает новый StatsHandler
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// GetStats обрабатывает GET /stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.GetStats(r.Context())
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}

// GetActivityStats обрабатывает GET /stats/activity?name=...
func (h *StatsHandler) GetActivityStats(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		RespondWithError(w, r, http.StatusBadRequest, "name query parameter is required")
		return
	}

	stats, err := h.statsService.GetActivityStats(r.Context(), name)
	if err != nil {
		HandleError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, stats)
}

package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mergington/activities-service/internal/domain"
)

// ErrorResponse представляет ответ с ошибкой.
// Формат {"detail": "..."} сохранен для совместимости с существующими клиентами
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// RespondWithError отправляет ответ с ошибкой
func RespondWithError(w http.ResponseWriter, r *http.Request, statusCode int, detail string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{Detail: detail})
}

// HandleError преобразует доменные ошибки в HTTP ответы
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		RespondWithError(w, r, http.StatusNotFound, "Activity not found")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		RespondWithError(w, r, http.StatusBadRequest, "Student is already signed up")
	case errors.Is(err, domain.ErrNotRegistered):
		RespondWithError(w, r, http.StatusNotFound, "Student is not registered for this activity")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidToken):
		RespondWithError(w, r, http.StatusUnauthorized, "Invalid authentication credentials")
	default:
		RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mergington/activities-service/internal/service"
)

// ContextKey это кастомный тип для ключей контекста
type ContextKey string

const (
	// UsernameKey ключ контекста для имени сотрудника
	UsernameKey ContextKey = "username"
)

// AuthMiddleware создает middleware для валидации JWT токенов персонала
func AuthMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Получаем токен из заголовка Authorization
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondUnauthorized(w, "Not authenticated")
				return
			}

			// Проверяем формат Bearer
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondUnauthorized(w, "Invalid authorization header format")
				return
			}

			// Валидируем токен
			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				respondUnauthorized(w, "Invalid or expired token")
				return
			}

			// Добавляем claims в контекст
			ctx := context.WithValue(r.Context(), UsernameKey, claims.Username)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail":"` + detail + `"}`))
}

// GetUsernameFromContext извлекает имя сотрудника из контекста
func GetUsernameFromContext(ctx context.Context) string {
	username, ok := ctx.Value(UsernameKey).(string)
	if !ok {
		return ""
	}
	return username
}

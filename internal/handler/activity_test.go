package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-service/internal/handler"
	"github.com/mergington/activities-service/internal/middleware"
	"github.com/mergington/activities-service/internal/repository/memory"
	"github.com/mergington/activities-service/internal/seed"
	"github.com/mergington/activities-service/internal/service"
)

// newTestRouter собирает роутер с теми же маршрутами, что и приложение,
// поверх свежего реестра в памяти
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	repo := memory.NewActivityRepository()
	require.NoError(t, repo.Seed(context.Background(), seed.Activities()))

	activityService := service.NewActivityService(repo)
	statsService := service.NewStatsService(repo)
	authService := service.NewAuthService("principal", "mergington", "test-secret", time.Hour)

	activityHandler := handler.NewActivityHandler(activityService)
	statsHandler := handler.NewStatsHandler(statsService)
	authHandler := handler.NewAuthHandler(authService)

	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
	})
	r.Get("/activities", activityHandler.ListActivities)
	r.Route("/activities/{activity_name}", func(r chi.Router) {
		r.Post("/signup", activityHandler.Signup)
		r.Delete("/signup", activityHandler.Unregister)
	})
	r.Post("/auth/login", authHandler.Login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(authService))
		r.Get("/stats", statsHandler.GetStats)
	})

	return r
}

func doRequest(t *testing.T, router http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRootRedirectsToStatic(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/")

	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/static/index.html", rec.Header().Get("Location"))
}

func TestListActivities(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, rec.Code)

	var activities map[string]struct {
		Description     string    `json:"description"`
		Schedule        string    `json:"schedule"`
		MaxParticipants int       `json:"max_participants"`
		Participants    *[]string `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &activities))

	require.Contains(t, activities, "Chess Club")

	// У каждого занятия присутствуют все четыре поля
	for name, activity := range activities {
		assert.NotEmpty(t, activity.Description, name)
		assert.NotEmpty(t, activity.Schedule, name)
		assert.Positive(t, activity.MaxParticipants, name)
		assert.NotNil(t, activity.Participants, name)
	}

	assert.Contains(t, *activities["Chess Club"].Participants, "michael@mergington.edu")
}

func TestSignup(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/activities/Tennis%20Club/signup?email=newtest@mergington.edu")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["message"], "newtest@mergington.edu")

	// Участник появился в списке занятия
	listRec := doRequest(t, router, http.MethodGet, "/activities")
	var activities map[string]struct {
		Participants []string `json:"participants"`
	}
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &activities))
	assert.Contains(t, activities["Tennis Club"].Participants, "newtest@mergington.edu")
}

func TestSignup_ActivityNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/activities/Fake%20Activity/signup?email=test@mergington.edu")

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Activity not found", body["detail"])
}

func TestSignup_DuplicateEmail(t *testing.T) {
	router := newTestRouter(t)

	// michael@ уже записан в Chess Club стартовым каталогом
	rec := doRequest(t, router, http.MethodPost, "/activities/Chess%20Club/signup?email=michael@mergington.edu")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["detail"], "already signed up")
}

func TestSignup_RepeatedCallRejected(t *testing.T) {
	router := newTestRouter(t)

	first := doRequest(t, router, http.MethodPost, "/activities/Tennis%20Club/signup?email=repeat@mergington.edu")
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, router, http.MethodPost, "/activities/Tennis%20Club/signup?email=repeat@mergington.edu")
	require.Equal(t, http.StatusBadRequest, second.Code)
	assert.Contains(t, decodeBody(t, second)["detail"], "already signed up")
}

func TestSignup_MissingEmail(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/activities/Tennis%20Club/signup")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnregister(t *testing.T) {
	router := newTestRouter(t)

	signupRec := doRequest(t, router, http.MethodPost, "/activities/Drama%20Club/signup?email=temporary@mergington.edu")
	require.Equal(t, http.StatusOK, signupRec.Code)

	removeRec := doRequest(t, router, http.MethodDelete, "/activities/Drama%20Club/signup?email=temporary@mergington.edu")
	require.Equal(t, http.StatusOK, removeRec.Code)
	assert.Contains(t, decodeBody(t, removeRec)["message"], "Removed")
}

func TestUnregister_ActivityNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodDelete, "/activities/Fake%20Activity/signup?email=test@mergington.edu")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Activity not found", decodeBody(t, rec)["detail"])
}

func TestUnregister_NotRegistered(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodDelete, "/activities/Chess%20Club/signup?email=notregistered@mergington.edu")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["detail"], "not registered")
}

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тестовые структуры данных соответствующие API
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type StatsResponse struct {
	TotalActivities   int `json:"total_activities"`
	TotalParticipants int `json:"total_participants"`
	Activities        []struct {
		Activity        string `json:"activity"`
		Participants    int    `json:"participants"`
		MaxParticipants int    `json:"max_participants"`
		SpotsLeft       int    `json:"spots_left"`
	} `json:"activities"`
}

// TestE2E_ActivitiesWorkflow тестирует полный workflow сервиса записи на занятия
// поверх postgres-бэкенда реестра
func TestE2E_ActivitiesWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Настраиваем тестовое окружение
	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	// Ждем пока приложение будет готово
	env.WaitForHealthCheck(t)

	t.Run("Root Redirects To Static Page", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/", nil, "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
		assert.Equal(t, "/static/index.html", resp.Header.Get("Location"))
	})

	t.Run("List Activities", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/activities", nil, "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var activities map[string]Activity
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&activities))

		// Стартовый каталог на месте
		require.Contains(t, activities, "Chess Club")
		require.Contains(t, activities, "Tennis Club")
		require.Contains(t, activities, "Drama Club")
		assert.Contains(t, activities["Chess Club"].Participants, "michael@mergington.edu")

		for name, activity := range activities {
			assert.NotEmpty(t, activity.Description, name)
			assert.NotEmpty(t, activity.Schedule, name)
			assert.Positive(t, activity.MaxParticipants, name)
		}
	})

	t.Run("Signup For Activity", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodPost, "/activities/Tennis%20Club/signup?email=newtest@mergington.edu", nil, "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var msg MessageResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
		assert.Contains(t, msg.Message, "newtest@mergington.edu")
	})

	t.Run("Duplicate Signup Rejected", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodPost, "/activities/Tennis%20Club/signup?email=newtest@mergington.edu", nil, "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var errResp ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Contains(t, errResp.Detail, "already signed up")
	})

	t.Run("Signup For Nonexistent Activity", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodPost, "/activities/Fake%20Activity/signup?email=test@mergington.edu", nil, "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		var errResp ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Equal(t, "Activity not found", errResp.Detail)
	})

	t.Run("Unregister From Activity", func(t *testing.T) {
		// Сначала записываем временного участника
		addResp := env.MakeRequest(t, http.MethodPost, "/activities/Drama%20Club/signup?email=temporary@mergington.edu", nil, "")
		addResp.Body.Close()
		require.Equal(t, http.StatusOK, addResp.StatusCode)

		// Затем отписываем
		removeResp := env.MakeRequest(t, http.MethodDelete, "/activities/Drama%20Club/signup?email=temporary@mergington.edu", nil, "")
		defer removeResp.Body.Close()

		require.Equal(t, http.StatusOK, removeResp.StatusCode)

		var msg MessageResponse
		require.NoError(t, json.NewDecoder(removeResp.Body).Decode(&msg))
		assert.Contains(t, msg.Message, "Removed")
	})

	t.Run("Unregister Not Registered", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodDelete, "/activities/Chess%20Club/signup?email=notregistered@mergington.edu", nil, "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		var errResp ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
		assert.Contains(t, errResp.Detail, "not registered")
	})

	// Статистика доступна только персоналу
	var token string
	t.Run("Staff Login", func(t *testing.T) {
		body, _ := json.Marshal(LoginRequest{Username: "principal", Password: "mergington"})
		resp := env.MakeRequest(t, http.MethodPost, "/auth/login", bytes.NewReader(body), "")
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var loginResp LoginResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginResp))
		require.NotEmpty(t, loginResp.Token)

		token = loginResp.Token
	})

	t.Run("Stats Without Token Rejected", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/stats", nil, "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Stats With Token", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/stats", nil, token)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats StatsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		assert.Equal(t, 10, stats.TotalActivities)
		assert.Positive(t, stats.TotalParticipants)
		assert.Len(t, stats.Activities, 10)
	})

	t.Run("Metrics Exposed", func(t *testing.T) {
		resp := env.MakeRequest(t, http.MethodGet, "/metrics", nil, "")
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

// TestE2E_SeedSurvivesRestart проверяет что повторная инициализация
// не перезаписывает списки участников в базе
func TestE2E_SeedSurvivesRestart(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	env := SetupTestEnvironment(t)
	defer env.Cleanup(t)

	env.WaitForHealthCheck(t)

	resp := env.MakeRequest(t, http.MethodPost, "/activities/Math%20Club/signup?email=persistent@mergington.edu", nil, "")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Рестарт приложения поверх той же базы запускает Seed повторно
	env.RestartApp(t)

	listResp := env.MakeRequest(t, http.MethodGet, "/activities", nil, "")
	defer listResp.Body.Close()

	var activities map[string]Activity
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&activities))
	assert.Contains(t, activities["Math Club"].Participants, "persistent@mergington.edu")
}

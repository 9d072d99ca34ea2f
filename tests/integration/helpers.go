package integration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mergington/activities-service/internal/app"
	"github.com/mergington/activities-service/internal/config"
)

// TestEnvironment содержит все ресурсы необходимые для интеграционных тестов
type TestEnvironment struct {
	PostgresContainer *postgres.PostgresContainer
	App               *app.App
	Config            *config.Config
	BaseURL           string
	ctx               context.Context
}

// SetupTestEnvironment создает и инициализирует полное тестовое окружение:
// контейнер PostgreSQL, миграции, приложение с postgres-бэкендом реестра
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	ctx := context.Background()

	// Запускаем PostgreSQL контейнер
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("activities_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	// Получаем строку подключения
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	// Применяем миграции
	applyMigrations(t, connStr)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	// Используем высокий порт для тестов чтобы избежать конфликтов
	testPort := "18080"
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:      testPort,
			Host:      "127.0.0.1",
			StaticDir: filepath.Join(findProjectRoot(t), "static"),
		},
		Storage: config.StorageConfig{
			Backend: config.BackendPostgres,
			Postgres: config.PostgresConfig{
				Host:     host,
				Port:     port.Port(),
				User:     "test_user",
				Password: "test_password",
				Name:     "activities_test",
				SSLMode:  "disable",
				MaxConns: 25,
				MinConns: 5,
			},
		},
		Auth: config.AuthConfig{
			JWTSecret:       "test-jwt-secret-key-for-integration-tests",
			ExpirationHours: 24,
			StaffUsername:   "principal",
			StaffPassword:   "mergington",
		},
	}

	// Создаем и инициализируем приложение
	application, err := app.New(cfg)
	require.NoError(t, err, "Failed to create application")

	err = application.Initialize(ctx)
	require.NoError(t, err, "Failed to initialize application")

	// Запускаем сервер в фоне
	serverStarted := make(chan bool, 1)
	go func() {
		serverStarted <- true
		if err := application.Run(); err != nil && err != http.ErrServerClosed {
			t.Logf("Server error: %v", err)
		}
	}()

	<-serverStarted
	time.Sleep(500 * time.Millisecond)

	baseURL := fmt.Sprintf("http://%s:%s", cfg.Server.Host, testPort)

	return &TestEnvironment{
		PostgresContainer: pgContainer,
		App:               application,
		Config:            cfg,
		BaseURL:           baseURL,
		ctx:               ctx,
	}
}

// RestartApp останавливает приложение и поднимает новое с той же конфигурацией,
// эмулируя рестарт процесса против той же базы
func (te *TestEnvironment) RestartApp(t *testing.T) {
	t.Helper()

	shutdownCtx, cancel := context.WithTimeout(te.ctx, 10*time.Second)
	defer cancel()
	require.NoError(t, te.App.Shutdown(shutdownCtx), "Failed to shutdown application")

	application, err := app.New(te.Config)
	require.NoError(t, err, "Failed to create application")
	require.NoError(t, application.Initialize(te.ctx), "Failed to initialize application")

	go func() {
		if err := application.Run(); err != nil && err != http.ErrServerClosed {
			t.Logf("Server error: %v", err)
		}
	}()

	te.App = application
	te.WaitForHealthCheck(t)
}

// Cleanup освобождает все ресурсы тестового окружения
func (te *TestEnvironment) Cleanup(t *testing.T) {
	t.Helper()

	shutdownCtx, cancel := context.WithTimeout(te.ctx, 10*time.Second)
	defer cancel()

	if err := te.App.Shutdown(shutdownCtx); err != nil {
		t.Logf("Failed to shutdown application: %v", err)
	}

	if err := te.PostgresContainer.Terminate(te.ctx); err != nil {
		t.Logf("Failed to terminate postgres container: %v", err)
	}
}

// applyMigrations применяет SQL миграции из директории migrations по порядку
func applyMigrations(t *testing.T, connStr string) {
	t.Helper()

	db, err := sql.Open("pgx", connStr)
	require.NoError(t, err, "Failed to open database connection")
	defer db.Close()

	migrationsDir := filepath.Join(findProjectRoot(t), "migrations")
	entries, err := os.ReadDir(migrationsDir)
	require.NoError(t, err, "Failed to read migrations directory")

	var files []string
	for _, entry := range entries {
		if filepath.Ext(entry.Name()) == ".sql" {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		contents, err := os.ReadFile(filepath.Join(migrationsDir, file))
		require.NoError(t, err, "Failed to read migration %s", file)

		_, err = db.Exec(string(contents))
		require.NoError(t, err, "Failed to apply migration %s", file)
	}
}

// findProjectRoot находит корень проекта по go.mod
func findProjectRoot(t *testing.T) string {
	t.Helper()

	// Поднимаемся по директориям пока не найдем go.mod
	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod not found)")
		}
		dir = parent
	}
}

// MakeRequest вспомогательная функция для HTTP запросов в тестах
func (te *TestEnvironment) MakeRequest(t *testing.T, method, path string, body io.Reader, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, te.BaseURL+path, body)
	require.NoError(t, err, "Failed to create request")

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Редиректы проверяем явно, не следуем им
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "Failed to make request")

	return resp
}

// WaitForHealthCheck ждет пока приложение станет доступным
func (te *TestEnvironment) WaitForHealthCheck(t *testing.T) {
	t.Helper()

	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := http.Get(te.BaseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatal("Application did not become healthy in time")
}

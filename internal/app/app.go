package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mergington/activities-service/internal/config"
	"github.com/mergington/activities-service/internal/handler"
	"github.com/mergington/activities-service/internal/middleware"
	"github.com/mergington/activities-service/internal/repository"
	"github.com/mergington/activities-service/internal/repository/memory"
	"github.com/mergington/activities-service/internal/repository/postgres"
	redisrepo "github.com/mergington/activities-service/internal/repository/redis"
	"github.com/mergington/activities-service/internal/seed"
	"github.com/mergington/activities-service/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config       *config.Config
	activityRepo repository.ActivityRepository
	db           *pgxpool.Pool
	redisClient  *goredis.Client
	server       *http.Server
	logger       *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Выбираем и подключаем хранилище реестра
	if err := a.setupStorage(ctx); err != nil {
		return fmt.Errorf("failed to set up storage: %w", err)
	}

	// Наполняем реестр стартовым каталогом занятий
	if err := a.activityRepo.Seed(ctx, seed.Activities()); err != nil {
		return fmt.Errorf("failed to seed activities: %w", err)
	}

	// Настраиваем HTTP сервер и роутинг
	a.setupServer()

	a.logger.Info("Application initialized successfully", "backend", a.config.Storage.Backend)
	return nil
}

// setupStorage создает репозиторий реестра согласно STORAGE_BACKEND
func (a *App) setupStorage(ctx context.Context) error {
	switch a.config.Storage.Backend {
	case config.BackendMemory:
		a.activityRepo = memory.NewActivityRepository()

	case config.BackendPostgres:
		pool, err := a.connectDB(ctx)
		if err != nil {
			return err
		}
		a.db = pool
		a.activityRepo = postgres.NewActivityRepository(pool)

	case config.BackendRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr: a.config.Storage.Redis.Addr,
			DB:   a.config.Storage.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		a.redisClient = client
		a.activityRepo = redisrepo.NewActivityRepository(client)

	default:
		return fmt.Errorf("unknown storage backend %q", a.config.Storage.Backend)
	}

	a.logger.Info("Storage configured", "backend", a.config.Storage.Backend)
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(a.config.Storage.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Storage.Postgres.MaxConns
	poolConfig.MinConns = a.config.Storage.Postgres.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	a.logger.Info("Connected to database")
	return pool, nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() {
	// Инициализируем слой сервисов (бизнес-логика)
	activityService := service.NewActivityService(a.activityRepo)
	statsService := service.NewStatsService(a.activityRepo)
	authService := service.NewAuthService(
		a.config.Auth.StaffUsername,
		a.config.Auth.StaffPassword,
		a.config.Auth.JWTSecret,
		a.config.Auth.GetExpiration(),
	)

	// Инициализируем HTTP обработчики
	activityHandler := handler.NewActivityHandler(activityService)
	statsHandler := handler.NewStatsHandler(statsService)
	authHandler := handler.NewAuthHandler(authService)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.MetricsMiddleware)

	// Корень перенаправляет на страницу записи
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
	})

	// Статические файлы страницы записи
	fileServer := http.FileServer(http.Dir(a.config.Server.StaticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Health check для мониторинга
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			a.logger.Error("Failed to write health check response", "error", err)
		}
	})

	// Метрики Prometheus
	r.Handle("/metrics", promhttp.Handler())

	// Публичные эндпоинты реестра занятий
	r.Get("/activities", activityHandler.ListActivities)
	r.Route("/activities/{activity_name}", func(r chi.Router) {
		r.Post("/signup", activityHandler.Signup)
		r.Delete("/signup", activityHandler.Unregister)
	})

	// Логин персонала
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
	})

	// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/stats", statsHandler.GetStats)
		r.Get("/stats/activity", statsHandler.GetActivityStats)
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Закрываем подключения к хранилищу
	if a.db != nil {
		a.db.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Failed to close redis client", "error", err)
		}
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}

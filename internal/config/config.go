package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Backend задает тип хранилища реестра занятий
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server  ServerConfig  // Настройки HTTP сервера
	Storage StorageConfig // Настройки хранилища реестра
	Auth    AuthConfig    // Настройки входа для персонала
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port      string `envconfig:"SERVER_PORT" default:"8080"`
	Host      string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	StaticDir string `envconfig:"STATIC_DIR" default:"static"`
}

// StorageConfig выбирает бэкенд реестра: memory (по умолчанию), postgres или redis
type StorageConfig struct {
	Backend  string `envconfig:"STORAGE_BACKEND" default:"memory"`
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig содержит настройки подключения к PostgreSQL
type PostgresConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"activities"`
	Password string `envconfig:"DB_PASSWORD" default:"activities_pass"`
	Name     string `envconfig:"DB_NAME" default:"activities"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	DB   int    `envconfig:"REDIS_DB" default:"0"`
}

// AuthConfig содержит учетные данные персонала и настройки JWT
type AuthConfig struct {
	JWTSecret       string `envconfig:"JWT_SECRET" default:"mergington-dev-secret"`
	ExpirationHours int    `envconfig:"JWT_EXPIRATION_HOURS" default:"24"`
	StaffUsername   string `envconfig:"STAFF_USERNAME" default:"principal"`
	StaffPassword   string `envconfig:"STAFF_PASSWORD" default:"mergington"`
}

// GetExpiration возвращает срок действия токена как time.Duration
func (a AuthConfig) GetExpiration() time.Duration {
	return time.Duration(a.ExpirationHours) * time.Hour
}

// DSN возвращает строку подключения к PostgreSQL
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Name, p.SSLMode,
	)
}

// Load читает конфигурацию из переменных окружения
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"peerprep/interview/internal/store"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ProviderNone disables question generation; every interview uses the local bank
const ProviderNone = "none"

// app config
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Provider string `env:"AI_PROVIDER" envDefault:"gemini"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"interview.db"`
	Postgres    PostgresConfig
	RedisAddr   string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass   string `env:"REDIS_PASSWORD"`
	MongoURI    string `env:"MONGO_URI"`
	MongoDB     string `env:"MONGO_DB" envDefault:"peerprep"`

	SnapshotSchedule  string        `env:"SNAPSHOT_SCHEDULE" envDefault:"@every 5s"`
	TimerPollInterval time.Duration `env:"TIMER_POLL_INTERVAL" envDefault:"500ms"`
	MaxUploadBytes    int64         `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`

	EventsEnabled bool   `env:"EVENTS_ENABLED" envDefault:"false"`
	EventsChannel string `env:"EVENTS_CHANNEL" envDefault:"interview_completed"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"POSTGRES_DB" envDefault:"postgres"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// loads configuration from a local .env file, if present, and the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))
	config.StoreDriver = strings.ToLower(strings.TrimSpace(config.StoreDriver))

	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Provider != "gemini" && config.Provider != ProviderNone {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini, none")
	}
	// Gemini validation is handled by gemini.NewConfig()
	if !slices.Contains(store.Drivers(), config.StoreDriver) {
		return fmt.Errorf("unsupported store driver: %s. Currently supported: %s",
			config.StoreDriver, strings.Join(store.Drivers(), ", "))
	}
	if config.StoreDriver == store.DriverMongo && config.MongoURI == "" {
		return errors.New("MONGO_URI is required for the mongo store driver")
	}
	if config.TimerPollInterval <= 0 {
		return errors.New("TIMER_POLL_INTERVAL must be positive")
	}
	if config.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}
	return nil
}

// StoreOptions maps the configuration onto the snapshot store settings
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Driver:     c.StoreDriver,
		SQLitePath: c.SQLitePath,
		Postgres: store.PostgresConfig{
			Host:     c.Postgres.Host,
			Port:     c.Postgres.Port,
			User:     c.Postgres.User,
			Password: c.Postgres.Password,
			DBName:   c.Postgres.DBName,
			SSLMode:  c.Postgres.SSLMode,
		},
		RedisAddr:     c.RedisAddr,
		RedisPassword: c.RedisPass,
		MongoURI:      c.MongoURI,
		MongoDB:       c.MongoDB,
	}
}

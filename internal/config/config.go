package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	BackendFile    = "file"
	BackendSurreal = "surreal"
)

const (
	defaultAppAddr               = ":8080"
	defaultAppBaseURL            = "http://localhost:8080"
	defaultDataDir               = "data"
	defaultUsername              = "Guest"
	defaultDBQueryTimeout        = 5 * time.Second
	defaultDBExecuteTimeout      = 10 * time.Second
	defaultFavoritesFetchTimeout = 10 * time.Second
)

// Provider exposes read-only access to the application configuration.
// Components depend on this interface rather than on Config so tests can
// substitute a partial implementation.
type Provider interface {
	GetAppAddr() string
	GetAppBaseURL() string
	GetSessionSecret() string
	GetStorageBackend() string
	GetDataDir() string
	GetDefaultUsername() string

	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
	GetDBQueryTimeout() time.Duration
	GetDBExecuteTimeout() time.Duration

	GetFavoritesAPIURL() string
	GetFavoritesFetchTimeout() time.Duration
}

// Config holds all configuration for the application.
type Config struct {
	AppAddr         string
	AppBaseURL      string
	SessionSecret   string
	StorageBackend  string
	DataDir         string
	DefaultUsername string

	DBUrl            string
	DBNs             string
	DBDb             string
	DBUser           string
	DBPass           string
	DBQueryTimeout   time.Duration
	DBExecuteTimeout time.Duration

	FavoritesAPIURL       string
	FavoritesFetchTimeout time.Duration
}

var _ Provider = (*Config)(nil)

// New loads configuration from the environment, reading a .env file first
// when one is present. It exits the process if the configuration is invalid.
func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	var errs []error

	cfg := &Config{
		AppAddr:         getEnv("APP_ADDR", defaultAppAddr),
		AppBaseURL:      getEnv("APP_BASE_URL", defaultAppBaseURL),
		SessionSecret:   os.Getenv("SESSION_SECRET"),
		StorageBackend:  strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
		DataDir:         getEnv("DATA_DIR", defaultDataDir),
		DefaultUsername: getEnv("DEFAULT_USERNAME", defaultUsername),

		DBUrl:  os.Getenv("SURREAL_URL"),
		DBUser: os.Getenv("SURREAL_USER"),
		DBPass: os.Getenv("SURREAL_PASS"),
		DBNs:   os.Getenv("SURREAL_NS"),
		DBDb:   os.Getenv("SURREAL_DB"),

		FavoritesAPIURL: os.Getenv("FAVORITES_API_URL"),
	}

	var err error
	if cfg.DBQueryTimeout, err = getDuration("DB_QUERY_TIMEOUT", defaultDBQueryTimeout); err != nil {
		errs = append(errs, err)
	}
	if cfg.DBExecuteTimeout, err = getDuration("DB_EXECUTE_TIMEOUT", defaultDBExecuteTimeout); err != nil {
		errs = append(errs, err)
	}
	if cfg.FavoritesFetchTimeout, err = getDuration("FAVORITES_FETCH_TIMEOUT", defaultFavoritesFetchTimeout); err != nil {
		errs = append(errs, err)
	}

	if len(cfg.SessionSecret) < 16 {
		errs = append(errs, errors.New("SESSION_SECRET must be set and at least 16 characters long"))
	}

	switch cfg.StorageBackend {
	case BackendFile:
	case BackendSurreal:
		if cfg.DBUrl == "" || cfg.DBNs == "" || cfg.DBDb == "" {
			errs = append(errs, errors.New("SURREAL_URL, SURREAL_NS and SURREAL_DB are required for the surreal storage backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q (expected %q or %q)", cfg.StorageBackend, BackendFile, BackendSurreal))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration", key)
	}
	return d, nil
}

func (c *Config) GetAppAddr() string         { return c.AppAddr }
func (c *Config) GetAppBaseURL() string      { return c.AppBaseURL }
func (c *Config) GetSessionSecret() string   { return c.SessionSecret }
func (c *Config) GetStorageBackend() string  { return c.StorageBackend }
func (c *Config) GetDataDir() string         { return c.DataDir }
func (c *Config) GetDefaultUsername() string { return c.DefaultUsername }

func (c *Config) GetDBURL() string                   { return c.DBUrl }
func (c *Config) GetDBNs() string                    { return c.DBNs }
func (c *Config) GetDBDb() string                    { return c.DBDb }
func (c *Config) GetDBUser() string                  { return c.DBUser }
func (c *Config) GetDBPass() string                  { return c.DBPass }
func (c *Config) GetDBQueryTimeout() time.Duration   { return c.DBQueryTimeout }
func (c *Config) GetDBExecuteTimeout() time.Duration { return c.DBExecuteTimeout }

func (c *Config) GetFavoritesAPIURL() string              { return c.FavoritesAPIURL }
func (c *Config) GetFavoritesFetchTimeout() time.Duration { return c.FavoritesFetchTimeout }

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	CatalogSourceJSON     = "json"
	CatalogSourcePostgres = "postgres"

	VisitOrderPlanned = "planned"
	VisitOrderNearest = "nearest"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Route   RouteConfig
	Orders  OrdersConfig
	Redis   RedisConfig
}

type AppConfig struct {
	Env         string   `envconfig:"FIELDFLOW_APP_ENV" default:"dev"`
	Port        string   `envconfig:"FIELDFLOW_PORT" default:"8080"`
	LogLevel    string   `envconfig:"FIELDFLOW_LOG_LEVEL" default:"info"`
	LogFormat   string   `envconfig:"FIELDFLOW_LOG_FORMAT" default:"json"`
	// Empty allows any origin.
	CORSOrigins []string `envconfig:"FIELDFLOW_CORS_ORIGINS"`
}

type CatalogConfig struct {
	Source      string `envconfig:"FIELDFLOW_CATALOG_SOURCE" default:"json"`
	Path        string `envconfig:"FIELDFLOW_CATALOG_PATH" default:"data/seeds/catalog.json"`
	DatabaseURL string `envconfig:"FIELDFLOW_DATABASE_URL"`
}

type RouteConfig struct {
	// Customer ids visited on every route, in order.
	PlannedCustomers  []string `envconfig:"FIELDFLOW_PLANNED_CUSTOMERS" default:"1,2,3"`
	// Restores the camera grant on the location onboarding step.
	LegacyCameraGrant bool     `envconfig:"FIELDFLOW_LEGACY_CAMERA_GRANT" default:"false"`
	// "planned" keeps the schedule order, "nearest" walks nearest-first.
	VisitOrder        string   `envconfig:"FIELDFLOW_VISIT_ORDER" default:"planned"`
}

type OrdersConfig struct {
	ETAMinDays int `envconfig:"FIELDFLOW_ETA_MIN_DAYS" default:"2"`
	ETAMaxDays int `envconfig:"FIELDFLOW_ETA_MAX_DAYS" default:"7"`
}

type RedisConfig struct {
	URL      string        `envconfig:"FIELDFLOW_REDIS_URL"`
	ShareTTL time.Duration `envconfig:"FIELDFLOW_SHARE_TTL" default:"10m"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch strings.ToLower(c.Catalog.Source) {
	case CatalogSourceJSON:
		if strings.TrimSpace(c.Catalog.Path) == "" {
			return errors.New("config: FIELDFLOW_CATALOG_PATH is required for the json catalog")
		}
	case CatalogSourcePostgres:
		if strings.TrimSpace(c.Catalog.DatabaseURL) == "" {
			return errors.New("config: FIELDFLOW_DATABASE_URL is required for the postgres catalog")
		}
	default:
		return fmt.Errorf("config: unknown catalog source %q", c.Catalog.Source)
	}
	c.Catalog.Source = strings.ToLower(c.Catalog.Source)

	switch strings.ToLower(c.Route.VisitOrder) {
	case VisitOrderPlanned, VisitOrderNearest:
		c.Route.VisitOrder = strings.ToLower(c.Route.VisitOrder)
	default:
		return fmt.Errorf("config: unknown visit order %q", c.Route.VisitOrder)
	}

	if c.Orders.ETAMinDays < 0 || c.Orders.ETAMaxDays < c.Orders.ETAMinDays {
		return fmt.Errorf("config: invalid ETA window %d..%d days", c.Orders.ETAMinDays, c.Orders.ETAMaxDays)
	}
	if c.Redis.ShareTTL <= 0 {
		return fmt.Errorf("config: FIELDFLOW_SHARE_TTL must be positive, got %s", c.Redis.ShareTTL)
	}
	return nil
}

func (a AppConfig) IsDev() bool { return strings.EqualFold(a.Env, "dev") }

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

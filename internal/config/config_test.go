package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, CatalogSourceJSON, cfg.Catalog.Source)
	assert.Equal(t, "data/seeds/catalog.json", cfg.Catalog.Path)
	assert.Equal(t, []string{"1", "2", "3"}, cfg.Route.PlannedCustomers)
	assert.Equal(t, 2, cfg.Orders.ETAMinDays)
	assert.Equal(t, 7, cfg.Orders.ETAMaxDays)
	assert.Equal(t, 10*time.Minute, cfg.Redis.ShareTTL)
	assert.False(t, cfg.Route.LegacyCameraGrant)
	assert.Equal(t, VisitOrderPlanned, cfg.Route.VisitOrder)
	assert.True(t, cfg.App.IsDev())
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FIELDFLOW_CATALOG_SOURCE", "POSTGRES")
	t.Setenv("FIELDFLOW_DATABASE_URL", "postgres://localhost/fieldflow")
	t.Setenv("FIELDFLOW_PLANNED_CUSTOMERS", "4,5")
	t.Setenv("FIELDFLOW_SHARE_TTL", "30s")
	t.Setenv("FIELDFLOW_LEGACY_CAMERA_GRANT", "true")
	t.Setenv("FIELDFLOW_VISIT_ORDER", "Nearest")
	t.Setenv("FIELDFLOW_CORS_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, CatalogSourcePostgres, cfg.Catalog.Source)
	assert.Equal(t, []string{"4", "5"}, cfg.Route.PlannedCustomers)
	assert.Equal(t, 30*time.Second, cfg.Redis.ShareTTL)
	assert.True(t, cfg.Route.LegacyCameraGrant)
	assert.Equal(t, VisitOrderNearest, cfg.Route.VisitOrder)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSOrigins)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"postgres without url": {"FIELDFLOW_CATALOG_SOURCE": "postgres"},
		"unknown source":       {"FIELDFLOW_CATALOG_SOURCE": "csv"},
		"inverted eta":         {"FIELDFLOW_ETA_MIN_DAYS": "5", "FIELDFLOW_ETA_MAX_DAYS": "2"},
		"bad duration":         {"FIELDFLOW_SHARE_TTL": "soon"},
		"unknown visit order":  {"FIELDFLOW_VISIT_ORDER": "random"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestGet(t *testing.T) {
	t.Setenv("FIELDFLOW_TEST_KEY", "  value ")
	assert.Equal(t, "value", Get("FIELDFLOW_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", Get("FIELDFLOW_TEST_MISSING", "fallback"))
}

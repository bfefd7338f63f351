package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"field-workflow-service/internal/domain"
	"field-workflow-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seedPath = "../../../data/seeds/catalog.json"

func TestJSONCatalogLoadsSeed(t *testing.T) {
	cat, err := NewJSONCatalog(seedPath, nil).LoadCatalog(context.Background())
	require.NoError(t, err)

	assert.Len(t, cat.Customers(), 6)
	assert.Len(t, cat.Products(), 10)

	c, ok := cat.Customer("2")
	require.True(t, ok)
	assert.Equal(t, "Global Industries", c.Company)
	assert.Equal(t, domain.CustomerPending, c.Status)
	assert.Equal(t, "Mike Johnson", c.LastVisit.Agent)
	assert.Len(t, c.PendingIssues, 2)

	p, ok := cat.LookupProduct("Hardware Kit")
	require.True(t, ok)
	assert.Equal(t, "750", p.Price.String())
	assert.Equal(t, "hardware", p.Category)
}

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestReadSeedRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing name":   `{"customers":[{"id":"1"}]}`,
		"bad status":     `{"customers":[{"id":"1","name":"A","status":"gone"}]}`,
		"bad latitude":   `{"customers":[{"id":"1","name":"A","coordinates":{"lat":91,"lng":0}}]}`,
		"negative price": `{"products":[{"id":"x","name":"X","price":"-1"}]}`,
		"not json":       `{`,
	}
	for name, body := range cases {
		_, err := ReadSeed(writeSeed(t, body))
		assert.Error(t, err, name)
	}
}

func TestSeedCatalogRejectsDuplicates(t *testing.T) {
	seed, err := ReadSeed(writeSeed(t, `{"products":[{"id":"x","name":"X","price":1},{"id":"x","name":"Y","price":2}]}`))
	require.NoError(t, err)

	_, err = seed.Catalog()
	assert.ErrorContains(t, err, "duplicate product id")
}

func TestJSONCatalogRejectsEmptySeed(t *testing.T) {
	_, err := NewJSONCatalog(writeSeed(t, `{"customers":[],"products":[]}`), nil).LoadCatalog(context.Background())
	assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
}

func TestReadSeedMissingFile(t *testing.T) {
	_, err := ReadSeed(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "read catalog seed")
}

// Runs against a real database when FIELDFLOW_TEST_DATABASE_URL is set.
func TestPostgresCatalogRoundTrip(t *testing.T) {
	url := os.Getenv("FIELDFLOW_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("FIELDFLOW_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, db.Migrate(ctx, conn))

	seed, err := ReadSeed(seedPath)
	require.NoError(t, err)
	require.NoError(t, SeedPostgres(ctx, conn, seed))
	require.NoError(t, SeedPostgres(ctx, conn, seed))

	cat, err := NewPostgresCatalog(conn, nil).LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Len(t, cat.Customers(), 6)
	assert.Equal(t, "1", cat.Customers()[0].ID)

	p, ok := cat.LookupProduct("server-hardware")
	require.True(t, ok)
	assert.Equal(t, "2500", p.Price.String())
}

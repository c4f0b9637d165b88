package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-scraper/utils"
)

func TestPostgresStore_RoundTrip(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	store, err := NewPostgresStore(ctx, dsn, utils.Discard())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.db.ExecContext(ctx, `DELETE FROM seen_listings WHERE id LIKE 'test-%'`)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, []string{"test-1", "test-2"}))
	require.NoError(t, store.Save(ctx, []string{"test-2", "test-3"}))

	ids, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Subset(t, ids, []string{"test-1", "test-2", "test-3"})
}

package pgstore

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	landingpagestore "github.com/dalemusser/stratacourse/internal/app/store/landingpages"
	"github.com/dalemusser/stratacourse/internal/app/store/landingpages/repotest"
)

// testPool connects to STRATACOURSE_TEST_POSTGRES_DSN and resets the table.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("STRATACOURSE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("STRATACOURSE_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	pool, err := Connect(ctx, dsn)
	require.NoError(t, err, "Failed to connect to test database")
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(ctx, pool))
	_, err = pool.Exec(ctx, "TRUNCATE landing_pages")
	require.NoError(t, err)
	return pool
}

func TestStore_Conformance(t *testing.T) {
	repotest.Run(t, func(t *testing.T) landingpagestore.Repository {
		return New(testPool(t))
	})
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	pool := testPool(t)
	require.NoError(t, EnsureSchema(context.Background(), pool))
}

func TestStore_Ping(t *testing.T) {
	s := New(testPool(t))
	require.NoError(t, s.Ping(context.Background()))
}

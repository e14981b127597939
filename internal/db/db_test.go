package db

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/logger"
)

func TestSQLiteMigrations(t *testing.T) {
	logger.SetOutput(io.Discard)
	ctx := context.Background()

	conn, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "data", "fairlance.db"))
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Migrate(ctx, conn))
	require.NoError(t, Migrate(ctx, conn), "повторный запуск ничего не делает")

	version, err := Version(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var count int
	require.NoError(t, conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM escrow_transactions`))
	assert.Zero(t, count)

	require.NoError(t, Rollback(ctx, conn))
	version, err = Version(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	err = conn.GetContext(ctx, &count, `SELECT COUNT(*) FROM escrow_transactions`)
	assert.Error(t, err)
}

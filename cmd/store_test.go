// File: cmd/store_test.go
package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/config"
	"github.com/xkilldash9x/boxlayout/internal/store"
)

// mockStoreProvider builds the store on a pgxmock pool.
type mockStoreProvider struct {
	pool pgxmock.PgxPoolIface
	err  error
}

func (p *mockStoreProvider) Create(ctx context.Context, _ config.Interface) (*store.Store, func(), error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	s, err := store.New(ctx, p.pool, zap.NewNop())
	if err != nil {
		return nil, nil, err
	}
	return s, func() {}, nil
}

func newMockProvider(t *testing.T) (*mockStoreProvider, pgxmock.PgxPoolIface) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return &mockStoreProvider{pool: pool}, pool
}

func TestComputeCmd_Persist(t *testing.T) {
	provider, pool := newMockProvider(t)

	pool.ExpectPing()
	pool.ExpectBegin()
	pool.ExpectExec("INSERT INTO layout_runs").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 1, 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCopyFrom(pgx.Identifier{"layout_fixtures"}, []string{"run_id", "name", "path", "error"}).
		WillReturnResult(1)
	pool.ExpectCopyFrom(pgx.Identifier{"layout_nodes"},
		[]string{"run_id", "fixture", "ordinal", "parent", "node_key", "display", "x", "y", "width", "height"}).
		WillReturnResult(4)
	pool.ExpectCommit()
	pool.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

	out, err := runCLIWith(t, provider, "compute", "--persist", flexRowFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "FLEX [x: 0 y: 0 w: 300 h: 100")
	assert.Contains(t, out, "saved run ")
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestComputeCmd_PersistErrors(t *testing.T) {
	t.Run("no database configured", func(t *testing.T) {
		_, err := runCLI(t, "compute", "--persist", flexRowFixture)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database URL is not configured")
	})

	t.Run("provider failure", func(t *testing.T) {
		provider := &mockStoreProvider{err: errors.New("connection refused")}
		_, err := runCLIWith(t, provider, "compute", "--persist", flexRowFixture)
		assert.ErrorContains(t, err, "connection refused")
	})
}

func TestHistoryCmd(t *testing.T) {
	provider, pool := newMockProvider(t)
	started := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	pool.ExpectPing()
	pool.ExpectQuery("FROM layout_runs").WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"run_id", "started_at", "fixtures", "failed"}).
			AddRow("run-1", started, 2, 1))
	pool.ExpectQuery("FROM layout_nodes").WithArgs("run-1").
		WillReturnRows(pgxmock.NewRows([]string{"fixture", "ordinal", "parent", "node_key", "display", "x", "y", "width", "height"}).
			AddRow("grid", 0, -1, "root", "grid", 0.0, 0.0, 300.0, 40.0).
			AddRow("grid", 1, 0, "nav", "block", 0.0, 0.0, 100.0, 40.0).
			AddRow("grid", 2, 0, "#2", "block", 100.0, 0.0, 200.0, 40.0))

	out, err := runCLIWith(t, provider, "history", "run-1")
	require.NoError(t, err)

	expected := "run run-1 started 2026-10-17T09:30:00Z fixtures 2 failed 1\n" +
		"=== grid\n" +
		"GRID root [x: 0 y: 0 w: 300 h: 40]\n" +
		"  BLOCK nav [x: 0 y: 0 w: 100 h: 40]\n" +
		"  BLOCK #2 [x: 100 y: 0 w: 200 h: 40]\n"
	assert.Equal(t, expected, out)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestHistoryCmd_UnknownRun(t *testing.T) {
	provider, pool := newMockProvider(t)
	pool.ExpectPing()
	pool.ExpectQuery("FROM layout_runs").WithArgs("nope").
		WillReturnRows(pgxmock.NewRows([]string{"run_id", "started_at", "fixtures", "failed"}))

	_, err := runCLIWith(t, provider, "history", "nope")
	assert.ErrorIs(t, err, store.ErrRunNotFound)
}

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/reporting"
)

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Schema creates the tables used by Store. It is safe to run repeatedly.
const Schema = `
CREATE TABLE IF NOT EXISTS layout_runs (
    run_id     TEXT PRIMARY KEY,
    started_at TIMESTAMPTZ NOT NULL,
    fixtures   INTEGER NOT NULL,
    failed     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS layout_fixtures (
    run_id TEXT NOT NULL REFERENCES layout_runs (run_id) ON DELETE CASCADE,
    name   TEXT NOT NULL,
    path   TEXT NOT NULL,
    error  TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS layout_nodes (
    run_id   TEXT NOT NULL REFERENCES layout_runs (run_id) ON DELETE CASCADE,
    fixture  TEXT NOT NULL,
    ordinal  INTEGER NOT NULL,
    parent   INTEGER NOT NULL,
    node_key TEXT NOT NULL,
    display  TEXT NOT NULL,
    x        DOUBLE PRECISION NOT NULL,
    y        DOUBLE PRECISION NOT NULL,
    width    DOUBLE PRECISION NOT NULL,
    height   DOUBLE PRECISION NOT NULL,
    PRIMARY KEY (run_id, fixture, ordinal)
);
`

var (
	fixtureColumns = []string{"run_id", "name", "path", "error"}
	nodeColumns    = []string{"run_id", "fixture", "ordinal", "parent", "node_key", "display", "x", "y", "width", "height"}
)

// ErrRunNotFound is returned when a run id has no stored rows.
var ErrRunNotFound = errors.New("run not found")

// Run is a stored batch header.
type Run struct {
	RunID     string
	StartedAt time.Time
	Fixtures  int
	Failed    int
}

// NodeRecord is one stored box, flattened in pre-order. Parent is the
// ordinal of the parent box, or -1 for a fixture's root.
type NodeRecord struct {
	Fixture string
	Ordinal int
	Parent  int
	NodeKey string
	Display string
	X       float64
	Y       float64
	Width   float64
	Height  float64
}

// Store persists layout runs to PostgreSQL.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

// EnsureSchema creates the layout tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveRun stores a batch and every laid out box of its documents in one
// transaction.
func (s *Store) SaveRun(ctx context.Context, run Run, docs []*reporting.Document) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO layout_runs (run_id, started_at, fixtures, failed) VALUES ($1, $2, $3, $4)`,
		run.RunID, run.StartedAt.UTC(), run.Fixtures, run.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if len(docs) > 0 {
		if err := s.copyRows(ctx, tx, "layout_fixtures", fixtureColumns, fixtureRows(run.RunID, docs)); err != nil {
			return err
		}
		if nodes := nodeRows(run.RunID, docs); len(nodes) > 0 {
			if err := s.copyRows(ctx, tx, "layout_nodes", nodeColumns, nodes); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.log.Debug("Stored layout run.", zap.String("run_id", run.RunID), zap.Int("fixtures", len(docs)))
	return nil
}

func (s *Store) copyRows(ctx context.Context, tx pgx.Tx, table string, columns []string, rows [][]any) error {
	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy %s: %w", table, err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("mismatch in copied %s count: expected %d, got %d", table, len(rows), n)
	}
	return nil
}

func fixtureRows(runID string, docs []*reporting.Document) [][]any {
	rows := make([][]any, len(docs))
	for i, d := range docs {
		rows[i] = []any{runID, d.Name, d.Path, d.Error}
	}
	return rows
}

func nodeRows(runID string, docs []*reporting.Document) [][]any {
	var rows [][]any
	for _, d := range docs {
		if d.Root == nil {
			continue
		}
		for _, rec := range Flatten(d.Name, d.Root) {
			rows = append(rows, []any{
				runID, rec.Fixture, rec.Ordinal, rec.Parent, rec.NodeKey, rec.Display,
				rec.X, rec.Y, rec.Width, rec.Height,
			})
		}
	}
	return rows
}

// Flatten lists the boxes under root in pre-order. Boxes without a fixture
// id are keyed by their node number.
func Flatten(fixture string, root *reporting.Node) []NodeRecord {
	var out []NodeRecord
	var walk func(n *reporting.Node, parent int)
	walk = func(n *reporting.Node, parent int) {
		key := n.ID
		if key == "" {
			key = fmt.Sprintf("#%d", n.Node)
		}
		ordinal := len(out)
		out = append(out, NodeRecord{
			Fixture: fixture,
			Ordinal: ordinal,
			Parent:  parent,
			NodeKey: key,
			Display: n.Display,
			X:       n.X,
			Y:       n.Y,
			Width:   n.Width,
			Height:  n.Height,
		})
		for _, c := range n.Children {
			walk(c, ordinal)
		}
	}
	walk(root, -1)
	return out
}

// GetRun loads a run header.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, started_at, fixtures, failed FROM layout_runs WHERE run_id = $1`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error during row iteration: %w", err)
		}
		return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}
	var run Run
	if err := rows.Scan(&run.RunID, &run.StartedAt, &run.Fixtures, &run.Failed); err != nil {
		return nil, fmt.Errorf("failed to scan run row: %w", err)
	}
	return &run, nil
}

// ListNodes returns the stored boxes of a run ordered by fixture and
// ordinal.
func (s *Store) ListNodes(ctx context.Context, runID string) ([]NodeRecord, error) {
	query := `
        SELECT fixture, ordinal, parent, node_key, display, x, y, width, height
        FROM layout_nodes
        WHERE run_id = $1
        ORDER BY fixture ASC, ordinal ASC;
    `
	rows, err := s.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []NodeRecord
	for rows.Next() {
		var n NodeRecord
		if err := rows.Scan(&n.Fixture, &n.Ordinal, &n.Parent, &n.NodeKey, &n.Display, &n.X, &n.Y, &n.Width, &n.Height); err != nil {
			return nil, fmt.Errorf("failed to scan node row: %w", err)
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return nodes, nil
}

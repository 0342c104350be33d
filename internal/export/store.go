package export

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"busgraph.opentransit.org/internal/logging"
	"busgraph.opentransit.org/internal/network"
)

//go:embed schema.sql
var ddl string

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

// RunMeta describes the inputs of a stored run.
type RunMeta struct {
	Source     string
	TargetZone string
	Report     network.Report
}

// Run is a stored pipeline result without its graph.
type Run struct {
	ID         string          `json:"id"`
	CreatedAt  time.Time       `json:"createdAt"`
	Source     string          `json:"source"`
	TargetZone string          `json:"targetZone"`
	EdgeMode   string          `json:"edgeMode"`
	Nodes      int             `json:"nodes"`
	Edges      int             `json:"edges"`
	Report     *network.Report `json:"report,omitempty"`
}

// Store keeps finished graphs in SQLite, one run per pipeline execution.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenStore opens or creates the database at path and applies the schema.
func OpenStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		logging.SafeCloseWithLogging(db, logger, "open_store")
		return nil, fmt.Errorf("error enabling foreign keys: %w", err)
	}
	if err := performDatabaseMigration(ctx, db); err != nil {
		logging.SafeCloseWithLogging(db, logger, "open_store")
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return &Store{db: db, logger: logger.With(slog.String("component", "store"))}, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(ddl, "-- migrate") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveGraph stores g and its report under a new run id.
func (s *Store) SaveGraph(ctx context.Context, g *network.Graph, meta RunMeta) (runID string, err error) {
	report, err := json.Marshal(meta.Report)
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, s.logger, "save_graph")

	runID = uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (
			run_id, created_at, source, target_zone, edge_mode, node_count, edge_count, report
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`, runID, time.Now().UTC().Format(timeLayout), meta.Source, meta.TargetZone,
		string(g.Mode()), g.NodeCount(), g.EdgeCount(), string(report))
	if err != nil {
		return "", fmt.Errorf("error inserting run: %w", err)
	}

	if err := insertNodes(ctx, tx, runID, g.Nodes()); err != nil {
		return "", err
	}
	if err := insertEdges(ctx, tx, runID, g.Edges()); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("error committing transaction: %w", err)
	}

	logging.LogOperation(s.logger, "graph_saved",
		slog.String("run_id", runID),
		slog.Int("nodes", g.NodeCount()),
		slog.Int("edges", g.EdgeCount()))
	return runID, nil
}

func insertNodes(ctx context.Context, tx *sql.Tx, runID string, nodes []network.Node) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (run_id, node_id, name, lat, lon, members)
		VALUES (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, node := range nodes {
		members, err := json.Marshal(node.Members)
		if err != nil {
			return fmt.Errorf("encoding members of %s: %w", node.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, runID, node.ID, node.Name, node.Lat, node.Lon, string(members)); err != nil {
			return fmt.Errorf("error inserting node: %w", err)
		}
	}
	return nil
}

func insertEdges(ctx context.Context, tx *sql.Tx, runID string, edges []network.Edge) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (run_id, from_id, to_id, line_id, weight, samples)
		VALUES (?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, edge := range edges {
		if _, err := stmt.ExecContext(ctx, runID, edge.From, edge.To, edge.Line, edge.Weight, edge.Samples); err != nil {
			return fmt.Errorf("error inserting edge: %w", err)
		}
	}
	return nil
}

// GetRun returns the metadata and report of one run.
func (s *Store) GetRun(ctx context.Context, runID string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, created_at, source, target_zone, edge_mode, node_count, edge_count, report
		FROM runs WHERE run_id = ?;
	`, runID)
	return scanRun(row)
}

// LatestRun returns the most recently saved run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT run_id, created_at, source, target_zone, edge_mode, node_count, edge_count, report
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1;
	`)
	return scanRun(row)
}

func scanRun(row *sql.Row) (Run, error) {
	var run Run
	var createdAt, report string
	err := row.Scan(&run.ID, &createdAt, &run.Source, &run.TargetZone, &run.EdgeMode, &run.Nodes, &run.Edges, &report)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("error reading run: %w", err)
	}

	run.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return Run{}, fmt.Errorf("error parsing run time: %w", err)
	}
	run.Report = &network.Report{}
	if err := json.Unmarshal([]byte(report), run.Report); err != nil {
		return Run{}, fmt.Errorf("error decoding report: %w", err)
	}
	return run, nil
}

// LoadGraph rebuilds the graph saved under runID.
func (s *Store) LoadGraph(ctx context.Context, runID string) (*network.Graph, Run, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, Run{}, err
	}

	mode, err := network.ParseEdgeMode(run.EdgeMode)
	if err != nil {
		return nil, Run{}, err
	}
	g := network.NewGraph(mode)

	rows, err := s.db.QueryContext(ctx, `
		SELECT node_id, name, lat, lon, members FROM nodes WHERE run_id = ? ORDER BY node_id;
	`, runID)
	if err != nil {
		return nil, Run{}, fmt.Errorf("error querying nodes: %w", err)
	}
	for rows.Next() {
		var node network.Node
		var members string
		if err := rows.Scan(&node.ID, &node.Name, &node.Lat, &node.Lon, &members); err != nil {
			logging.SafeCloseWithLogging(rows, s.logger, "load_nodes")
			return nil, Run{}, fmt.Errorf("error scanning node: %w", err)
		}
		if err := json.Unmarshal([]byte(members), &node.Members); err != nil {
			logging.SafeCloseWithLogging(rows, s.logger, "load_nodes")
			return nil, Run{}, fmt.Errorf("error decoding members of %s: %w", node.ID, err)
		}
		g.AddNode(node)
	}
	if err := rows.Err(); err != nil {
		return nil, Run{}, fmt.Errorf("error iterating nodes: %w", err)
	}
	logging.SafeCloseWithLogging(rows, s.logger, "load_nodes")

	rows, err = s.db.QueryContext(ctx, `
		SELECT from_id, to_id, line_id, weight, samples FROM edges
		WHERE run_id = ? ORDER BY from_id, to_id, line_id;
	`, runID)
	if err != nil {
		return nil, Run{}, fmt.Errorf("error querying edges: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, s.logger, "load_edges")

	for rows.Next() {
		var edge network.Edge
		if err := rows.Scan(&edge.From, &edge.To, &edge.Line, &edge.Weight, &edge.Samples); err != nil {
			return nil, Run{}, fmt.Errorf("error scanning edge: %w", err)
		}
		if _, err := g.AddEdge(edge); err != nil {
			return nil, Run{}, fmt.Errorf("restoring run %s: %w", runID, err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, Run{}, fmt.Errorf("error iterating edges: %w", err)
	}

	return g, run, nil
}

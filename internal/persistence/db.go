// Package persistence provides SQLite-based storage of colony statistics
// history. Each process start is a new run; world state is never restored.
package persistence

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/colonysim/internal/engine"
)

// DB wraps a SQLite connection for statistics history.
type DB struct {
	conn *sqlx.DB
}

// RunInfo describes a run at its start.
type RunInfo struct {
	Seed      int64
	Width     int
	Height    int
	Colonies  int
	Placement string
}

// RunRow is a stored run.
type RunRow struct {
	ID        string `db:"id" json:"id"`
	StartedAt string `db:"started_at" json:"started_at"`
	Seed      int64  `db:"seed" json:"seed"`
	Width     int    `db:"width" json:"width"`
	Height    int    `db:"height" json:"height"`
	Colonies  int    `db:"colonies" json:"colonies"`
	Placement string `db:"placement" json:"placement"`
}

// StatsRow is one colony's aggregate at one recorded tick.
type StatsRow struct {
	Tick          int64   `db:"tick" json:"tick"`
	ColonyID      int     `db:"colony_id" json:"colony_id"`
	Name          string  `db:"name" json:"name"`
	Population    int     `db:"population" json:"population"`
	TotalStrength int64   `db:"total_strength" json:"total_strength"`
	AvgStrength   float64 `db:"avg_strength" json:"avg_strength"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows a single writer.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		seed INTEGER NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		colonies INTEGER NOT NULL,
		placement TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tick_reports (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		population INTEGER NOT NULL,
		births INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		fights INTEGER NOT NULL,
		collisions INTEGER NOT NULL,
		PRIMARY KEY (run_id, tick)
	);

	CREATE TABLE IF NOT EXISTS colony_stats (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		colony_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		population INTEGER NOT NULL,
		total_strength INTEGER NOT NULL,
		avg_strength REAL NOT NULL,
		PRIMARY KEY (run_id, tick, colony_id)
	);

	CREATE INDEX IF NOT EXISTS idx_colony_stats_tick ON colony_stats(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// StartRun records a new run and returns its id.
func (db *DB) StartRun(info RunInfo) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(
		`INSERT INTO runs (id, started_at, seed, width, height, colonies, placement)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339), info.Seed,
		info.Width, info.Height, info.Colonies, info.Placement,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	slog.Info("run started", "run_id", id, "seed", info.Seed)
	return id, nil
}

// SaveReport writes a tick report and its per-colony stats.
func (db *DB) SaveReport(runID string, rep engine.TickReport) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Ticks are stored as int64 to avoid the driver's uint64 high-bit issue.
	tick := int64(rep.Tick)

	_, err = tx.Exec(`INSERT OR REPLACE INTO tick_reports
		(run_id, tick, population, births, deaths, fights, collisions)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, tick, rep.Population, rep.Births, rep.Deaths, rep.Fights, rep.Collisions,
	)
	if err != nil {
		return fmt.Errorf("insert tick report %d: %w", rep.Tick, err)
	}

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO colony_stats
		(run_id, tick, colony_id, name, population, total_strength, avg_strength)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range rep.Colonies {
		_, err := stmt.Exec(runID, tick, int(c.ID), c.Name, c.Population, int64(c.TotalStrength), c.AvgStrength)
		if err != nil {
			return fmt.Errorf("insert colony stats %d: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// Runs returns the most recent runs, newest first.
func (db *DB) Runs(limit int) ([]RunRow, error) {
	var runs []RunRow
	err := db.conn.Select(&runs,
		"SELECT id, started_at, seed, width, height, colonies, placement FROM runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	return runs, err
}

// LoadStatsHistory returns colony stats for runID with from <= tick <= to,
// limited to the most recent limit recorded ticks, in ascending tick order.
func (db *DB) LoadStatsHistory(runID string, from, to int64, limit int) ([]StatsRow, error) {
	var rows []StatsRow
	err := db.conn.Select(&rows, `
		SELECT tick, colony_id, name, population, total_strength, avg_strength
		FROM colony_stats
		WHERE run_id = ? AND tick >= ? AND tick <= ? AND tick IN (
			SELECT tick FROM tick_reports
			WHERE run_id = ? AND tick >= ? AND tick <= ?
			ORDER BY tick DESC LIMIT ?
		)
		ORDER BY tick ASC, colony_id ASC`,
		runID, from, to, runID, from, to, limit,
	)
	return rows, err
}

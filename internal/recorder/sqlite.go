package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			run_id       TEXT PRIMARY KEY,
			started_at   INTEGER NOT NULL,
			finished_at  INTEGER,
			status       TEXT NOT NULL,
			universe     INTEGER,
			attempted    INTEGER,
			qualified    INTEGER,
			new_count    INTEGER,
			insufficient INTEGER,
			failed       INTEGER,
			error        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started ON scan_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS scan_hits (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL REFERENCES scan_runs(run_id),
			symbol     TEXT NOT NULL,
			is_new     INTEGER NOT NULL,
			ema30      REAL,
			ema60      REAL,
			ema120     REAL,
			last_low   REAL,
			last_high  REAL,
			last_close REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_symbol ON scan_hits(symbol)`,
		`CREATE INDEX IF NOT EXISTS idx_hits_run ON scan_hits(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run summary and its hits in one transaction.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var finished any
	if !run.FinishedAt.IsZero() {
		finished = run.FinishedAt.Unix()
	}
	if _, err := tx.Exec(`INSERT INTO scan_runs
		(run_id, started_at, finished_at, status, universe, attempted, qualified, new_count, insufficient, failed, error)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		run.RunID, run.StartedAt.Unix(), finished, run.Status,
		run.Universe, run.Attempted, run.Qualified, run.New,
		run.Insufficient, run.Failed, run.Error,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, h := range run.Hits {
		ind := h.Signal.Indicators
		if _, err := tx.Exec(`INSERT INTO scan_hits
			(run_id, symbol, is_new, ema30, ema60, ema120, last_low, last_high, last_close)
			VALUES (?,?,?,?,?,?,?,?,?)`,
			run.RunID, h.Signal.Symbol, h.IsNew,
			ind.EMA30, ind.EMA60, ind.EMA120, ind.LastLow, ind.LastHigh, ind.LastClose,
		); err != nil {
			return fmt.Errorf("insert hit %s: %w", h.Signal.Symbol, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}

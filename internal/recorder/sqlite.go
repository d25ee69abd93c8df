package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	logging "ohlc-logchart/internal/infra/log"
)

// SQLiteRecorder keeps every run and its bars in a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logging.LogInfo("SQLite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			seed         INTEGER NOT NULL,
			point_count  INTEGER,
			bucket_ms    INTEGER,
			origin       INTEGER,
			params_json  TEXT,
			bars         INTEGER,
			first_open   REAL,
			last_close   REAL,
			low          REAL,
			high         REAL,
			mean_close   REAL,
			median_close REAL,
			stddev_close REAL,
			return_pct   REAL,
			chart_path   TEXT,
			published    INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS bars (
			run_id       INTEGER NOT NULL REFERENCES runs(id),
			bucket_start INTEGER NOT NULL,
			open         REAL,
			high         REAL,
			low          REAL,
			close        REAL,
			samples      INTEGER,
			PRIMARY KEY (run_id, bucket_start)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run row and all of its bars in one transaction.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	params, err := json.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	s := run.Summary
	res, err := tx.Exec(`INSERT INTO runs
		(timestamp, seed, point_count, bucket_ms, origin, params_json,
		 bars, first_open, last_close, low, high,
		 mean_close, median_close, stddev_close, return_pct,
		 chart_path, published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.Unix(), run.Seed, run.Params.PointCount, run.Params.BucketWidth,
		run.Params.Origin.UnixMilli(), string(params),
		s.Bars, s.FirstOpen, s.LastClose, s.Low, s.High,
		s.MeanClose, s.MedianClose, s.StdDevClose, s.ReturnPct,
		run.ChartPath, run.Published,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO bars
		(run_id, bucket_start, open, high, low, close, samples)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare bars: %w", err)
	}
	defer stmt.Close()

	for _, b := range run.Bars {
		if _, err := stmt.Exec(runID, b.BucketStart, b.Open, b.High, b.Low, b.Close, b.Samples); err != nil {
			return fmt.Errorf("insert bar %d: %w", b.BucketStart, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	logging.LogDebug("Run recorded",
		zap.Int64("run_id", runID),
		zap.Int64("seed", run.Seed),
		zap.Int("bars", len(run.Bars)))
	return nil
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}

// Open returns a SQLiteRecorder for dbPath, or a NoopRecorder when dbPath is
// empty.
func Open(dbPath string) (Recorder, error) {
	if dbPath == "" {
		return NewNoopRecorder(), nil
	}
	return NewSQLiteRecorder(dbPath)
}

package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

// Amounts are stored as TEXT so decimals round-trip exactly.
func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS waterfall_runs (
			id               TEXT PRIMARY KEY,
			timestamp        INTEGER NOT NULL,
			input_hash       TEXT NOT NULL,
			source           TEXT NOT NULL,
			final_pool       TEXT,
			senior_payout    TEXT,
			mezzanine_payout TEXT,
			equity_payout    TEXT,
			senior_roi_pct   TEXT,
			mezzanine_roi_pct TEXT,
			equity_roi_pct   TEXT,
			class            TEXT,
			input_json       TEXT NOT NULL,
			result_json      TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON waterfall_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_hash ON waterfall_runs(input_hash)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(ctx context.Context, rec *RunRecord) error {
	input, result, err := encodeDocs(rec)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	res := rec.Result
	_, err = r.db.ExecContext(ctx, `INSERT INTO waterfall_runs
		(id, timestamp, input_hash, source,
		 final_pool, senior_payout, mezzanine_payout, equity_payout,
		 senior_roi_pct, mezzanine_roi_pct, equity_roi_pct, class,
		 input_json, result_json)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.CreatedAt.UnixMilli(), rec.InputHash, rec.Source,
		res.FinalPool.String(), res.Senior.Payout.String(), res.Mezzanine.Payout.String(), res.Equity.Payout.String(),
		res.Senior.ROIPct.String(), res.Mezzanine.ROIPct.String(), res.Equity.ROIPct.String(), string(res.Class),
		string(input), string(result),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.QueryContext(ctx, `SELECT id, timestamp, input_hash, source, input_json, result_json
		FROM waterfall_runs ORDER BY timestamp DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec           RunRecord
			ts            int64
			input, result string
		)
		if err := rows.Scan(&rec.ID, &ts, &rec.InputHash, &rec.Source, &input, &result); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(ts)
		if err := decodeDocs(&rec, []byte(input), []byte(result)); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

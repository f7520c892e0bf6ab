package recorder

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRecorder persists run history to PostgreSQL.
type PostgresRecorder struct {
	pool *pgxpool.Pool
}

// NewPostgresRecorder connects to dsn, verifies the connection and runs migrations.
func NewPostgresRecorder(ctx context.Context, dsn string) (*PostgresRecorder, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{pool: pool}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("[INFO] postgres recorder opened")
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS waterfall_runs (
			id                UUID PRIMARY KEY,
			created_at        TIMESTAMPTZ NOT NULL,
			input_hash        CHAR(64) NOT NULL,
			source            TEXT NOT NULL,
			final_pool        NUMERIC NOT NULL,
			senior_payout     NUMERIC NOT NULL,
			mezzanine_payout  NUMERIC NOT NULL,
			equity_payout     NUMERIC NOT NULL,
			senior_roi_pct    NUMERIC NOT NULL,
			mezzanine_roi_pct NUMERIC NOT NULL,
			equity_roi_pct    NUMERIC NOT NULL,
			class             TEXT NOT NULL,
			input_json        JSONB NOT NULL,
			result_json       JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON waterfall_runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_hash ON waterfall_runs(input_hash)`,
	}
	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordRun(ctx context.Context, rec *RunRecord) error {
	input, result, err := encodeDocs(rec)
	if err != nil {
		return err
	}

	res := rec.Result
	_, err = r.pool.Exec(ctx, `
		INSERT INTO waterfall_runs (
			id, created_at, input_hash, source,
			final_pool, senior_payout, mezzanine_payout, equity_payout,
			senior_roi_pct, mezzanine_roi_pct, equity_roi_pct, class,
			input_json, result_json
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		rec.ID, rec.CreatedAt, rec.InputHash, rec.Source,
		res.FinalPool.String(), res.Senior.Payout.String(), res.Mezzanine.Payout.String(), res.Equity.Payout.String(),
		res.Senior.ROIPct.String(), res.Mezzanine.ROIPct.String(), res.Equity.ROIPct.String(), string(res.Class),
		string(input), string(result),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, created_at, input_hash, source, input_json::text, result_json::text
		FROM waterfall_runs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var (
			rec           RunRecord
			input, result string
		)
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.InputHash, &rec.Source, &input, &result); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if err := decodeDocs(&rec, []byte(input), []byte(result)); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PostgresRecorder) Close() error {
	log.Println("[INFO] closing postgres recorder")
	r.pool.Close()
	return nil
}

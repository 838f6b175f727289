package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/lsbacktest/internal/contracts"
)

// RunRecord is the persisted outcome of one backtest run.
// Only final results are stored; intermediate matrices never leave memory.
type RunRecord struct {
	RunID         string
	StrategyID    string
	ConfigHash    string
	SourcePath    string
	RankThreshold int
	NumTickers    int
	Summary       contracts.PerformanceSummary
	SharpeDefined bool
	CreatedAt     time.Time
}

// RunRepository handles run record persistence
// ⭐ SSOT: 백테스트 결과 저장/조회는 여기서만
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a new run repository
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

const runsSchema = `
	CREATE SCHEMA IF NOT EXISTS audit;
	CREATE TABLE IF NOT EXISTS audit.backtest_runs (
		run_id          TEXT PRIMARY KEY,
		strategy_id     TEXT NOT NULL,
		config_hash     TEXT NOT NULL,
		source_path     TEXT NOT NULL,
		rank_threshold  INTEGER NOT NULL,
		num_tickers     INTEGER NOT NULL,
		days            INTEGER NOT NULL,
		final_cum       DOUBLE PRECISION NOT NULL,
		sharpe          DOUBLE PRECISION,
		max_drawdown    DOUBLE PRECISION NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL
	)
`

// EnsureSchema creates the runs table when missing
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, runsSchema); err != nil {
		return fmt.Errorf("failed to create runs schema: %w", err)
	}
	return nil
}

// SaveRun upserts a run record. An undefined Sharpe ratio is stored as NULL.
func (r *RunRepository) SaveRun(ctx context.Context, rec *RunRecord) error {
	var sharpe *float64
	if rec.SharpeDefined {
		v := rec.Summary.SharpeRatio
		sharpe = &v
	}

	query := `
		INSERT INTO audit.backtest_runs (
			run_id, strategy_id, config_hash, source_path, rank_threshold,
			num_tickers, days, final_cum, sharpe, max_drawdown, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (run_id) DO UPDATE SET
			final_cum = EXCLUDED.final_cum,
			sharpe = EXCLUDED.sharpe,
			max_drawdown = EXCLUDED.max_drawdown,
			days = EXCLUDED.days
	`

	_, err := r.pool.Exec(ctx, query,
		rec.RunID, rec.StrategyID, rec.ConfigHash, rec.SourcePath, rec.RankThreshold,
		rec.NumTickers, rec.Summary.Days, rec.Summary.FinalCumulativeReturn, sharpe,
		rec.Summary.MaxDrawdown, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// GetRun retrieves a run record by id
func (r *RunRepository) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	query := `
		SELECT run_id, strategy_id, config_hash, source_path, rank_threshold,
		       num_tickers, days, final_cum, sharpe, max_drawdown, created_at
		FROM audit.backtest_runs
		WHERE run_id = $1
	`

	var rec RunRecord
	var sharpe *float64
	err := r.pool.QueryRow(ctx, query, runID).Scan(
		&rec.RunID, &rec.StrategyID, &rec.ConfigHash, &rec.SourcePath, &rec.RankThreshold,
		&rec.NumTickers, &rec.Summary.Days, &rec.Summary.FinalCumulativeReturn, &sharpe,
		&rec.Summary.MaxDrawdown, &rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if sharpe != nil {
		rec.Summary.SharpeRatio = *sharpe
		rec.SharpeDefined = true
	}

	return &rec, nil
}

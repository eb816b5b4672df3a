package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aigate/internal/domain/usage"
)

// usageRepository implements UsageRepository over the raw request log and the
// usage_daily rollup table
type usageRepository struct {
	db *pgxpool.Pool
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *pgxpool.Pool) *usageRepository {
	return &usageRepository{db: db}
}

// FetchUnrolled returns raw request rows not yet folded into usage_daily,
// oldest first.
func (r *usageRepository) FetchUnrolled(ctx context.Context, limit int) ([]*usage.RequestLog, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, platform, model, status, tokens_in, tokens_out, latency_ms, created_at
		FROM request_log
		WHERE rolled_at IS NULL
		ORDER BY id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*usage.RequestLog
	for rows.Next() {
		var l usage.RequestLog
		if err := rows.Scan(&l.ID, &l.AccountID, &l.Platform, &l.Model, &l.Status,
			&l.TokensIn, &l.TokensOut, &l.LatencyMs, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

type rollupKey struct {
	accountID int64
	platform  string
	day       time.Time
}

// ApplyRollup folds a batch of raw rows into usage_daily and marks them
// rolled, atomically. Re-running a batch after a crash is safe because
// rolled_at gates re-selection.
func (r *usageRepository) ApplyRollup(ctx context.Context, logs []*usage.RequestLog) error {
	if len(logs) == 0 {
		return nil
	}

	agg := make(map[rollupKey]*usage.Daily)
	ids := make([]int64, 0, len(logs))
	for _, l := range logs {
		ids = append(ids, l.ID)
		k := rollupKey{accountID: l.AccountID, platform: l.Platform, day: l.CreatedAt.UTC().Truncate(24 * time.Hour)}
		d, ok := agg[k]
		if !ok {
			d = &usage.Daily{AccountID: k.accountID, Platform: k.platform, Day: k.day}
			agg[k] = d
		}
		d.Requests++
		d.TokensIn += l.TokensIn
		d.TokensOut += l.TokensOut
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, d := range agg {
		if _, err := tx.Exec(ctx, `
			INSERT INTO usage_daily (account_id, platform, day, requests, tokens_in, tokens_out)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (account_id, platform, day) DO UPDATE
			SET requests = usage_daily.requests + EXCLUDED.requests,
				tokens_in = usage_daily.tokens_in + EXCLUDED.tokens_in,
				tokens_out = usage_daily.tokens_out + EXCLUDED.tokens_out`,
			d.AccountID, d.Platform, d.Day, d.Requests, d.TokensIn, d.TokensOut); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
		UPDATE request_log SET rolled_at = now() WHERE id = ANY($1)`, ids); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// DashboardStats aggregates the console landing-page numbers for one day.
func (r *usageRepository) DashboardStats(ctx context.Context, day time.Time) (*usage.DashboardStats, error) {
	day = day.UTC().Truncate(24 * time.Hour)
	stats := &usage.DashboardStats{ByPlatform: map[string]int64{}}

	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'active')
		FROM accounts`).Scan(&stats.TotalAccounts, &stats.ActiveAccounts); err != nil {
		return nil, err
	}

	if err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(requests), 0), COALESCE(SUM(tokens_in), 0), COALESCE(SUM(tokens_out), 0)
		FROM usage_daily WHERE day = $1`, day).Scan(
		&stats.RequestsToday, &stats.TokensInToday, &stats.TokensOutToday); err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT platform, COALESCE(SUM(requests), 0)
		FROM usage_daily WHERE day = $1 GROUP BY platform`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var platform string
		var n int64
		if err := rows.Scan(&platform, &n); err != nil {
			return nil, err
		}
		stats.ByPlatform[platform] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Error rate comes from the raw log so it includes unrolled rows.
	var total, failed int64
	if err := r.db.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status >= 400)
		FROM request_log WHERE created_at >= $1 AND created_at < $1 + interval '1 day'`, day).
		Scan(&total, &failed); err != nil {
		return nil, err
	}
	if total > 0 {
		stats.ErrorRate = float64(failed) / float64(total)
	}
	return stats, nil
}

package repository

import (
	"context"
	"time"

	"market-timer/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel/trace"
)

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// HistoryRepository persists the one-row-per-day market snapshot table.
type HistoryRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewHistoryRepository(pool PgxPool, tracer trace.Tracer) *HistoryRepository {
	return &HistoryRepository{pool: pool, tracer: tracer}
}

const historyColumns = `
snapshot_date, hy_spread, vix, initial_claims,
spy_close, spy_200ma, spy_vs_200ma,
yield_curve_10y2y, yield_curve_10y3m,
fear_greed, buffett_indicator, equity_risk_premium,
fed_balance_sheet, fed_balance_sheet_yoy, m2, m2_growth_yoy,
dgs10, sp500_pe, gdp, wilshire,
composite_score, created_at, updated_at`

// Upsert writes one daily snapshot, merging into any existing row for the
// same date. Columns absent from the new record keep their stored value, so
// a partial re-run never erases previously collected fields.
func (r *HistoryRepository) Upsert(ctx context.Context, record domain.MarketHistoryRecord) (domain.MarketHistoryRecord, error) {
	_, span := r.tracer.Start(ctx, "history-repo.upsert")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
INSERT INTO market_history (
    snapshot_date, hy_spread, vix, initial_claims,
    spy_close, spy_200ma, spy_vs_200ma,
    yield_curve_10y2y, yield_curve_10y3m,
    fear_greed, buffett_indicator, equity_risk_premium,
    fed_balance_sheet, fed_balance_sheet_yoy, m2, m2_growth_yoy,
    dgs10, sp500_pe, gdp, wilshire,
    composite_score
) VALUES (
    $1, $2, $3, $4,
    $5, $6, $7,
    $8, $9,
    $10, $11, $12,
    $13, $14, $15, $16,
    $17, $18, $19, $20,
    $21
)
ON CONFLICT (snapshot_date) DO UPDATE SET
    hy_spread = COALESCE(EXCLUDED.hy_spread, market_history.hy_spread),
    vix = COALESCE(EXCLUDED.vix, market_history.vix),
    initial_claims = COALESCE(EXCLUDED.initial_claims, market_history.initial_claims),
    spy_close = COALESCE(EXCLUDED.spy_close, market_history.spy_close),
    spy_200ma = COALESCE(EXCLUDED.spy_200ma, market_history.spy_200ma),
    spy_vs_200ma = COALESCE(EXCLUDED.spy_vs_200ma, market_history.spy_vs_200ma),
    yield_curve_10y2y = COALESCE(EXCLUDED.yield_curve_10y2y, market_history.yield_curve_10y2y),
    yield_curve_10y3m = COALESCE(EXCLUDED.yield_curve_10y3m, market_history.yield_curve_10y3m),
    fear_greed = COALESCE(EXCLUDED.fear_greed, market_history.fear_greed),
    buffett_indicator = COALESCE(EXCLUDED.buffett_indicator, market_history.buffett_indicator),
    equity_risk_premium = COALESCE(EXCLUDED.equity_risk_premium, market_history.equity_risk_premium),
    fed_balance_sheet = COALESCE(EXCLUDED.fed_balance_sheet, market_history.fed_balance_sheet),
    fed_balance_sheet_yoy = COALESCE(EXCLUDED.fed_balance_sheet_yoy, market_history.fed_balance_sheet_yoy),
    m2 = COALESCE(EXCLUDED.m2, market_history.m2),
    m2_growth_yoy = COALESCE(EXCLUDED.m2_growth_yoy, market_history.m2_growth_yoy),
    dgs10 = COALESCE(EXCLUDED.dgs10, market_history.dgs10),
    sp500_pe = COALESCE(EXCLUDED.sp500_pe, market_history.sp500_pe),
    gdp = COALESCE(EXCLUDED.gdp, market_history.gdp),
    wilshire = COALESCE(EXCLUDED.wilshire, market_history.wilshire),
    composite_score = COALESCE(EXCLUDED.composite_score, market_history.composite_score),
    updated_at = NOW()
RETURNING `+historyColumns,
		record.SnapshotDate.UTC().Truncate(24*time.Hour),
		nullFloat(record.HYSpread),
		nullFloat(record.VIX),
		nullFloat(record.InitialClaims),
		nullFloat(record.SPYClose),
		nullFloat(record.SPY200MA),
		nullFloat(record.SPYVs200MA),
		nullFloat(record.YieldCurve10Y2Y),
		nullFloat(record.YieldCurve10Y3M),
		nullFloat(record.FearGreed),
		nullFloat(record.BuffettIndicator),
		nullFloat(record.EquityRiskPremium),
		nullFloat(record.FedBalanceSheet),
		nullFloat(record.FedBalanceSheetYoY),
		nullFloat(record.M2),
		nullFloat(record.M2GrowthYoY),
		nullFloat(record.DGS10),
		nullFloat(record.SP500PE),
		nullFloat(record.GDP),
		nullFloat(record.Wilshire),
		nullFloat(record.CompositeScore),
	)
	return scanHistoryRow(row)
}

// GetRecent returns up to limit snapshots ending at the newest, in
// chronological order as the scoring layer expects.
func (r *HistoryRepository) GetRecent(ctx context.Context, limit int) ([]domain.MarketHistoryRecord, error) {
	_, span := r.tracer.Start(ctx, "history-repo.get-recent")
	defer span.End()

	if limit <= 0 {
		limit = 90
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+historyColumns+`
FROM market_history
ORDER BY snapshot_date DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out, err := collectHistoryRows(rows, limit)
	if err != nil {
		return nil, err
	}
	reverseRecords(out)
	return out, nil
}

// GetRange returns snapshots between start and end inclusive, oldest first.
func (r *HistoryRepository) GetRange(ctx context.Context, start, end time.Time) ([]domain.MarketHistoryRecord, error) {
	_, span := r.tracer.Start(ctx, "history-repo.get-range")
	defer span.End()

	rows, err := r.pool.Query(ctx, `
SELECT `+historyColumns+`
FROM market_history
WHERE snapshot_date >= $1 AND snapshot_date <= $2
ORDER BY snapshot_date ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectHistoryRows(rows, 0)
}

// GetLatest returns the newest snapshot, or pgx.ErrNoRows when the table is
// empty.
func (r *HistoryRepository) GetLatest(ctx context.Context) (domain.MarketHistoryRecord, error) {
	_, span := r.tracer.Start(ctx, "history-repo.get-latest")
	defer span.End()

	row := r.pool.QueryRow(ctx, `
SELECT `+historyColumns+`
FROM market_history
ORDER BY snapshot_date DESC
LIMIT 1`)
	return scanHistoryRow(row)
}

// DeleteOlderThan removes snapshots before the cutoff date and reports how
// many rows went away.
func (r *HistoryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	_, span := r.tracer.Start(ctx, "history-repo.delete-older-than")
	defer span.End()

	tag, err := r.pool.Exec(ctx, `DELETE FROM market_history WHERE snapshot_date < $1`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func collectHistoryRows(rows pgx.Rows, sizeHint int) ([]domain.MarketHistoryRecord, error) {
	out := make([]domain.MarketHistoryRecord, 0, sizeHint)
	for rows.Next() {
		record, err := scanHistoryRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func reverseRecords(records []domain.MarketHistoryRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}

func scanHistoryRow(s interface{ Scan(dest ...any) error }) (domain.MarketHistoryRecord, error) {
	var out domain.MarketHistoryRecord
	values := make([]pgtype.Float8, 20)

	if err := s.Scan(
		&out.SnapshotDate,
		&values[0], &values[1], &values[2],
		&values[3], &values[4], &values[5],
		&values[6], &values[7],
		&values[8], &values[9], &values[10],
		&values[11], &values[12], &values[13], &values[14],
		&values[15], &values[16], &values[17], &values[18],
		&values[19],
		&out.CreatedAt,
		&out.UpdatedAt,
	); err != nil {
		return domain.MarketHistoryRecord{}, err
	}

	out.SnapshotDate = out.SnapshotDate.UTC()
	out.CreatedAt = out.CreatedAt.UTC()
	out.UpdatedAt = out.UpdatedAt.UTC()

	assign := func(idx int, dst **float64) {
		if values[idx].Valid {
			v := values[idx].Float64
			*dst = &v
		}
	}
	assign(0, &out.HYSpread)
	assign(1, &out.VIX)
	assign(2, &out.InitialClaims)
	assign(3, &out.SPYClose)
	assign(4, &out.SPY200MA)
	assign(5, &out.SPYVs200MA)
	assign(6, &out.YieldCurve10Y2Y)
	assign(7, &out.YieldCurve10Y3M)
	assign(8, &out.FearGreed)
	assign(9, &out.BuffettIndicator)
	assign(10, &out.EquityRiskPremium)
	assign(11, &out.FedBalanceSheet)
	assign(12, &out.FedBalanceSheetYoY)
	assign(13, &out.M2)
	assign(14, &out.M2GrowthYoY)
	assign(15, &out.DGS10)
	assign(16, &out.SP500PE)
	assign(17, &out.GDP)
	assign(18, &out.Wilshire)
	assign(19, &out.CompositeScore)

	return out, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// Package repository persists enrichment history rows for the stats
// endpoint. The core pipeline works without it; a nil repository disables
// history.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkarpova/enrichment-service/internal/domain"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS enrichment_history (
	id BIGSERIAL PRIMARY KEY,
	product_id TEXT NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	applied_types TEXT NOT NULL DEFAULT '',
	suggestion_count INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Score at or above which a run counts toward the success rate.
const successScore = 70.0

type Repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Migrate creates the history table.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create enrichment_history: %w", err)
	}
	return nil
}

// SaveResult appends one history row per successful enrichment.
func (r *Repository) SaveResult(ctx context.Context, result *domain.EnrichmentResult) error {
	query, args, err := r.sb.Insert("enrichment_history").
		Columns("product_id", "score", "applied_types", "suggestion_count", "created_at").
		Values(
			result.ProductID,
			result.EnrichmentScore,
			strings.Join(result.AppliedEnrichments, ","),
			len(result.Suggestions),
			time.Now().UTC(),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// Stats aggregates the persisted history.
func (r *Repository) Stats(ctx context.Context) (*domain.EnrichmentStats, error) {
	stats := &domain.EnrichmentStats{AppliedTypeCounts: map[string]int64{}}

	query, args, err := r.sb.Select(
		"COUNT(*)",
		"COALESCE(AVG(score), 0)",
		"COALESCE(MIN(score), 0)",
		"COALESCE(MAX(score), 0)",
		fmt.Sprintf("COALESCE(AVG(CASE WHEN score >= %g THEN 1.0 ELSE 0.0 END) * 100, 0)", successScore),
	).From("enrichment_history").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build stats query: %w", err)
	}
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&stats.TotalEnrichments, &stats.AverageScore, &stats.MinScore, &stats.MaxScore, &stats.SuccessRate); err != nil {
		return nil, fmt.Errorf("scan stats: %w", err)
	}

	typeQuery, typeArgs, err := r.sb.Select("t.type", "COUNT(*)").
		From("enrichment_history h, unnest(string_to_array(h.applied_types, ',')) AS t(type)").
		Where(sq.NotEq{"t.type": ""}).
		GroupBy("t.type").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build type counts query: %w", err)
	}
	rows, err := r.pool.Query(ctx, typeQuery, typeArgs...)
	if err != nil {
		return nil, fmt.Errorf("query type counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		stats.AppliedTypeCounts[name] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("type counts rows: %w", err)
	}

	return stats, nil
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
)

// QueryLogRepository persists answered queries so the analytics endpoint can
// show recent activity across restarts.
type QueryLogRepository struct {
	db *sql.DB
}

func NewQueryLogRepository(db *sql.DB) *QueryLogRepository {
	return &QueryLogRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *QueryLogRepository) Name() string { return "postgres" }

func (r *QueryLogRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082801)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS query_log (
	id BIGSERIAL PRIMARY KEY,
	query_text TEXT NOT NULL,
	user_role TEXT,
	result_count INT NOT NULL,
	confidence_score DOUBLE PRECISION NOT NULL,
	cache_hit BOOLEAN NOT NULL,
	asked_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_query_log_asked_at ON query_log(asked_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *QueryLogRepository) Record(ctx context.Context, entry domain.QueryLogEntry) error {
	askedAt, err := time.Parse(time.RFC3339, entry.AskedAt)
	if err != nil {
		askedAt = time.Now().UTC()
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO query_log (query_text, user_role, result_count, confidence_score, cache_hit, asked_at)
VALUES ($1,$2,$3,$4,$5,$6)
`,
		entry.QueryText, entry.UserRole, entry.ResultCount, entry.ConfidenceScore, entry.CacheHit, askedAt,
	)
	if err != nil {
		return fmt.Errorf("insert query log entry: %w", err)
	}
	return nil
}

func (r *QueryLogRepository) Recent(ctx context.Context, limit int) ([]domain.QueryLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT query_text, user_role, result_count, confidence_score, cache_hit, asked_at
FROM query_log
ORDER BY asked_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent queries: %w", err)
	}
	defer rows.Close()

	var out []domain.QueryLogEntry
	for rows.Next() {
		var entry domain.QueryLogEntry
		var userRole sql.NullString
		var askedAt time.Time

		if err := rows.Scan(
			&entry.QueryText, &userRole, &entry.ResultCount,
			&entry.ConfidenceScore, &entry.CacheHit, &askedAt,
		); err != nil {
			return nil, fmt.Errorf("scan query log row: %w", err)
		}
		entry.UserRole = userRole.String
		entry.AskedAt = askedAt.UTC().Format(time.RFC3339)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query log rows: %w", err)
	}
	return out, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"LedgerSeek/internal/domain/models"
	"LedgerSeek/internal/domain/repository"
)

// ClickHouseHistory implements HistoryStore for ClickHouse. It is an audit
// trail of completed lookups, never a source of answers.
type ClickHouseHistory struct {
	db    *sql.DB
	table string
}

// NewClickHouseHistory creates ClickHouse-backed lookup history.
func NewClickHouseHistory(db *sql.DB, table string) repository.HistoryStore {
	return &ClickHouseHistory{db: db, table: table}
}

// Schema returns the idempotent statements the client runs at startup.
func Schema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			requested_at DateTime,
			target Int64,
			sequence Int64,
			close_time Int64,
			iterations Int32,
			duration_ms Int64
		) ENGINE=MergeTree ORDER BY requested_at`, table),
	}
}

func (s *ClickHouseHistory) Record(ctx context.Context, l *models.Lookup) error {
	q := fmt.Sprintf("INSERT INTO %s (requested_at, target, sequence, close_time, iterations, duration_ms) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	_, err := s.db.ExecContext(ctx, q,
		time.Now().UTC(),
		l.Target,
		l.Sequence,
		l.CloseTime,
		int32(l.Iterations),
		l.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("record lookup: %w", err)
	}
	return nil
}

func (s *ClickHouseHistory) Recent(ctx context.Context, limit int) ([]*models.Lookup, error) {
	q := fmt.Sprintf("SELECT requested_at, target, sequence, close_time, iterations, duration_ms FROM %s ORDER BY requested_at DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("query lookups: %w", err)
	}
	defer rows.Close()

	var out []*models.Lookup
	for rows.Next() {
		var (
			at         time.Time
			l          models.Lookup
			iterations int32
		)
		if err := rows.Scan(&at, &l.Target, &l.Sequence, &l.CloseTime, &iterations, &l.DurationMS); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		l.Iterations = int(iterations)
		l.RequestedAt = at.UTC().Format(time.RFC3339)
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (s *ClickHouseHistory) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseHistory) Close() error {
	return nil // pool closed by the owning client
}

// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/jackc/pgx/v5/pgxpool"

	"walletwhisper/internal/domain"
)

type Storage struct {
	db *pgxpool.Pool
}

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

// Connect opens a pool and waits for the database to answer.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	err = retry.Do(
		func() error {
			return pool.Ping(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("database not ready, retrying", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// === JournalStorage ===

func (s *Storage) RecordCommand(ctx context.Context, entry domain.JournalEntry) error {
	var kind *string
	if entry.Kind != "" {
		kind = &entry.Kind
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO command_journal (request_id, source, kind, outcome, received_at)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.RequestID, string(entry.Source), kind, string(entry.Outcome), entry.ReceivedAt)
	if err != nil {
		return fmt.Errorf("record command: %w", err)
	}
	return nil
}

// CountByOutcome groups journal rows received since the given time.
func (s *Storage) CountByOutcome(ctx context.Context, since time.Time) (map[domain.Outcome]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT outcome, COUNT(*)
		FROM command_journal
		WHERE received_at >= $1
		GROUP BY outcome
	`, since)
	if err != nil {
		return nil, fmt.Errorf("count commands: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Outcome]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[domain.Outcome(outcome)] = n
	}
	return counts, rows.Err()
}

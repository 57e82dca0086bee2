package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrStageAlreadySeeded signals that another caller won the race to
// materialize a playoff round. Callers treat it as a no-op and re-read.
var ErrStageAlreadySeeded = errors.New("playoff stage already seeded")

// StageRepository guards stage creation: the unique round row makes
// materializing a playoff round an at-most-once operation.
type StageRepository interface {
	MarkSeeded(ctx context.Context, exec SQLExecutor, round int) error
	SeededRounds(ctx context.Context) ([]int, error)
}

type postgresStageRepository struct {
	db *sql.DB
}

func NewPostgresStageRepository(db *sql.DB) StageRepository {
	return &postgresStageRepository{db: db}
}

func (r *postgresStageRepository) MarkSeeded(ctx context.Context, exec SQLExecutor, round int) error {
	query := `INSERT INTO playoff_stages (round) VALUES ($1)`

	_, err := exec.ExecContext(ctx, query, round)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrStageAlreadySeeded
		}
		return fmt.Errorf("failed to mark stage %d as seeded: %w", round, err)
	}
	return nil
}

func (r *postgresStageRepository) SeededRounds(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT round FROM playoff_stages ORDER BY round ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query seeded stages: %w", err)
	}
	defer rows.Close()

	rounds := make([]int, 0)
	for rows.Next() {
		var round int
		if scanErr := rows.Scan(&round); scanErr != nil {
			return nil, fmt.Errorf("failed to scan stage row: %w", scanErr)
		}
		rounds = append(rounds, round)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during stage rows iteration: %w", err)
	}
	return rounds, nil
}

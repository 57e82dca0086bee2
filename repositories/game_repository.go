package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aibotsim/arena/models"
	"github.com/lib/pq"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameTeamInvalid = errors.New("game references an unknown bot")
)

type GameRepository interface {
	// Create inserts the game and assigns its id from the store's sequence,
	// never by counting existing rows.
	Create(ctx context.Context, exec SQLExecutor, game *models.Game) error
	GetByID(ctx context.Context, gameID int) (*models.Game, error)
	// GetByIDForUpdate locks the game row for the duration of the
	// surrounding transaction.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, gameID int) (*models.Game, error)
	FirstOpen(ctx context.Context) (*models.Game, error)
	ListOpen(ctx context.Context, limit int) ([]*models.Game, error)
	ListByBot(ctx context.Context, botID string) ([]*models.Game, error)
	ListByRound(ctx context.Context, round int) ([]*models.Game, error)
	CountAll(ctx context.Context) (int, error)
	UpdateSeriesWins(ctx context.Context, exec SQLExecutor, gameID, team1Wins, team2Wins int) error
	SetWinner(ctx context.Context, exec SQLExecutor, gameID int, winner, narrative string) error
}

type postgresGameRepository struct {
	db *sql.DB
}

func NewPostgresGameRepository(db *sql.DB) GameRepository {
	return &postgresGameRepository{db: db}
}

const gameColumns = `game_id, team1, team2, series, team1_wins, team2_wins, series_target,
	       playoff_round, championship, winner, result_narrative, created_at`

func scanGame(row interface{ Scan(...interface{}) error }) (*models.Game, error) {
	game := &models.Game{}
	err := row.Scan(
		&game.GameID,
		&game.Team1,
		&game.Team2,
		&game.Series,
		&game.Team1Wins,
		&game.Team2Wins,
		&game.SeriesTarget,
		&game.PlayoffRound,
		&game.Championship,
		&game.Winner,
		&game.ResultNarrative,
		&game.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return game, nil
}

func (r *postgresGameRepository) Create(ctx context.Context, exec SQLExecutor, game *models.Game) error {
	query := `
		INSERT INTO games
			(team1, team2, series, team1_wins, team2_wins, series_target, playoff_round, championship)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING game_id, created_at`

	err := exec.QueryRowContext(ctx, query,
		game.Team1,
		game.Team2,
		game.Series,
		game.Team1Wins,
		game.Team2Wins,
		game.SeriesTarget,
		game.PlayoffRound,
		game.Championship,
	).Scan(&game.GameID, &game.CreatedAt)

	return r.handleGameError(err)
}

func (r *postgresGameRepository) GetByID(ctx context.Context, gameID int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1`

	game, err := scanGame(r.db.QueryRowContext(ctx, query, gameID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan game %d: %w", gameID, err)
	}
	return game, nil
}

func (r *postgresGameRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, gameID int) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1 FOR UPDATE`

	game, err := scanGame(exec.QueryRowContext(ctx, query, gameID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to lock game %d: %w", gameID, err)
	}
	return game, nil
}

// FirstOpen returns the lowest-id game with no winner, or ErrGameNotFound
// when every existing game is decided.
func (r *postgresGameRepository) FirstOpen(ctx context.Context) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE winner IS NULL ORDER BY game_id ASC LIMIT 1`

	game, err := scanGame(r.db.QueryRowContext(ctx, query))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to scan first open game: %w", err)
	}
	return game, nil
}

func (r *postgresGameRepository) ListOpen(ctx context.Context, limit int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE winner IS NULL ORDER BY game_id ASC LIMIT $1`

	return r.queryGames(ctx, query, limit)
}

func (r *postgresGameRepository) ListByBot(ctx context.Context, botID string) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE team1 = $1 OR team2 = $1 ORDER BY game_id ASC`

	return r.queryGames(ctx, query, botID)
}

func (r *postgresGameRepository) ListByRound(ctx context.Context, round int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE playoff_round = $1 ORDER BY game_id ASC`

	return r.queryGames(ctx, query, round)
}

func (r *postgresGameRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}

func (r *postgresGameRepository) UpdateSeriesWins(ctx context.Context, exec SQLExecutor, gameID, team1Wins, team2Wins int) error {
	query := `UPDATE games SET team1_wins = $1, team2_wins = $2 WHERE game_id = $3`

	result, err := exec.ExecContext(ctx, query, team1Wins, team2Wins, gameID)
	if err != nil {
		return fmt.Errorf("failed to update series wins for game %d: %w", gameID, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

// SetWinner finalizes a game. The winner column is written at most once;
// the WHERE clause refuses to overwrite an already-decided game.
func (r *postgresGameRepository) SetWinner(ctx context.Context, exec SQLExecutor, gameID int, winner, narrative string) error {
	query := `UPDATE games SET winner = $1, result_narrative = $2 WHERE game_id = $3 AND winner IS NULL`

	result, err := exec.ExecContext(ctx, query, winner, narrative, gameID)
	if err != nil {
		return r.handleGameError(err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) queryGames(ctx context.Context, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		game, scanErr := scanGame(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		games = append(games, game)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during game rows iteration: %w", err)
	}
	return games, nil
}

func (r *postgresGameRepository) handleGameError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		// 23503: foreign_key_violation
		switch pqErr.Constraint {
		case "games_team1_fkey", "games_team2_fkey", "games_winner_fkey":
			return ErrGameTeamInvalid
		}
	}
	return err
}

package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aibotsim/arena/models"
)

var ErrBotNotFound = errors.New("bot not found")

type BotRepository interface {
	GetByID(ctx context.Context, botID string) (*models.Bot, error)
	GetByName(ctx context.Context, name string) (*models.Bot, error)
	ListRanked(ctx context.Context) ([]*models.Bot, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
	IncrementRecord(ctx context.Context, exec SQLExecutor, botID string, wins, losses, championships int) error
	UpdateImage(ctx context.Context, botID string, imageKey, contentType string) error
}

type postgresBotRepository struct {
	db *sql.DB
}

func NewPostgresBotRepository(db *sql.DB) BotRepository {
	return &postgresBotRepository{db: db}
}

const botColumns = `bot_id, name, battle_capability, wins, losses, championships, image_key, image_content_type`

func scanBot(row interface{ Scan(...interface{}) error }) (*models.Bot, error) {
	bot := &models.Bot{}
	err := row.Scan(
		&bot.BotID,
		&bot.Name,
		&bot.BattleCapability,
		&bot.Wins,
		&bot.Losses,
		&bot.Championships,
		&bot.ImageKey,
		&bot.ImageContentType,
	)
	if err != nil {
		return nil, err
	}
	return bot, nil
}

func (r *postgresBotRepository) GetByID(ctx context.Context, botID string) (*models.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE bot_id = $1`

	bot, err := scanBot(r.db.QueryRowContext(ctx, query, botID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBotNotFound
		}
		return nil, fmt.Errorf("failed to scan bot %q: %w", botID, err)
	}
	return bot, nil
}

func (r *postgresBotRepository) GetByName(ctx context.Context, name string) (*models.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots WHERE LOWER(name) = LOWER($1)`

	bot, err := scanBot(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBotNotFound
		}
		return nil, fmt.Errorf("failed to scan bot by name %q: %w", name, err)
	}
	return bot, nil
}

// ListRanked returns every bot ordered by wins descending with bot_id
// ascending as the tie-break, the order playoff seeding is derived from.
func (r *postgresBotRepository) ListRanked(ctx context.Context) ([]*models.Bot, error) {
	query := `SELECT ` + botColumns + ` FROM bots ORDER BY wins DESC, bot_id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranked bots: %w", err)
	}
	defer rows.Close()

	bots := make([]*models.Bot, 0)
	for rows.Next() {
		bot, scanErr := scanBot(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan bot row: %w", scanErr)
		}
		bots = append(bots, bot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bot rows iteration: %w", err)
	}
	return bots, nil
}

func (r *postgresBotRepository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `SELECT bot_id, wins, losses FROM bots ORDER BY wins DESC, bot_id ASC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var entry models.LeaderboardEntry
		if scanErr := rows.Scan(&entry.BotID, &entry.Wins, &entry.Losses); scanErr != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", scanErr)
		}
		entries = append(entries, &entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during leaderboard rows iteration: %w", err)
	}
	return entries, nil
}

// IncrementRecord adds deltas to a bot's cumulative counters. It is called
// once per resolved battle, inside the same transaction that updates the game.
func (r *postgresBotRepository) IncrementRecord(ctx context.Context, exec SQLExecutor, botID string, wins, losses, championships int) error {
	query := `
		UPDATE bots
		SET wins = wins + $1, losses = losses + $2, championships = championships + $3
		WHERE bot_id = $4`

	result, err := exec.ExecContext(ctx, query, wins, losses, championships, botID)
	if err != nil {
		return fmt.Errorf("failed to update record for bot %q: %w", botID, err)
	}
	return checkAffectedRows(result, ErrBotNotFound)
}

func (r *postgresBotRepository) UpdateImage(ctx context.Context, botID string, imageKey, contentType string) error {
	query := `UPDATE bots SET image_key = $1, image_content_type = $2 WHERE bot_id = $3`

	result, err := r.db.ExecContext(ctx, query, imageKey, contentType, botID)
	if err != nil {
		return fmt.Errorf("failed to update image for bot %q: %w", botID, err)
	}
	return checkAffectedRows(result, ErrBotNotFound)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aibotsim/arena/brackets"
	"github.com/aibotsim/arena/models"
	"github.com/aibotsim/arena/oracle"
	"github.com/aibotsim/arena/repositories"
)

// EventPublisher pushes arena events to spectators. The websocket hub
// satisfies it; a nil publisher disables the feed.
type EventPublisher interface {
	BroadcastEvent(eventType string, payload interface{})
}

// BattleService resolves battles through the oracle and tracks best-of-N
// series state on top of the game records.
type BattleService interface {
	// ResolveBattle runs one battle for an open game: oracle call first,
	// then the outcome is folded into the store. An oracle failure leaves
	// the store untouched.
	ResolveBattle(ctx context.Context, gameID int) (*oracle.BattleResult, error)

	// RecordBattleOutcome applies one already-resolved battle result to a
	// game and both competitors' records, atomically.
	RecordBattleOutcome(ctx context.Context, gameID int, result *oracle.BattleResult) (*models.Game, error)
}

type battleService struct {
	txRunner  repositories.TxRunner
	gameRepo  repositories.GameRepository
	botRepo   repositories.BotRepository
	battles   oracle.BattleOracle
	publisher EventPublisher
	logger    *slog.Logger

	// Fallback first-to-N target for series rows created before the
	// target column existed.
	defaultSeriesTarget int
}

func NewBattleService(
	txRunner repositories.TxRunner,
	gameRepo repositories.GameRepository,
	botRepo repositories.BotRepository,
	battles oracle.BattleOracle,
	publisher EventPublisher,
	logger *slog.Logger,
	defaultSeriesTarget int,
) BattleService {
	return &battleService{
		txRunner:            txRunner,
		gameRepo:            gameRepo,
		botRepo:             botRepo,
		battles:             battles,
		publisher:           publisher,
		logger:              logger,
		defaultSeriesTarget: defaultSeriesTarget,
	}
}

func (s *battleService) ResolveBattle(ctx context.Context, gameID int) (*oracle.BattleResult, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %d: %w", gameID, err)
	}
	if !game.Open() {
		return nil, ErrGameAlreadyDecided
	}

	team1, err := s.loadBot(ctx, game.Team1)
	if err != nil {
		return nil, err
	}
	team2, err := s.loadBot(ctx, game.Team2)
	if err != nil {
		return nil, err
	}

	result, err := s.battles.ResolveBattle(ctx, team1, team2)
	if err != nil {
		s.logger.Error("oracle resolution failed",
			slog.Int("game_id", gameID), slog.Any("error", err))
		return nil, err
	}

	updated, err := s.RecordBattleOutcome(ctx, gameID, result)
	if err != nil {
		return nil, err
	}

	s.logger.Info("battle resolved",
		slog.Int("game_id", gameID),
		slog.String("winner", result.WinnerID),
		slog.Bool("game_decided", !updated.Open()))

	if s.publisher != nil {
		s.publisher.BroadcastEvent(brackets.EventBattleResolved, map[string]interface{}{
			"gameId": gameID,
			"winner": result.WinnerID,
			"game":   updated,
		})
		if !updated.Open() && updated.IsChampionship() {
			s.publisher.BroadcastEvent(brackets.EventChampionDeclared, map[string]interface{}{
				"champion": *updated.Winner,
			})
		}
	}

	return result, nil
}

// RecordBattleOutcome runs the whole finalize sequence in one transaction
// with the game row locked, so concurrent battle calls for the same game
// cannot double-increment counters or race to set the terminal winner.
//
// Competitor win/loss counters accrue on every resolved battle, even
// mid-series; the game's winner field is written only when the series is
// clinched (or immediately for a non-series game).
func (s *battleService) RecordBattleOutcome(ctx context.Context, gameID int, result *oracle.BattleResult) (*models.Game, error) {
	var updated *models.Game

	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		game, err := s.gameRepo.GetByIDForUpdate(ctx, exec, gameID)
		if err != nil {
			if errors.Is(err, repositories.ErrGameNotFound) {
				return ErrGameNotFound
			}
			return err
		}
		if !game.Open() {
			return ErrGameAlreadyDecided
		}

		var loser string
		switch result.WinnerID {
		case game.Team1:
			loser = game.Team2
		case game.Team2:
			loser = game.Team1
		default:
			return fmt.Errorf("%w: %q is not in game %d", ErrUnknownWinner, result.WinnerID, gameID)
		}

		if err := s.botRepo.IncrementRecord(ctx, exec, result.WinnerID, 1, 0, 0); err != nil {
			return err
		}
		if err := s.botRepo.IncrementRecord(ctx, exec, loser, 0, 1, 0); err != nil {
			return err
		}

		if !game.Series {
			if err := s.gameRepo.SetWinner(ctx, exec, gameID, result.WinnerID, result.Narrative); err != nil {
				return err
			}
			game.Winner = &result.WinnerID
			game.ResultNarrative = &result.Narrative
			updated = game
			return nil
		}

		if result.WinnerID == game.Team1 {
			game.Team1Wins++
		} else {
			game.Team2Wins++
		}
		if err := s.gameRepo.UpdateSeriesWins(ctx, exec, gameID, game.Team1Wins, game.Team2Wins); err != nil {
			return err
		}

		target := game.SeriesTarget
		if target <= 0 {
			target = s.defaultSeriesTarget
		}

		if game.Team1Wins >= target || game.Team2Wins >= target {
			if err := s.gameRepo.SetWinner(ctx, exec, gameID, result.WinnerID, result.Narrative); err != nil {
				return err
			}
			game.Winner = &result.WinnerID
			game.ResultNarrative = &result.Narrative

			if game.IsChampionship() {
				if err := s.botRepo.IncrementRecord(ctx, exec, result.WinnerID, 0, 0, 1); err != nil {
					return err
				}
			}
		}
		updated = game
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *battleService) loadBot(ctx context.Context, botID string) (*models.Bot, error) {
	bot, err := s.botRepo.GetByID(ctx, botID)
	if err != nil {
		if errors.Is(err, repositories.ErrBotNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrBotNotFound, botID)
		}
		return nil, fmt.Errorf("failed to load bot %q: %w", botID, err)
	}
	return bot, nil
}

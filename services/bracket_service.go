package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aibotsim/arena/brackets"
	"github.com/aibotsim/arena/models"
	"github.com/aibotsim/arena/repositories"
)

// NextGame is the progression engine's answer to "what should be played
// now": either an open game, or the declared champion once the bracket
// is complete.
type NextGame struct {
	Game     *models.Game
	Champion *models.Bot
}

// BracketService is the tournament progression engine. It never caches
// state across calls; every decision derives from the stored game records.
type BracketService interface {
	// EnsureNextGame returns the lowest-id open game, materializing the
	// next bracket stage first when the current one is exhausted. Repeated
	// calls with no intervening state change return the same game and
	// create no duplicates.
	EnsureNextGame(ctx context.Context) (*NextGame, error)

	// SeedPlayoffs is the manual trigger behind the admin endpoint. The
	// returned bool is false when round one had already been seeded.
	SeedPlayoffs(ctx context.Context) (bool, error)
}

type bracketService struct {
	txRunner  repositories.TxRunner
	gameRepo  repositories.GameRepository
	botRepo   repositories.BotRepository
	stageRepo repositories.StageRepository
	publisher EventPublisher
	logger    *slog.Logger

	seriesTarget int
}

func NewBracketService(
	txRunner repositories.TxRunner,
	gameRepo repositories.GameRepository,
	botRepo repositories.BotRepository,
	stageRepo repositories.StageRepository,
	publisher EventPublisher,
	logger *slog.Logger,
	seriesTarget int,
) BracketService {
	return &bracketService{
		txRunner:     txRunner,
		gameRepo:     gameRepo,
		botRepo:      botRepo,
		stageRepo:    stageRepo,
		publisher:    publisher,
		logger:       logger,
		seriesTarget: seriesTarget,
	}
}

// Bounds the open-game / advance-stage loop. Two passes suffice in the
// happy path (advance, then read the freshly created games); the third
// absorbs one lost seeding race.
const maxAdvanceAttempts = 3

func (s *bracketService) EnsureNextGame(ctx context.Context) (*NextGame, error) {
	for attempt := 0; attempt < maxAdvanceAttempts; attempt++ {
		game, err := s.gameRepo.FirstOpen(ctx)
		if err == nil {
			return &NextGame{Game: game}, nil
		}
		if !errors.Is(err, repositories.ErrGameNotFound) {
			return nil, fmt.Errorf("failed to find open game: %w", err)
		}

		total, err := s.gameRepo.CountAll(ctx)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			return nil, ErrNoGamesExist
		}

		champion, err := s.advanceStage(ctx)
		if err != nil {
			return nil, err
		}
		if champion != nil {
			return &NextGame{Champion: champion}, nil
		}
	}
	return nil, fmt.Errorf("bracket did not converge after %d attempts", maxAdvanceAttempts)
}

// advanceStage materializes the next undecided stage. It is called only
// when every existing game is decided, so each prerequisite round is
// guaranteed complete before the next one's pairings are formed.
func (s *bracketService) advanceStage(ctx context.Context) (*models.Bot, error) {
	round1, err := s.gameRepo.ListByRound(ctx, models.PlayoffRound1)
	if err != nil {
		return nil, err
	}
	if len(round1) == 0 {
		// Season exhausted and no playoff marker yet: seed round one.
		_, err := s.seedRoundOne(ctx)
		return nil, err
	}

	round2, err := s.gameRepo.ListByRound(ctx, models.PlayoffRound2)
	if err != nil {
		return nil, err
	}
	if len(round2) == 0 {
		return nil, s.createRound(ctx, models.PlayoffRound2, round1)
	}

	finals, err := s.gameRepo.ListByRound(ctx, models.PlayoffChampionship)
	if err != nil {
		return nil, err
	}
	if len(finals) == 0 {
		return nil, s.createRound(ctx, models.PlayoffChampionship, round2)
	}

	// Championship decided: the bracket is complete.
	final := finals[0]
	if final.Winner == nil {
		return nil, fmt.Errorf("championship game %d has no open state and no winner", final.GameID)
	}
	champion, err := s.botRepo.GetByID(ctx, *final.Winner)
	if err != nil {
		return nil, fmt.Errorf("failed to load champion %q: %w", *final.Winner, err)
	}
	return champion, nil
}

func (s *bracketService) seedRoundOne(ctx context.Context) (bool, error) {
	bots, err := s.botRepo.ListRanked(ctx)
	if err != nil {
		return false, err
	}

	pairings, err := brackets.SeedRoundOne(bots)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrNotEnoughCompetitors, err)
	}

	return s.createStage(ctx, models.PlayoffRound1, pairings)
}

func (s *bracketService) createRound(ctx context.Context, round int, previous []*models.Game) error {
	pairings, err := brackets.PairWinners(previous)
	if err != nil {
		return fmt.Errorf("cannot advance to round %d: %w", round, err)
	}
	_, err = s.createStage(ctx, round, pairings)
	return err
}

// createStage writes the stage marker and the stage's games in one
// transaction. Losing the marker race rolls everything back and reports
// success: the other caller has already seeded the identical stage.
func (s *bracketService) createStage(ctx context.Context, round int, pairings []brackets.Pairing) (bool, error) {
	err := s.txRunner.RunInTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.stageRepo.MarkSeeded(ctx, exec, round); err != nil {
			return err
		}
		for _, pairing := range pairings {
			game := &models.Game{
				Team1:        pairing.Team1,
				Team2:        pairing.Team2,
				Series:       true,
				SeriesTarget: s.seriesTarget,
				PlayoffRound: &round,
				Championship: round == models.PlayoffChampionship,
			}
			if err := s.gameRepo.Create(ctx, exec, game); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrStageAlreadySeeded) {
			s.logger.Info("stage already seeded by a concurrent caller", slog.Int("round", round))
			return false, nil
		}
		return false, fmt.Errorf("failed to create round %d games: %w", round, err)
	}

	s.logger.Info("playoff stage seeded",
		slog.Int("round", round), slog.Int("games", len(pairings)))

	if s.publisher != nil {
		s.publisher.BroadcastEvent(brackets.EventStageSeeded, map[string]interface{}{
			"round":    round,
			"pairings": pairings,
		})
	}
	return true, nil
}

func (s *bracketService) SeedPlayoffs(ctx context.Context) (bool, error) {
	rounds, err := s.stageRepo.SeededRounds(ctx)
	if err != nil {
		return false, err
	}
	for _, round := range rounds {
		if round == models.PlayoffRound1 {
			return false, nil
		}
	}
	return s.seedRoundOne(ctx)
}

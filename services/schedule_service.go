package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aibotsim/arena/models"
	"github.com/aibotsim/arena/repositories"
	"golang.org/x/sync/errgroup"
)

// NextGameView is the next-game response enriched with both competitors'
// display data, or the champion when the tournament is over.
type NextGameView struct {
	Game     *models.Game `json:"game,omitempty"`
	Team1    *models.Bot  `json:"team1,omitempty"`
	Team2    *models.Bot  `json:"team2,omitempty"`
	Champion *models.Bot  `json:"champion,omitempty"`
}

// ScheduleService exposes read-only views over the games the bracket
// engine mutates. Only NextGame has the bracket-advancement side effect.
type ScheduleService interface {
	NextGame(ctx context.Context) (*NextGameView, error)
	NextGames(ctx context.Context, n int) ([]*models.Game, error)
	GetGame(ctx context.Context, gameID int) (*models.Game, error)
	GamesForBot(ctx context.Context, botID string) ([]*models.Game, error)
}

type scheduleService struct {
	bracket  BracketService
	gameRepo repositories.GameRepository
	botRepo  repositories.BotRepository
}

func NewScheduleService(
	bracket BracketService,
	gameRepo repositories.GameRepository,
	botRepo repositories.BotRepository,
) ScheduleService {
	return &scheduleService{
		bracket:  bracket,
		gameRepo: gameRepo,
		botRepo:  botRepo,
	}
}

func (s *scheduleService) NextGame(ctx context.Context) (*NextGameView, error) {
	next, err := s.bracket.EnsureNextGame(ctx)
	if err != nil {
		return nil, err
	}
	if next.Champion != nil {
		return &NextGameView{Champion: next.Champion}, nil
	}

	view := &NextGameView{Game: next.Game}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bot, err := s.botRepo.GetByID(gctx, next.Game.Team1)
		if err != nil {
			return fmt.Errorf("failed to load team1 %q: %w", next.Game.Team1, err)
		}
		view.Team1 = bot
		return nil
	})
	g.Go(func() error {
		bot, err := s.botRepo.GetByID(gctx, next.Game.Team2)
		if err != nil {
			return fmt.Errorf("failed to load team2 %q: %w", next.Game.Team2, err)
		}
		view.Team2 = bot
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return view, nil
}

func (s *scheduleService) NextGames(ctx context.Context, n int) ([]*models.Game, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: count must be positive", ErrValidationFailed)
	}
	games, err := s.gameRepo.ListOpen(ctx, n)
	if err != nil {
		return nil, err
	}
	if games == nil {
		return []*models.Game{}, nil
	}
	return games, nil
}

func (s *scheduleService) GetGame(ctx context.Context, gameID int) (*models.Game, error) {
	game, err := s.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (s *scheduleService) GamesForBot(ctx context.Context, botID string) ([]*models.Game, error) {
	if _, err := s.botRepo.GetByID(ctx, botID); err != nil {
		if errors.Is(err, repositories.ErrBotNotFound) {
			return nil, ErrBotNotFound
		}
		return nil, err
	}

	games, err := s.gameRepo.ListByBot(ctx, botID)
	if err != nil {
		return nil, err
	}
	if games == nil {
		return []*models.Game{}, nil
	}
	return games, nil
}

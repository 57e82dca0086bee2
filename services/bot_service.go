package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aibotsim/arena/models"
	"github.com/aibotsim/arena/repositories"
	"github.com/aibotsim/arena/storage"
)

const leaderboardLimit = 15

// BotImage is an opened image blob. Callers own Body and must close it.
type BotImage struct {
	ContentType string
	Body        io.ReadCloser
}

// BotService is the competitor registry's read surface plus image handling.
type BotService interface {
	GetBot(ctx context.Context, botID string) (*models.Bot, error)
	Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error)
	GetImage(ctx context.Context, botID string) (*BotImage, error)
	UploadImage(ctx context.Context, botID, contentType string, r io.Reader) error
}

type botService struct {
	botRepo repositories.BotRepository
	files   storage.FileStorage
}

func NewBotService(botRepo repositories.BotRepository, files storage.FileStorage) BotService {
	return &botService{
		botRepo: botRepo,
		files:   files,
	}
}

func (s *botService) GetBot(ctx context.Context, botID string) (*models.Bot, error) {
	bot, err := s.botRepo.GetByID(ctx, botID)
	if err != nil {
		if errors.Is(err, repositories.ErrBotNotFound) {
			return nil, ErrBotNotFound
		}
		return nil, err
	}
	return bot, nil
}

func (s *botService) Leaderboard(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	entries, err := s.botRepo.Leaderboard(ctx, leaderboardLimit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return []*models.LeaderboardEntry{}, nil
	}
	return entries, nil
}

func (s *botService) GetImage(ctx context.Context, botID string) (*BotImage, error) {
	bot, err := s.GetBot(ctx, botID)
	if err != nil {
		return nil, err
	}
	if bot.ImageKey == nil {
		return nil, ErrImageNotFound
	}

	obj, err := s.files.Fetch(ctx, *bot.ImageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to fetch image for bot %q: %w", botID, err)
	}

	contentType := obj.ContentType
	if contentType == "" && bot.ImageContentType != nil {
		contentType = *bot.ImageContentType
	}

	return &BotImage{ContentType: contentType, Body: obj.Body}, nil
}

func (s *botService) UploadImage(ctx context.Context, botID, contentType string, r io.Reader) error {
	if contentType == "" {
		return fmt.Errorf("%w: content type is required", ErrValidationFailed)
	}
	if _, err := s.GetBot(ctx, botID); err != nil {
		return err
	}

	key := "bots/" + botID
	if _, err := s.files.Upload(ctx, key, contentType, r); err != nil {
		return fmt.Errorf("failed to upload image for bot %q: %w", botID, err)
	}

	if err := s.botRepo.UpdateImage(ctx, botID, key, contentType); err != nil {
		return err
	}
	return nil
}

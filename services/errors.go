package services

import "errors"

// Sentinel errors shared across services and the HTTP error mapping.
var (
	// Resources
	ErrBotNotFound    = errors.New("bot not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrImageNotFound  = errors.New("bot image not found")
	ErrNoGamesExist   = errors.New("no active games found")

	// Battle resolution / series tracking
	ErrGameAlreadyDecided = errors.New("game already has a winner")
	ErrUnknownWinner      = errors.New("battle winner is not a competitor of the game")

	// Bracket progression
	ErrNotEnoughCompetitors = errors.New("not enough competitors to seed the playoff bracket")
	ErrSeasonNotFinished    = errors.New("season games are not all decided yet")

	// Validation
	ErrValidationFailed = errors.New("validation failed")
)

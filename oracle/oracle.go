// Package oracle resolves a matchup between two bots into a winner and a
// battle narrative by calling an external text-generation service. The
// service is stochastic: two calls for the same matchup may return different
// winners. Nothing is cached and no retries are attempted.
package oracle

import (
	"context"
	"errors"

	"github.com/aibotsim/arena/models"
)

var (
	// ErrUnavailable wraps transport or service failures of the generator.
	ErrUnavailable = errors.New("battle oracle unavailable")
	// ErrUnparseableResponse means the completion carried no recognizable
	// resulttext/winner pair. The caller must not mutate any state.
	ErrUnparseableResponse = errors.New("battle oracle returned an unparseable response")
)

// BattleResult is one resolved contest within a game. It is ephemeral;
// the series tracker folds it into the game and bot records.
type BattleResult struct {
	WinnerID  string `json:"winner"`
	Narrative string `json:"resultNarrative"`
}

// BattleOracle turns two competitors into a battle result. Production
// bindings call the generative service; tests substitute a deterministic stub.
type BattleOracle interface {
	ResolveBattle(ctx context.Context, team1, team2 *models.Bot) (*BattleResult, error)
}

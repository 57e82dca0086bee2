// Package brackets holds the pure pairing rules of the playoff bracket and
// the websocket hub that streams arena events to spectators.
package brackets

import (
	"fmt"
	"sort"

	"github.com/aibotsim/arena/models"
)

// PlayoffTeams is the bracket width: the top eight season finishers enter
// round one as four best-of-N series.
const PlayoffTeams = 8

// Pairing is one scheduled playoff matchup, Team1 being the higher seed.
type Pairing struct {
	Team1 string
	Team2 string
}

// SeedRoundOne ranks bots by wins descending (bot id ascending as the
// deterministic tie-break) and pairs seed 1 vs 8, 2 vs 7, 3 vs 6, 4 vs 5,
// so rank-adjacent bots cannot meet before the later rounds.
func SeedRoundOne(bots []*models.Bot) ([]Pairing, error) {
	if len(bots) < PlayoffTeams {
		return nil, fmt.Errorf("not enough bots to seed the playoff bracket (need %d, found %d)", PlayoffTeams, len(bots))
	}

	ranked := make([]*models.Bot, len(bots))
	copy(ranked, bots)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Wins != ranked[j].Wins {
			return ranked[i].Wins > ranked[j].Wins
		}
		return ranked[i].BotID < ranked[j].BotID
	})
	ranked = ranked[:PlayoffTeams]

	pairings := make([]Pairing, 0, PlayoffTeams/2)
	for i := 0; i < PlayoffTeams/2; i++ {
		pairings = append(pairings, Pairing{
			Team1: ranked[i].BotID,
			Team2: ranked[PlayoffTeams-1-i].BotID,
		})
	}
	return pairings, nil
}

// PairWinners folds one decided round into the next: the winner of the
// first game meets the winner of the second, and so on down the bracket.
// Games must be passed in ascending game id order, the order they were
// created in when the round was seeded.
func PairWinners(games []*models.Game) ([]Pairing, error) {
	if len(games) == 0 || len(games)%2 != 0 {
		return nil, fmt.Errorf("cannot pair winners of %d games", len(games))
	}

	pairings := make([]Pairing, 0, len(games)/2)
	for i := 0; i < len(games); i += 2 {
		g1, g2 := games[i], games[i+1]
		if g1.Winner == nil || g2.Winner == nil {
			return nil, fmt.Errorf("cannot pair winners while game %d or %d is undecided", g1.GameID, g2.GameID)
		}
		pairings = append(pairings, Pairing{Team1: *g1.Winner, Team2: *g2.Winner})
	}
	return pairings, nil
}

// AllDecided reports whether every game in the slice has a winner.
func AllDecided(games []*models.Game) bool {
	for _, g := range games {
		if g.Open() {
			return false
		}
	}
	return true
}

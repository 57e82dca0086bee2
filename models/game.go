package models

import "time"

// Playoff round markers, matching the playoff_round column.
// Season games carry no round at all.
const (
	PlayoffRound1       = 1
	PlayoffRound2       = 2
	PlayoffChampionship = 3
)

// Game is one scheduled contest between two bots. A series game stays open
// until one side's win counter reaches SeriesTarget; a non-series game is
// decided by a single battle.
type Game struct {
	GameID          int       `json:"gameId" db:"game_id"`
	Team1           string    `json:"team1" db:"team1"`
	Team2           string    `json:"team2" db:"team2"`
	Series          bool      `json:"series" db:"series"`
	Team1Wins       int       `json:"team1Wins" db:"team1_wins"`
	Team2Wins       int       `json:"team2Wins" db:"team2_wins"`
	SeriesTarget    int       `json:"seriesTarget,omitempty" db:"series_target"`
	PlayoffRound    *int      `json:"playoffRound,omitempty" db:"playoff_round"`
	Championship    bool      `json:"championship,omitempty" db:"championship"`
	Winner          *string   `json:"winner,omitempty" db:"winner"`
	ResultNarrative *string   `json:"resultNarrative,omitempty" db:"result_narrative"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// Open reports whether the game still needs battles resolved.
// A game is open exactly while its winner is unset.
func (g *Game) Open() bool {
	return g.Winner == nil
}

// HasTeam reports whether botID plays on either side of the game.
func (g *Game) HasTeam(botID string) bool {
	return g.Team1 == botID || g.Team2 == botID
}

// IsChampionship reports whether the game is the final of the bracket.
func (g *Game) IsChampionship() bool {
	return g.Championship || (g.PlayoffRound != nil && *g.PlayoffRound == PlayoffChampionship)
}

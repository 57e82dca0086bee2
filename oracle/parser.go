package oracle

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aibotsim/arena/models"
)

// The generator produces near-JSON with stray newlines, unquoted keys and
// the occasional trailing prose, so this parser is deliberately tolerant of
// shape and deliberately strict about content: a winner token that matches
// neither competitor fails closed instead of guessing.
var (
	narrativePattern = regexp.MustCompile(`(?is)"?resulttext"?\s*[:=]\s*"(.+?)"`)
	winnerPattern    = regexp.MustCompile(`(?i)"?winner"?\s*[:=]\s*"?([^"\r\n,}]+)`)
)

// parseBattleResult extracts the (winner, narrative) pair from a raw
// completion. The winner token may be a bot id or a bot name; it is resolved
// against the two competitors of the matchup.
func parseBattleResult(completion string, team1, team2 *models.Bot) (*BattleResult, error) {
	narrativeMatch := narrativePattern.FindStringSubmatch(completion)
	if narrativeMatch == nil {
		return nil, fmt.Errorf("%w: no resulttext found", ErrUnparseableResponse)
	}
	narrative := strings.TrimSpace(narrativeMatch[1])
	if narrative == "" {
		return nil, fmt.Errorf("%w: empty resulttext", ErrUnparseableResponse)
	}

	// The completion may repeat the few-shot shape; the last winner key is
	// the one belonging to the live matchup.
	winnerMatches := winnerPattern.FindAllStringSubmatch(completion, -1)
	if len(winnerMatches) == 0 {
		return nil, fmt.Errorf("%w: no winner found", ErrUnparseableResponse)
	}
	token := strings.Trim(strings.TrimSpace(winnerMatches[len(winnerMatches)-1][1]), `"'.`)
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty winner token", ErrUnparseableResponse)
	}

	winnerID, err := resolveWinnerToken(token, team1, team2)
	if err != nil {
		return nil, err
	}

	return &BattleResult{WinnerID: winnerID, Narrative: narrative}, nil
}

func resolveWinnerToken(token string, team1, team2 *models.Bot) (string, error) {
	switch token {
	case team1.BotID:
		return team1.BotID, nil
	case team2.BotID:
		return team2.BotID, nil
	}

	// The generator sometimes answers with the bot's name instead of its id.
	switch {
	case strings.EqualFold(token, team1.Name):
		return team1.BotID, nil
	case strings.EqualFold(token, team2.Name):
		return team2.BotID, nil
	}

	return "", fmt.Errorf("%w: winner token %q matches neither %q nor %q",
		ErrUnparseableResponse, token, team1.Name, team2.Name)
}

package oracle

import (
	"errors"
	"strings"
	"testing"

	"github.com/aibotsim/arena/models"
)

var (
	ironclad = &models.Bot{BotID: "3", Name: "Ironclad"}
	whisper  = &models.Bot{BotID: "7", Name: "Whisper"}
)

func TestParseBattleResult(t *testing.T) {
	tests := []struct {
		name          string
		completion    string
		wantWinner    string
		wantNarrative string
		wantErr       error
	}{
		{
			name:          "clean json",
			completion:    `{"resulttext": "1. A swing. 2. A miss. 3. A crush.", "winner": "3"}`,
			wantWinner:    "3",
			wantNarrative: "1. A swing. 2. A miss. 3. A crush.",
		},
		{
			name: "near json with stray newlines and unquoted keys",
			completion: "\n\n{resulttext: \"1. Whisper circles.\n2. Ironclad strikes.\",\nwinner: 3}\n",
			wantWinner:    "3",
			wantNarrative: "1. Whisper circles.\n2. Ironclad strikes.",
		},
		{
			name:          "winner given as bot name",
			completion:    `{"resulttext": "1. Smoke. 2. Saws.", "winner": "Whisper"}`,
			wantWinner:    "7",
			wantNarrative: "1. Smoke. 2. Saws.",
		},
		{
			name:          "winner name case insensitive",
			completion:    `{"resulttext": "1. Smoke.", "winner": "whisper"}`,
			wantWinner:    "7",
			wantNarrative: "1. Smoke.",
		},
		{
			name: "last winner key wins when examples are echoed",
			completion: `{"resulttext": "example", "winner": "12"}` + "\n" +
				`{"resulttext": "1. The real fight.", "winner": "7"}`,
			wantWinner:    "7",
			wantNarrative: "example",
		},
		{
			name:       "no winner token",
			completion: `{"resulttext": "1. An inconclusive brawl."}`,
			wantErr:    ErrUnparseableResponse,
		},
		{
			name:       "no resulttext",
			completion: `{"winner": "3"}`,
			wantErr:    ErrUnparseableResponse,
		},
		{
			name:       "winner matches neither competitor",
			completion: `{"resulttext": "1. Chaos.", "winner": "Bastion"}`,
			wantErr:    ErrUnparseableResponse,
		},
		{
			name:       "free prose without structure",
			completion: "The battle was glorious and everyone clapped.",
			wantErr:    ErrUnparseableResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseBattleResult(tt.completion, ironclad, whisper)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.WinnerID != tt.wantWinner {
				t.Errorf("winner: expected %q, got %q", tt.wantWinner, result.WinnerID)
			}
			if result.Narrative != tt.wantNarrative {
				t.Errorf("narrative: expected %q, got %q", tt.wantNarrative, result.Narrative)
			}
		})
	}
}

func TestBuildPromptContainsBothCompetitors(t *testing.T) {
	prompt := BuildPrompt(ironclad, whisper)

	for _, want := range []string{"Ironclad", "Whisper", "id 3", "id 7"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

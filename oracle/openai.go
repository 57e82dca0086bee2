package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aibotsim/arena/models"
)

// Sampling parameters for battle narration. High temperature keeps the
// narratives varied; output length is bounded so a runaway completion
// cannot blow past the narrative plus winner declaration.
const (
	completionTemperature = 0.9
	completionTopP        = 1.0
	completionMaxTokens   = 600
)

// OpenAIConfig configures the completions endpoint and HTTP behavior.
type OpenAIConfig struct {
	APIKey     string
	URL        string
	Model      string
	HTTPClient *http.Client
}

type openAIOracle struct {
	cfg OpenAIConfig
}

// NewOpenAIOracle builds a BattleOracle backed by an OpenAI-compatible
// completions endpoint. The adapter holds no state between calls.
func NewOpenAIOracle(cfg OpenAIConfig) (BattleOracle, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("oracle API key is required")
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("oracle URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("oracle model is required")
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &openAIOracle{cfg: cfg}, nil
}

type completionRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	MaxTokens   int     `json:"max_tokens"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

func (o *openAIOracle) ResolveBattle(ctx context.Context, team1, team2 *models.Bot) (*BattleResult, error) {
	payload, err := json.Marshal(completionRequest{
		Model:       o.cfg.Model,
		Prompt:      BuildPrompt(team1, team2),
		Temperature: completionTemperature,
		TopP:        completionTopP,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: completion endpoint returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var completion completionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, fmt.Errorf("%w: invalid completion envelope: %v", ErrUnparseableResponse, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: completion contained no choices", ErrUnparseableResponse)
	}

	return parseBattleResult(completion.Choices[0].Text, team1, team2)
}

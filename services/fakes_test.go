package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/aibotsim/arena/models"
	"github.com/aibotsim/arena/oracle"
	"github.com/aibotsim/arena/repositories"
)

// In-memory doubles for the repository layer. They ignore the SQLExecutor
// parameter; the fake tx runner passes nil through.

type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeBotRepo struct {
	mu   sync.Mutex
	bots map[string]*models.Bot
}

func newFakeBotRepo(bots ...*models.Bot) *fakeBotRepo {
	repo := &fakeBotRepo{bots: make(map[string]*models.Bot)}
	for _, b := range bots {
		cp := *b
		repo.bots[b.BotID] = &cp
	}
	return repo
}

func (f *fakeBotRepo) GetByID(ctx context.Context, botID string) (*models.Bot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bots[botID]
	if !ok {
		return nil, repositories.ErrBotNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBotRepo) GetByName(ctx context.Context, name string) (*models.Bot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bots {
		if b.Name == name {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repositories.ErrBotNotFound
}

func (f *fakeBotRepo) ListRanked(ctx context.Context) ([]*models.Bot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bots := make([]*models.Bot, 0, len(f.bots))
	for _, b := range f.bots {
		cp := *b
		bots = append(bots, &cp)
	}
	sort.Slice(bots, func(i, j int) bool {
		if bots[i].Wins != bots[j].Wins {
			return bots[i].Wins > bots[j].Wins
		}
		return bots[i].BotID < bots[j].BotID
	})
	return bots, nil
}

func (f *fakeBotRepo) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	bots, _ := f.ListRanked(ctx)
	if len(bots) > limit {
		bots = bots[:limit]
	}
	entries := make([]*models.LeaderboardEntry, 0, len(bots))
	for _, b := range bots {
		entries = append(entries, &models.LeaderboardEntry{BotID: b.BotID, Wins: b.Wins, Losses: b.Losses})
	}
	return entries, nil
}

func (f *fakeBotRepo) IncrementRecord(ctx context.Context, _ repositories.SQLExecutor, botID string, wins, losses, championships int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bots[botID]
	if !ok {
		return repositories.ErrBotNotFound
	}
	b.Wins += wins
	b.Losses += losses
	b.Championships += championships
	return nil
}

func (f *fakeBotRepo) UpdateImage(ctx context.Context, botID string, imageKey, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bots[botID]
	if !ok {
		return repositories.ErrBotNotFound
	}
	b.ImageKey = &imageKey
	b.ImageContentType = &contentType
	return nil
}

type fakeGameRepo struct {
	mu     sync.Mutex
	nextID int
	games  map[int]*models.Game
}

func newFakeGameRepo(games ...*models.Game) *fakeGameRepo {
	repo := &fakeGameRepo{nextID: 1, games: make(map[int]*models.Game)}
	for _, g := range games {
		cp := *g
		repo.games[g.GameID] = &cp
		if g.GameID >= repo.nextID {
			repo.nextID = g.GameID + 1
		}
	}
	return repo
}

func (f *fakeGameRepo) sortedIDs() []int {
	ids := make([]int, 0, len(f.games))
	for id := range f.games {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (f *fakeGameRepo) Create(ctx context.Context, _ repositories.SQLExecutor, game *models.Game) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	game.GameID = f.nextID
	game.CreatedAt = time.Now()
	f.nextID++
	cp := *game
	f.games[game.GameID] = &cp
	return nil
}

func (f *fakeGameRepo) GetByID(ctx context.Context, gameID int) (*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[gameID]
	if !ok {
		return nil, repositories.ErrGameNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGameRepo) GetByIDForUpdate(ctx context.Context, _ repositories.SQLExecutor, gameID int) (*models.Game, error) {
	return f.GetByID(ctx, gameID)
}

func (f *fakeGameRepo) FirstOpen(ctx context.Context) (*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.sortedIDs() {
		if f.games[id].Winner == nil {
			cp := *f.games[id]
			return &cp, nil
		}
	}
	return nil, repositories.ErrGameNotFound
}

func (f *fakeGameRepo) ListOpen(ctx context.Context, limit int) ([]*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	games := make([]*models.Game, 0)
	for _, id := range f.sortedIDs() {
		if len(games) == limit {
			break
		}
		if f.games[id].Winner == nil {
			cp := *f.games[id]
			games = append(games, &cp)
		}
	}
	return games, nil
}

func (f *fakeGameRepo) ListByBot(ctx context.Context, botID string) ([]*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	games := make([]*models.Game, 0)
	for _, id := range f.sortedIDs() {
		if f.games[id].HasTeam(botID) {
			cp := *f.games[id]
			games = append(games, &cp)
		}
	}
	return games, nil
}

func (f *fakeGameRepo) ListByRound(ctx context.Context, round int) ([]*models.Game, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	games := make([]*models.Game, 0)
	for _, id := range f.sortedIDs() {
		g := f.games[id]
		if g.PlayoffRound != nil && *g.PlayoffRound == round {
			cp := *g
			games = append(games, &cp)
		}
	}
	return games, nil
}

func (f *fakeGameRepo) CountAll(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.games), nil
}

func (f *fakeGameRepo) UpdateSeriesWins(ctx context.Context, _ repositories.SQLExecutor, gameID, team1Wins, team2Wins int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[gameID]
	if !ok {
		return repositories.ErrGameNotFound
	}
	g.Team1Wins = team1Wins
	g.Team2Wins = team2Wins
	return nil
}

func (f *fakeGameRepo) SetWinner(ctx context.Context, _ repositories.SQLExecutor, gameID int, winner, narrative string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.games[gameID]
	if !ok || g.Winner != nil {
		return repositories.ErrGameNotFound
	}
	g.Winner = &winner
	g.ResultNarrative = &narrative
	return nil
}

type fakeStageRepo struct {
	mu     sync.Mutex
	rounds map[int]bool
}

func newFakeStageRepo() *fakeStageRepo {
	return &fakeStageRepo{rounds: make(map[int]bool)}
}

func (f *fakeStageRepo) MarkSeeded(ctx context.Context, _ repositories.SQLExecutor, round int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rounds[round] {
		return repositories.ErrStageAlreadySeeded
	}
	f.rounds[round] = true
	return nil
}

func (f *fakeStageRepo) SeededRounds(ctx context.Context) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rounds := make([]int, 0, len(f.rounds))
	for r := range f.rounds {
		rounds = append(rounds, r)
	}
	sort.Ints(rounds)
	return rounds, nil
}

// stubOracle returns canned results, or a fixed error.
type stubOracle struct {
	result *oracle.BattleResult
	err    error
	calls  int
}

func (s *stubOracle) ResolveBattle(ctx context.Context, team1, team2 *models.Bot) (*oracle.BattleResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// recordingPublisher captures broadcast events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) BroadcastEvent(eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *recordingPublisher) Events() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

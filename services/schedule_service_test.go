package services

import (
	"context"
	"testing"

	"github.com/aibotsim/arena/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScheduleFixture(t *testing.T, bots []*models.Bot, games []*models.Game) ScheduleService {
	t.Helper()
	botRepo := newFakeBotRepo(bots...)
	gameRepo := newFakeGameRepo(games...)
	bracket := NewBracketService(fakeTxRunner{}, gameRepo, botRepo, newFakeStageRepo(), nil, testLogger(), 4)
	return NewScheduleService(bracket, gameRepo, botRepo)
}

func TestNextGame_EnrichesBothCompetitors(t *testing.T) {
	svc := newScheduleFixture(t,
		[]*models.Bot{
			{BotID: "A", Name: "Aegis"},
			{BotID: "B", Name: "Blitz"},
		},
		[]*models.Game{{GameID: 1, Team1: "A", Team2: "B"}},
	)

	view, err := svc.NextGame(context.Background())
	require.NoError(t, err)
	require.NotNil(t, view.Game)
	assert.Equal(t, 1, view.Game.GameID)
	require.NotNil(t, view.Team1)
	require.NotNil(t, view.Team2)
	assert.Equal(t, "Aegis", view.Team1.Name)
	assert.Equal(t, "Blitz", view.Team2.Name)
	assert.Nil(t, view.Champion)
}

func TestNextGame_ChampionPassthrough(t *testing.T) {
	svc := newScheduleFixture(t, eightBots(), []*models.Game{
		playoffSeries(1, 1, "1", "8", strPtr("1")),
		playoffSeries(2, 1, "2", "7", strPtr("2")),
		playoffSeries(3, 1, "3", "6", strPtr("3")),
		playoffSeries(4, 1, "4", "5", strPtr("4")),
		playoffSeries(5, 2, "1", "2", strPtr("1")),
		playoffSeries(6, 2, "3", "4", strPtr("3")),
		playoffSeries(7, 3, "1", "3", strPtr("1")),
	})

	view, err := svc.NextGame(context.Background())
	require.NoError(t, err)
	assert.Nil(t, view.Game)
	require.NotNil(t, view.Champion)
	assert.Equal(t, "1", view.Champion.BotID)
}

func TestNextGame_NoGames(t *testing.T) {
	svc := newScheduleFixture(t, eightBots(), nil)

	_, err := svc.NextGame(context.Background())
	assert.ErrorIs(t, err, ErrNoGamesExist)
}

func TestNextGames_Validation(t *testing.T) {
	svc := newScheduleFixture(t, nil, nil)

	_, err := svc.NextGames(context.Background(), 0)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.NextGames(context.Background(), -3)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestNextGames_OpenGamesInOrder(t *testing.T) {
	decided := "A"
	svc := newScheduleFixture(t, nil, []*models.Game{
		{GameID: 1, Team1: "A", Team2: "B", Winner: &decided},
		{GameID: 2, Team1: "C", Team2: "D"},
		{GameID: 3, Team1: "E", Team2: "F"},
		{GameID: 4, Team1: "G", Team2: "H"},
	})

	games, err := svc.NextGames(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, 2, games[0].GameID)
	assert.Equal(t, 3, games[1].GameID)
}

func TestNextGames_EmptyScheduleIsEmptySlice(t *testing.T) {
	svc := newScheduleFixture(t, nil, nil)

	games, err := svc.NextGames(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games)
}

func TestGetGame(t *testing.T) {
	svc := newScheduleFixture(t, nil, []*models.Game{
		{GameID: 7, Team1: "A", Team2: "B"},
	})

	game, err := svc.GetGame(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "A", game.Team1)

	_, err = svc.GetGame(context.Background(), 99)
	assert.ErrorIs(t, err, ErrGameNotFound)
}

func TestGamesForBot(t *testing.T) {
	svc := newScheduleFixture(t,
		[]*models.Bot{{BotID: "A", Name: "Aegis"}, {BotID: "X", Name: "Xeno"}},
		[]*models.Game{
			{GameID: 1, Team1: "A", Team2: "B"},
			{GameID: 2, Team1: "C", Team2: "D"},
			{GameID: 3, Team1: "E", Team2: "A"},
		},
	)

	games, err := svc.GamesForBot(context.Background(), "A")
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, 1, games[0].GameID)
	assert.Equal(t, 3, games[1].GameID)
}

func TestGamesForBot_UnknownBot(t *testing.T) {
	svc := newScheduleFixture(t, nil, nil)

	_, err := svc.GamesForBot(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrBotNotFound)
}

func TestGamesForBot_NoGamesIsEmptySlice(t *testing.T) {
	svc := newScheduleFixture(t,
		[]*models.Bot{{BotID: "X", Name: "Xeno"}}, nil)

	games, err := svc.GamesForBot(context.Background(), "X")
	require.NoError(t, err)
	assert.NotNil(t, games)
	assert.Empty(t, games)
}

package models

// Bot represents a registered competitor. Bots are seeded out-of-band;
// only their win/loss/championship counters change during a tournament.
type Bot struct {
	BotID            string  `json:"botId" db:"bot_id"`
	Name             string  `json:"name" db:"name"`
	BattleCapability string  `json:"battleCapability" db:"battle_capability"`
	Wins             int     `json:"wins" db:"wins"`
	Losses           int     `json:"losses" db:"losses"`
	Championships    int     `json:"championships" db:"championships"`
	ImageKey         *string `json:"-" db:"image_key"`
	ImageContentType *string `json:"-" db:"image_content_type"`
}

// LeaderboardEntry is the projection returned by the leaderboard query.
type LeaderboardEntry struct {
	BotID  string `json:"botId"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
}

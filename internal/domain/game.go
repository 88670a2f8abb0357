package domain

// GameBucket groups every score recorded for one game.
type GameBucket struct {
	GameID        int64          `json:"game_id"`
	Title         string         `json:"title"`
	TopValidScore *ScoreRecord   `json:"top_valid_score,omitempty"`
	Statistics    GameStatistics `json:"statistics"`

	// Scores are kept in arrival order; ranking sorts a copy.
	Scores []ScoreRecord `json:"scores"`
}

// GameStatistics summarises a game's score distribution.
type GameStatistics struct {
	Score          MeanDeviation `json:"score"`
	Time           MeanDeviation `json:"time"`
	ScorePerMinute MeanDeviation `json:"score_per_minute"`
}

// MeanDeviation is a mean with its standard deviation.
type MeanDeviation struct {
	Mean              float64 `json:"mean"`
	StandardDeviation float64 `json:"standard_deviation"`
}

// TopGame is a game ranked by how often players finish it.
// Both rates are fractions in [0, 1].
type TopGame struct {
	GameID         int64   `json:"game_id"`
	Title          string  `json:"title"`
	CompletionRate float64 `json:"completion_rate"`
	PredictedScore float64 `json:"predicted_score"`
}

// WalletCount is the number of web3 wallets connected to the platform.
type WalletCount struct {
	Count int64 `json:"count"`
}

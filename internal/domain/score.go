package domain

import (
	"time"
	"unicode/utf8"
)

// shortNameLimit is the rune count kept by ScoreRecord.ShortName.
const shortNameLimit = 10

// ScoreRecord is a single score achieved in a game. Records are immutable
// once received from the upstream snapshot.
type ScoreRecord struct {
	Score          float64   `json:"score"`
	AchievedBy     string    `json:"achieved_by"`
	TimeTaken      float64   `json:"time_taken"`
	ScorePerMinute float64   `json:"score_per_minute"`
	AchievedAt     time.Time `json:"achieved_at"`
	IsValidated    bool      `json:"is_validated"`
	CultixReward   float64   `json:"cultix_reward"`

	// Validation is passed through verbatim from upstream; nil when the
	// record carries no validation report.
	Validation *ValidationDetails `json:"validation,omitempty"`
}

// ShortName returns AchievedBy truncated to ten runes with a trailing "...".
func (r ScoreRecord) ShortName() string {
	if utf8.RuneCountInString(r.AchievedBy) <= shortNameLimit {
		return r.AchievedBy
	}
	runes := []rune(r.AchievedBy)
	return string(runes[:shortNameLimit]) + "..."
}

// ValidationDetails is the upstream's explanation of why a score was or was
// not accepted. It is displayed, never computed, by this server.
type ValidationDetails struct {
	Checks        ValidationChecks `json:"checks"`
	Achievability Achievability    `json:"achievability"`
	Explanation   string           `json:"explanation"`
}

// ValidationChecks are the individual pass/fail flags.
type ValidationChecks struct {
	ScoreWithinRange bool `json:"score_within_range"`
	TimeWithinRange  bool `json:"time_within_range"`
	RateWithinRange  bool `json:"rate_within_range"`
	ScoreAchievable  bool `json:"score_achievable"`
}

// Achievability compares the achieved score to what the game allows.
type Achievability struct {
	MaxAchievableScore float64 `json:"max_achievable_score"`
	ActualScore        float64 `json:"actual_score"`
	RequiredRate       float64 `json:"required_rate"`
	MaxReasonableRate  float64 `json:"max_reasonable_rate"`
}

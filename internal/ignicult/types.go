package ignicult

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ignicult/dashboard-server/internal/domain"
)

// Wire types mirror the upstream JSON exactly; conversion to domain types
// happens in one place so both the HTTP client and the fixture source share it.

type topScoresResponse struct {
	Message string        `json:"message"`
	Data    []rawGameData `json:"data" validate:"dive"`
}

type rawGameData struct {
	GameID        int64         `json:"gameId"`
	GameTitle     string        `json:"gameTitle" validate:"required"`
	TopValidScore *rawTopScore  `json:"topValidScore"`
	Statistics    rawStatistics `json:"statistics"`
	AllScores     []rawScore    `json:"allScores" validate:"dive"`
}

type rawTopScore struct {
	Score        float64 `json:"score" validate:"finite"`
	AchievedBy   string  `json:"achievedBy"`
	IsValidated  bool    `json:"isValidated"`
	CultixReward float64 `json:"cultixReward" validate:"finite"`
}

type rawStatistics struct {
	Score          rawMeanDeviation `json:"score"`
	Time           rawMeanDeviation `json:"time"`
	ScorePerMinute rawMeanDeviation `json:"scorePerMinute"`
}

type rawMeanDeviation struct {
	Mean              float64 `json:"mean" validate:"finite"`
	StandardDeviation float64 `json:"standardDeviation" validate:"finite"`
}

type rawScore struct {
	Score             float64               `json:"score" validate:"finite"`
	AchievedBy        string                `json:"achievedBy"`
	TimeTaken         float64               `json:"timeTaken" validate:"finite"`
	ScorePerMinute    float64               `json:"scorePerMinute" validate:"finite"`
	AchievedAt        time.Time             `json:"achievedAt"`
	IsValidated       bool                  `json:"isValidated"`
	CultixReward      float64               `json:"cultixReward" validate:"finite"`
	ValidationDetails *rawValidationDetails `json:"validationDetails"`
}

type rawValidationDetails struct {
	Checks struct {
		ScoreWithinRange bool `json:"scoreWithinRange"`
		TimeWithinRange  bool `json:"timeWithinRange"`
		RateWithinRange  bool `json:"rateWithinRange"`
		ScoreAchievable  bool `json:"scoreAchievable"`
	} `json:"checks"`
	Achievability struct {
		MaxAchievableScore float64 `json:"maxAchievableScore"`
		ActualScore        float64 `json:"actualScore"`
		RequiredRate       float64 `json:"requiredRate"`
		MaxReasonableRate  float64 `json:"maxReasonableRate"`
	} `json:"achievability"`
	Explanation string `json:"explanation"`
}

type rawTopGame struct {
	GameID         int64   `json:"gameId"`
	Title          string  `json:"title" validate:"required"`
	CompletionRate float64 `json:"completionRate" validate:"finite,gte=0,lte=1"`
	PredictedScore float64 `json:"predictedScore" validate:"finite,gte=0,lte=1"`
}

type rawMonthlyActivity struct {
	TotalTime                   float64    `json:"totalTime" validate:"finite"`
	AverageTimePerActivity      float64    `json:"averageTimePerActivity" validate:"finite"`
	UniquePlayers               float64    `json:"uniquePlayers" validate:"finite,gte=0"`
	NumberOfActivities          float64    `json:"numberOfActivities" validate:"finite,gte=0"`
	NumberOfActivitiesPerPlayer float64    `json:"numberOfActivitiesPerPlayer" validate:"finite,gte=0"`
	AverageTimeSpentPerPlayer   float64    `json:"averageTimeSpentPerPlayer" validate:"finite"`
	DailyBreakdown              []rawDaily `json:"dailyBreakdown" validate:"dive"`
}

// rawDaily carries totalMinutes as a decimal string, e.g. "125.50".
type rawDaily struct {
	Date            string `json:"date" validate:"required"`
	TotalMinutes    string `json:"totalMinutes"`
	TotalActivities int64  `json:"totalActivities" validate:"gte=0"`
}

type rawWalletCount struct {
	Count int64 `json:"count" validate:"gte=0"`
}

func (g rawGameData) toDomain() domain.GameBucket {
	bucket := domain.GameBucket{
		GameID: g.GameID,
		Title:  g.GameTitle,
		Statistics: domain.GameStatistics{
			Score:          g.Statistics.Score.toDomain(),
			Time:           g.Statistics.Time.toDomain(),
			ScorePerMinute: g.Statistics.ScorePerMinute.toDomain(),
		},
		Scores: make([]domain.ScoreRecord, len(g.AllScores)),
	}
	if g.TopValidScore != nil {
		bucket.TopValidScore = &domain.ScoreRecord{
			Score:        g.TopValidScore.Score,
			AchievedBy:   g.TopValidScore.AchievedBy,
			IsValidated:  g.TopValidScore.IsValidated,
			CultixReward: g.TopValidScore.CultixReward,
		}
	}
	for i, s := range g.AllScores {
		bucket.Scores[i] = s.toDomain()
	}
	return bucket
}

func (m rawMeanDeviation) toDomain() domain.MeanDeviation {
	return domain.MeanDeviation{Mean: m.Mean, StandardDeviation: m.StandardDeviation}
}

func (s rawScore) toDomain() domain.ScoreRecord {
	rec := domain.ScoreRecord{
		Score:          s.Score,
		AchievedBy:     s.AchievedBy,
		TimeTaken:      s.TimeTaken,
		ScorePerMinute: s.ScorePerMinute,
		AchievedAt:     s.AchievedAt,
		IsValidated:    s.IsValidated,
		CultixReward:   s.CultixReward,
	}
	if v := s.ValidationDetails; v != nil {
		rec.Validation = &domain.ValidationDetails{
			Checks: domain.ValidationChecks{
				ScoreWithinRange: v.Checks.ScoreWithinRange,
				TimeWithinRange:  v.Checks.TimeWithinRange,
				RateWithinRange:  v.Checks.RateWithinRange,
				ScoreAchievable:  v.Checks.ScoreAchievable,
			},
			Achievability: domain.Achievability{
				MaxAchievableScore: v.Achievability.MaxAchievableScore,
				ActualScore:        v.Achievability.ActualScore,
				RequiredRate:       v.Achievability.RequiredRate,
				MaxReasonableRate:  v.Achievability.MaxReasonableRate,
			},
			Explanation: v.Explanation,
		}
	}
	return rec
}

func (g rawTopGame) toDomain() domain.TopGame {
	return domain.TopGame{
		GameID:         g.GameID,
		Title:          g.Title,
		CompletionRate: g.CompletionRate,
		PredictedScore: g.PredictedScore,
	}
}

func (m rawMonthlyActivity) toDomain(period domain.Period) (domain.MonthlyActivity, error) {
	out := domain.MonthlyActivity{
		Period:                      period,
		TotalTime:                   m.TotalTime,
		AverageTimePerActivity:      m.AverageTimePerActivity,
		UniquePlayers:               m.UniquePlayers,
		NumberOfActivities:          m.NumberOfActivities,
		NumberOfActivitiesPerPlayer: m.NumberOfActivitiesPerPlayer,
		AverageTimeSpentPerPlayer:   m.AverageTimeSpentPerPlayer,
		DailyBreakdown:              make([]domain.DailyActivity, len(m.DailyBreakdown)),
	}
	for i, d := range m.DailyBreakdown {
		minutes, err := parseMinutes(d.TotalMinutes)
		if err != nil {
			return domain.MonthlyActivity{}, fmt.Errorf("dailyBreakdown[%d].totalMinutes: %w", i, err)
		}
		out.DailyBreakdown[i] = domain.DailyActivity{
			Date:            d.Date,
			TotalMinutes:    minutes,
			TotalActivities: d.TotalActivities,
		}
	}
	return out, nil
}

// parseMinutes parses the upstream's stringly-typed minute totals. An empty
// string counts as zero.
func parseMinutes(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

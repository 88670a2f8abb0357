// Package main provides a tool to seed a fixtures directory with random
// dashboard data in the Ignicult wire format.
//
// The server serves the directory with FIXTURES_DIR and reloads it on change,
// so rerunning the seeder against a live server drives refresh events.
//
// Usage:
//
//	go run ./cmd/seed -out ./fixtures
//	go run ./cmd/seed -out ./fixtures -games 12 -players 40 -seed 7
package main

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ignicult/dashboard-server/internal/domain"
	"github.com/ignicult/dashboard-server/internal/fixtures"
	"github.com/ignicult/dashboard-server/internal/id"
)

var (
	outDir  = flag.String("out", "fixtures", "Directory to write fixtures into")
	games   = flag.Int("games", 8, "Number of games")
	players = flag.Int("players", 25, "Number of distinct players")
	seed    = flag.Uint64("seed", 0, "Random seed (0 picks one from the clock)")
)

var titles = []string{
	"Neon Drift", "Crypt Runner", "Orbital", "Lava Lanes", "Pixel Heist",
	"Moon Miner", "Shard Storm", "Glitch Garden", "Void Rally", "Rune Tetra",
	"Cult Classic", "Spore Sprint",
}

type topScores struct {
	Message string     `json:"message"`
	Data    []gameData `json:"data"`
}

type gameData struct {
	GameID        int64      `json:"gameId"`
	GameTitle     string     `json:"gameTitle"`
	TopValidScore *topScore  `json:"topValidScore"`
	Statistics    statistics `json:"statistics"`
	AllScores     []score    `json:"allScores"`
}

type topScore struct {
	Score        float64 `json:"score"`
	AchievedBy   string  `json:"achievedBy"`
	IsValidated  bool    `json:"isValidated"`
	CultixReward float64 `json:"cultixReward"`
}

type statistics struct {
	Score          meanDeviation `json:"score"`
	Time           meanDeviation `json:"time"`
	ScorePerMinute meanDeviation `json:"scorePerMinute"`
}

type meanDeviation struct {
	Mean              float64 `json:"mean"`
	StandardDeviation float64 `json:"standardDeviation"`
}

type score struct {
	Score          float64   `json:"score"`
	AchievedBy     string    `json:"achievedBy"`
	TimeTaken      float64   `json:"timeTaken"`
	ScorePerMinute float64   `json:"scorePerMinute"`
	AchievedAt     time.Time `json:"achievedAt"`
	IsValidated    bool      `json:"isValidated"`
	CultixReward   float64   `json:"cultixReward"`
}

type topGame struct {
	GameID         int64   `json:"gameId"`
	Title          string  `json:"title"`
	CompletionRate float64 `json:"completionRate"`
	PredictedScore float64 `json:"predictedScore"`
}

type monthlyActivity struct {
	TotalTime                   float64 `json:"totalTime"`
	AverageTimePerActivity      float64 `json:"averageTimePerActivity"`
	UniquePlayers               float64 `json:"uniquePlayers"`
	NumberOfActivities          float64 `json:"numberOfActivities"`
	NumberOfActivitiesPerPlayer float64 `json:"numberOfActivitiesPerPlayer"`
	AverageTimeSpentPerPlayer   float64 `json:"averageTimeSpentPerPlayer"`
	DailyBreakdown              []daily `json:"dailyBreakdown"`
}

type daily struct {
	Date            string `json:"date"`
	TotalMinutes    string `json:"totalMinutes"`
	TotalActivities int64  `json:"totalActivities"`
}

type walletCount struct {
	Count int64 `json:"count"`
}

func main() {
	flag.Parse()

	if *games < 1 || *games > len(titles) {
		log.Fatalf("-games must be between 1 and %d", len(titles))
	}
	if *players < 1 {
		log.Fatal("-players must be positive")
	}

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(s, s>>1))

	if err := os.MkdirAll(*outDir, 0o750); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	fmt.Printf("Seeding fixtures into %s (seed %d)\n", *outDir, s)

	names := make([]string, *players)
	for i := range names {
		names[i] = playerName(rng, i)
	}

	now := time.Now().UTC()
	buckets := make([]gameData, 0, *games)
	ranked := make([]topGame, 0, *games)

	for i := range *games {
		gameID := int64(i*3 + 1)
		bucket := seedGame(rng, gameID, titles[i], names, now)
		buckets = append(buckets, bucket)
		ranked = append(ranked, topGame{
			GameID:         gameID,
			Title:          titles[i],
			CompletionRate: round(rng.Float64(), 2),
			PredictedScore: round(rng.Float64(), 2),
		})
		fmt.Printf("  %-14s %3d scores\n", titles[i], len(bucket.AllScores))
	}

	write(fixtures.TopScoresFile, topScores{Message: "Top scores retrieved", Data: buckets})
	write(fixtures.TopGamesFile, ranked)
	write(fixtures.WalletCountFile, walletCount{Count: int64(*players*40 + rng.IntN(500))})

	months := 0
	for p := domain.FirstActivityPeriod; !domain.PeriodOf(now).Before(p); p = next(p) {
		write(fixtures.MonthlyActivityFile(p), seedMonth(rng, p, *players))
		months++
	}

	fmt.Printf("\nWrote %d games and %d months of activity\n", len(buckets), months)
}

func seedGame(rng *rand.Rand, gameID int64, title string, names []string, now time.Time) gameData {
	// Some games have no scores yet.
	count := rng.IntN(12)
	if count < 2 {
		return gameData{GameID: gameID, GameTitle: title, AllScores: []score{}}
	}

	scores := make([]score, count)
	var top *topScore
	var sumScore, sumTime, sumRate float64

	for i := range scores {
		minutes := round(3+rng.Float64()*20, 2)
		points := math.Round(200 + rng.Float64()*5000)
		validated := rng.Float64() > 0.15
		reward := 0.0
		if validated {
			reward = math.Round(points / 20)
		}

		scores[i] = score{
			Score:          points,
			AchievedBy:     names[rng.IntN(len(names))],
			TimeTaken:      minutes,
			ScorePerMinute: round(points/minutes, 2),
			AchievedAt:     now.Add(-time.Duration(rng.IntN(60*24)) * time.Hour).Truncate(time.Second),
			IsValidated:    validated,
			CultixReward:   reward,
		}

		sumScore += points
		sumTime += minutes
		sumRate += scores[i].ScorePerMinute

		if validated && (top == nil || points > top.Score) {
			top = &topScore{Score: points, AchievedBy: scores[i].AchievedBy, IsValidated: true, CultixReward: reward}
		}
	}

	n := float64(count)
	return gameData{
		GameID:        gameID,
		GameTitle:     title,
		TopValidScore: top,
		Statistics: statistics{
			Score:          meanDeviation{Mean: round(sumScore/n, 2), StandardDeviation: round(rng.Float64()*900, 2)},
			Time:           meanDeviation{Mean: round(sumTime/n, 2), StandardDeviation: round(rng.Float64()*5, 2)},
			ScorePerMinute: meanDeviation{Mean: round(sumRate/n, 2), StandardDeviation: round(rng.Float64()*60, 2)},
		},
		AllScores: scores,
	}
}

func seedMonth(rng *rand.Rand, p domain.Period, players int) monthlyActivity {
	first := time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	var totalMinutes float64
	var totalActivities int64
	breakdown := make([]daily, days)

	for d := range days {
		activities := int64(rng.IntN(20))
		minutes := 0.0
		if activities > 0 {
			minutes = round(float64(activities)*(4+rng.Float64()*12), 2)
		}
		breakdown[d] = daily{
			Date:            first.AddDate(0, 0, d).Format(time.DateOnly),
			TotalMinutes:    strconv.FormatFloat(minutes, 'f', 2, 64),
			TotalActivities: activities,
		}
		totalMinutes += minutes
		totalActivities += activities
	}

	unique := float64(max(1, min(players, int(totalActivities)/2+1)))
	perActivity := 0.0
	if totalActivities > 0 {
		perActivity = round(totalMinutes/float64(totalActivities), 2)
	}

	return monthlyActivity{
		TotalTime:                   round(totalMinutes, 2),
		AverageTimePerActivity:      perActivity,
		UniquePlayers:               unique,
		NumberOfActivities:          float64(totalActivities),
		NumberOfActivitiesPerPlayer: round(float64(totalActivities)/unique, 2),
		AverageTimeSpentPerPlayer:   round(totalMinutes/unique, 2),
		DailyBreakdown:              breakdown,
	}
}

// playerName mixes wallet addresses with handles so the short-name
// formatting gets exercised.
func playerName(rng *rand.Rand, i int) string {
	if rng.IntN(2) == 0 {
		return fmt.Sprintf("0x%016x", rng.Uint64())
	}
	return fmt.Sprintf("player_%02d_%s", i, id.MustGenerate("p")[2:8])
}

func next(p domain.Period) domain.Period {
	if p.Month == 12 {
		return domain.Period{Month: 1, Year: p.Year + 1}
	}
	return domain.Period{Month: p.Month + 1, Year: p.Year}
}

func round(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}

func write(name string, v any) {
	data, err := json.Marshal(v, jsontext.WithIndent("  "))
	if err != nil {
		log.Fatalf("Failed to encode %s: %v", name, err)
	}
	path := filepath.Join(*outDir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		log.Fatalf("Failed to write %s: %v", path, err)
	}
}

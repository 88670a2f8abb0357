package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScoreRecord_ShortName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short name unchanged", in: "alice", want: "alice"},
		{name: "exactly ten runes", in: "0123456789", want: "0123456789"},
		{name: "long name truncated", in: "0xAbCdEf0123456789", want: "0xAbCdEf01..."},
		{name: "multibyte runes", in: "ééééééééééé", want: "éééééééééé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreRecord{AchievedBy: tt.in}.ShortName())
		})
	}
}

func TestPeriod_InRange(t *testing.T) {
	now := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		period Period
		want   bool
	}{
		{name: "first recorded month", period: Period{Month: 8, Year: 2024}, want: true},
		{name: "before first month", period: Period{Month: 7, Year: 2024}, want: false},
		{name: "current month", period: Period{Month: 3, Year: 2025}, want: true},
		{name: "future month", period: Period{Month: 4, Year: 2025}, want: false},
		{name: "month zero", period: Period{Month: 0, Year: 2025}, want: false},
		{name: "month thirteen", period: Period{Month: 13, Year: 2024}, want: false},
		{name: "default period", period: DefaultActivityPeriod, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.period.InRange(now))
		})
	}
}

func TestPeriod_String(t *testing.T) {
	assert.Equal(t, "2024-08", FirstActivityPeriod.String())
}

func TestPage_Valid(t *testing.T) {
	assert.True(t, PageLeaderboard.Valid())
	assert.True(t, PageWallets.Valid())
	assert.False(t, Page("settings").Valid())
}

func TestSnapshot_BucketIndex(t *testing.T) {
	snap := &Snapshot{Buckets: []GameBucket{{GameID: 7}, {GameID: 9}}}

	assert.Equal(t, 1, snap.BucketIndex(9))
	assert.Equal(t, -1, snap.BucketIndex(3))
}

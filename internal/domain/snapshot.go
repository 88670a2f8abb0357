package domain

import "time"

// Snapshot is one wholesale fetch of the upstream dashboard data.
// Snapshots are replaced, never patched.
type Snapshot struct {
	Version   string       `json:"version"`
	FetchedAt time.Time    `json:"fetched_at"`
	Buckets   []GameBucket `json:"buckets"`
	TopGames  []TopGame    `json:"top_games"`
	Wallets   WalletCount  `json:"wallets"`
}

// BucketIndex returns the position of the bucket for gameID, or -1.
func (s *Snapshot) BucketIndex(gameID int64) int {
	for i := range s.Buckets {
		if s.Buckets[i].GameID == gameID {
			return i
		}
	}
	return -1
}

package store

import "github.com/ignicult/dashboard-server/internal/domain"

const (
	keySnapshot    = "snapshot:latest"
	prefixActivity = "activity:"
)

func activityKey(period domain.Period) []byte {
	return []byte(prefixActivity + period.String())
}

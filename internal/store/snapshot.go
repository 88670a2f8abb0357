package store

import (
	"fmt"

	"github.com/ignicult/dashboard-server/internal/domain"
)

// PutSnapshot replaces the cached snapshot.
func (s *Store) PutSnapshot(snap *domain.Snapshot) error {
	if err := s.set([]byte(keySnapshot), snap); err != nil {
		return fmt.Errorf("put snapshot: %w", err)
	}
	s.logger.Debug("snapshot cached", "version", snap.Version, "buckets", len(snap.Buckets))
	return nil
}

// Snapshot returns the cached snapshot, or ErrNotFound once it has expired.
func (s *Store) Snapshot() (*domain.Snapshot, error) {
	var snap domain.Snapshot
	if err := s.get([]byte(keySnapshot), &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// PutActivity caches one month of activity.
func (s *Store) PutActivity(activity domain.MonthlyActivity) error {
	if err := s.set(activityKey(activity.Period), activity); err != nil {
		return fmt.Errorf("put activity %s: %w", activity.Period, err)
	}
	return nil
}

// Activity returns cached activity for period.
func (s *Store) Activity(period domain.Period) (domain.MonthlyActivity, error) {
	var activity domain.MonthlyActivity
	if err := s.get(activityKey(period), &activity); err != nil {
		return domain.MonthlyActivity{}, err
	}
	return activity, nil
}

// InvalidateActivity drops every cached month.
func (s *Store) InvalidateActivity() error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return s.db.DropPrefix([]byte(prefixActivity))
}

// Package store caches upstream snapshots in an in-memory Badger database.
// Entries expire after the configured TTL; nothing is written to disk.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultTTL applies when Options.TTL is zero.
const DefaultTTL = 5 * time.Minute

// Options configures the store.
type Options struct {
	TTL    time.Duration
	Logger *slog.Logger
}

// Store wraps an in-memory Badger instance.
type Store struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// Open creates an in-memory store.
func Open(opts Options) (*Store, error) {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	bopts := badger.DefaultOptions("").WithInMemory(true)
	bopts.Logger = nil // Disable Badger's internal logging

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	opts.Logger.Info("snapshot cache opened", "ttl", opts.TTL)

	return &Store{db: db, ttl: opts.TTL, logger: opts.Logger}, nil
}

// TTL returns the entry lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Ping reports whether the store can serve reads.
func (s *Store) Ping() error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}

// Close releases the database.
func (s *Store) Close() error {
	s.logger.Info("closing snapshot cache")
	return s.db.Close()
}

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	if s.db.IsClosed() {
		return ErrClosed
	}

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	return err
}

// set stores a value by key with the store's TTL.
func (s *Store) set(key []byte, value any) error {
	if s.db.IsClosed() {
		return ErrClosed
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(key, data).WithTTL(s.ttl))
	})
}

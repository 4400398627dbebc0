// Package store provides the Badger-backed entity store for TalentTrack.
//
// The store is the single source of truth for users, candidates, notes, and
// notifications. Every mutation is written through to disk synchronously;
// reads decode fresh copies, so callers never share mutable state.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/talenttrackapp/talenttrack-server/internal/domain"
)

// Key prefixes. Notes and notifications use composite keys so that all
// records owned by one parent share a scannable prefix.
const (
	userPrefix      = "user:"
	candidatePrefix = "cand:"
	notePrefix      = "note:"   // note:<candidateID>:<noteID>
	notifPrefix     = "notif:"  // notif:<recipientUserID>:<notificationID>
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Users      *Entity[domain.User]
	Candidates *Entity[domain.Candidate]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Write-through: every mutation hits disk before returning
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.initUsers()
	store.initCandidates()

	logger.Info("database opened", "path", path)

	return store, nil
}

// Ping verifies the database is readable. A missing key is fine; only
// transport-level failures count.
func (s *Store) Ping() error {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(userPrefix + "ping"))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	s.logger.Info("closing database connection")
	return s.db.Close()
}

// initUsers initializes the Users entity on the store.
// The email index is case-insensitive via normalizeEmail.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, userPrefix).
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail,
		)
}

// initCandidates initializes the Candidates entity on the store.
func (s *Store) initCandidates() {
	s.Candidates = NewEntity[domain.Candidate](s, candidatePrefix)
}

// Helper methods for database operations.

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Package store provides the badger-backed aggregate store. Every mutation
// of a list's sub-collections goes through an atomic, field-scoped primitive;
// the store never exposes a load-modify-save path for aggregates.
package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/booklistapp/booklist-server/internal/domain"
)

// maxTxnRetries bounds how often a conflicting transaction is retried.
// Badger aborts one of two concurrent transactions touching the same key;
// retrying the loser preserves linearizability per aggregate without losing
// either mutation.
const maxTxnRetries = 16

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Users *Entity[domain.User]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
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

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// initUsers initializes the Users entity on the store.
// Email and username indexes are unique and case-insensitive.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeKey(u.Email)}
			},
			normalizeKey,
		).
		WithIndexTransform("username",
			func(u *domain.User) []string {
				return []string{normalizeKey(u.Username)}
			},
			normalizeKey,
		)
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
	if errors.Is(err, badger.ErrDBClosed) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
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

// update runs fn in a read-write transaction, retrying on commit conflicts.
// Business errors returned by fn abort immediately; only badger conflicts
// trigger another attempt, with a short linear backoff.
func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxTxnRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		err = s.db.Update(fn)
		if errors.Is(err, badger.ErrDBClosed) {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}

		time.Sleep(time.Duration(attempt+1) * time.Millisecond)
	}

	if s.logger != nil {
		s.logger.Warn("transaction conflict retries exhausted", "attempts", maxTxnRetries)
	}
	return err
}

// txnGet loads and unmarshals a value inside an open transaction.
func txnGet(txn *badger.Txn, key []byte, dest any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

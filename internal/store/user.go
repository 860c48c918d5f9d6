package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/booklistapp/booklist-server/internal/domain"
)

const userPrefix = "user:"

var (
	// ErrUserNotFound is returned when a user cannot be found by ID, email, or username.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when attempting to create a user with an existing ID.
	ErrUserExists = errors.New("user already exists")
	// ErrEmailExists is returned when the email address is already registered.
	ErrEmailExists = errors.New("email already in use")
	// ErrUsernameExists is returned when the username is already taken.
	ErrUsernameExists = errors.New("username already taken")
	// ErrAboutNotFound is returned when an about entry does not exist on the user.
	ErrAboutNotFound = errors.New("about entry not found")
)

// CreateUser creates a new user account.
// Email and username uniqueness is enforced case-insensitively through the
// secondary indexes on the Users entity.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	// Pre-check the unique indexes so callers get a specific sentinel back.
	// The Entity.Create index-conflict check still holds under races.
	if _, err := s.Users.GetByIndex(ctx, "email", user.Email); err == nil {
		return ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("check email: %w", err)
	}

	if _, err := s.Users.GetByIndex(ctx, "username", user.Username); err == nil {
		return ErrUsernameExists
	} else if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("check username: %w", err)
	}

	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email address (case-insensitive).
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username (case-insensitive).
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "username", username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user by username: %w", err)
	}
	return user, nil
}

// UpdateUser updates an existing user, refreshing the email and username
// indexes if those fields changed.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	user.Touch()

	if err := s.Users.Update(ctx, user.ID, user); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, ErrAlreadyExists):
			return ErrEmailExists
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

// ListUsers returns all users.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for user, err := range s.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// DeleteUser removes a user and their index entries. Idempotent.
// Cascade deletion of the user's lists is handled at the service layer.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// PrependAbout adds an about entry to the front of the user's about section
// in a single transaction and returns the refreshed entries.
func (s *Store) PrependAbout(ctx context.Context, userID string, entry domain.AboutEntry) ([]domain.AboutEntry, error) {
	var about []domain.AboutEntry

	err := s.mutateUser(ctx, userID, func(user *domain.User) error {
		user.About = append([]domain.AboutEntry{entry}, user.About...)
		about = user.About
		return nil
	})
	if err != nil {
		return nil, err
	}

	return about, nil
}

// RemoveAbout deletes an about entry by ID and returns the refreshed entries.
// Returns ErrAboutNotFound if no entry with that ID exists.
func (s *Store) RemoveAbout(ctx context.Context, userID, aboutID string) ([]domain.AboutEntry, error) {
	var about []domain.AboutEntry

	err := s.mutateUser(ctx, userID, func(user *domain.User) error {
		before := len(user.About)
		user.About = slices.DeleteFunc(user.About, func(e domain.AboutEntry) bool {
			return e.ID == aboutID
		})
		if len(user.About) == before {
			return ErrAboutNotFound
		}
		about = user.About
		return nil
	})
	if err != nil {
		return nil, err
	}

	return about, nil
}

// mutateUser loads the user, applies one mutation, and writes the result back
// inside a single transaction. Safe for fields not covered by a secondary
// index; email and username changes must go through UpdateUser.
func (s *Store) mutateUser(ctx context.Context, userID string, apply func(*domain.User) error) error {
	key := []byte(userPrefix + userID)

	return s.update(ctx, func(txn *badger.Txn) error {
		var user domain.User
		if err := txnGet(txn, key, &user); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("get user: %w", err)
		}

		if err := apply(&user); err != nil {
			return err
		}
		user.Touch()

		data, err := json.Marshal(&user)
		if err != nil {
			return fmt.Errorf("marshal user: %w", err)
		}

		return txn.Set(key, data)
	})
}

// normalizeKey normalizes an index value for consistent lookups.
// Lowercases and trims whitespace.
func normalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

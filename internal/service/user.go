package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/booklistapp/booklist-server/internal/domain"
	domainerrors "github.com/booklistapp/booklist-server/internal/errors"
	"github.com/booklistapp/booklist-server/internal/id"
	"github.com/booklistapp/booklist-server/internal/store"
)

// OwnerListsDeleter removes every list a user owns. Satisfied by
// ListService; kept as an interface so UserService doesn't depend on the
// whole list API for the account-deletion cascade.
type OwnerListsDeleter interface {
	DeleteListsByOwner(ctx context.Context, ownerID string) (int, error)
}

// UserService handles profiles, about sections, and account deletion.
type UserService struct {
	store        *store.Store
	listsDeleter OwnerListsDeleter
	logger       *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store *store.Store, listsDeleter OwnerListsDeleter, logger *slog.Logger) *UserService {
	return &UserService{
		store:        store,
		listsDeleter: listsDeleter,
		logger:       logger,
	}
}

// AddAboutRequest contains the text of a new about entry.
type AddAboutRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000"`
}

// GetProfile returns a user's public profile. The password hash is never
// included.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	if !id.Valid("user", userID) {
		return nil, domainerrors.InvalidIdentifierf("no user with id %q", userID)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFoundf("no user with id %q", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user.Sanitized(), nil
}

// ListProfiles returns all users' public profiles.
func (s *UserService) ListProfiles(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	profiles := make([]*domain.User, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Sanitized())
	}

	return profiles, nil
}

// AddAbout adds an entry to the front of the actor's about section and
// returns the refreshed entries.
func (s *UserService) AddAbout(ctx context.Context, actorID string, req AddAboutRequest) ([]domain.AboutEntry, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if actorID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	aboutID, err := id.Generate("about")
	if err != nil {
		return nil, fmt.Errorf("generate about ID: %w", err)
	}

	about, err := s.store.PrependAbout(ctx, actorID, domain.AboutEntry{
		ID:        aboutID,
		Text:      req.Text,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.Unauthorized("unknown user")
		}
		return nil, fmt.Errorf("add about entry: %w", err)
	}

	return about, nil
}

// RemoveAbout deletes one of the actor's about entries and returns the
// refreshed entries.
func (s *UserService) RemoveAbout(ctx context.Context, actorID, aboutID string) ([]domain.AboutEntry, error) {
	if actorID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}
	if !id.Valid("about", aboutID) {
		return nil, domainerrors.NotFoundf("no about entry with id %q", aboutID)
	}

	about, err := s.store.RemoveAbout(ctx, actorID, aboutID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			return nil, domainerrors.Unauthorized("unknown user")
		case errors.Is(err, store.ErrAboutNotFound):
			return nil, domainerrors.NotFoundf("no about entry with id %q", aboutID)
		}
		return nil, fmt.Errorf("remove about entry: %w", err)
	}

	return about, nil
}

// DeleteAccount removes the actor's account and cascades to every list
// they own. Likes and comments the actor left on other users' lists are
// kept; they carry denormalized display names and stay renderable.
func (s *UserService) DeleteAccount(ctx context.Context, actorID string) error {
	if actorID == "" {
		return domainerrors.Unauthorized("authentication required")
	}

	if _, err := s.store.GetUser(ctx, actorID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return domainerrors.NotFoundf("no user with id %q", actorID)
		}
		return fmt.Errorf("get user: %w", err)
	}

	deleted, err := s.listsDeleter.DeleteListsByOwner(ctx, actorID)
	if err != nil {
		return fmt.Errorf("delete owned lists: %w", err)
	}

	if err := s.store.DeleteUser(ctx, actorID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("account deleted", "user_id", actorID, "lists_deleted", deleted)
	return nil
}

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

// ListService orchestrates list operations: creation, retrieval, deletion,
// and the sub-collection mutations (books, likes, comments). Authorization
// decisions live in canMutate; storage atomicity lives in the store.
type ListService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewListService creates a new list service.
func NewListService(store *store.Store, logger *slog.Logger) *ListService {
	return &ListService{
		store:  store,
		logger: logger,
	}
}

// CreateListRequest contains the data for creating a new list.
type CreateListRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// AddBookRequest contains the data for noting a book on a list.
type AddBookRequest struct {
	Title string `json:"title" validate:"required,min=1,max=500"`
}

// AddCommentRequest contains the text of a new comment.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// canMutate decides whether the actor may perform the action on the list.
// Deleting a list is reserved for its owner; deleting a comment for its
// author. Everything else only requires an authenticated actor.
func canMutate(actorID string, list *domain.List, action domain.Action, commentID string) error {
	if actorID == "" {
		return domainerrors.Unauthorized("authentication required")
	}

	switch action {
	case domain.ActionDeleteList:
		if list.OwnerID != actorID {
			return domainerrors.Forbidden("only the list owner can delete it")
		}
	case domain.ActionDeleteComment:
		comment := list.FindComment(commentID)
		if comment == nil {
			return domainerrors.CommentNotFound("comment not found")
		}
		if comment.UserID != actorID {
			return domainerrors.Forbidden("only the comment author can delete it")
		}
	case domain.ActionAddBook, domain.ActionLike, domain.ActionUnlike, domain.ActionAddComment:
		// Any authenticated actor.
	}

	return nil
}

// requireListID rejects identifiers that cannot possibly name a list.
// Malformed IDs are indistinguishable from absent ones to callers.
func requireListID(listID string) error {
	if !id.Valid("list", listID) {
		return domainerrors.InvalidIdentifierf("no list with id %q", listID)
	}
	return nil
}

// CreateList creates a new empty list owned by the actor.
func (s *ListService) CreateList(ctx context.Context, actorID string, req CreateListRequest) (*domain.List, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	owner, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.Unauthorized("unknown user")
		}
		return nil, fmt.Errorf("get owner: %w", err)
	}

	listID, err := id.Generate("list")
	if err != nil {
		return nil, fmt.Errorf("generate list ID: %w", err)
	}

	list := &domain.List{
		ID:        listID,
		Name:      req.Name,
		OwnerID:   owner.ID,
		OwnerName: owner.DisplayName(),
		CreatedAt: time.Now(),
		Books:     []domain.BookEntry{},
		Likes:     []domain.Like{},
		Comments:  []domain.Comment{},
	}

	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}

	s.logger.Info("list created",
		"list_id", listID,
		"owner_id", owner.ID,
		"name", req.Name,
	)

	return list, nil
}

// GetList retrieves a single list by ID.
func (s *ListService) GetList(ctx context.Context, listID string) (*domain.List, error) {
	if err := requireListID(listID); err != nil {
		return nil, err
	}

	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, domainerrors.NotFoundf("no list with id %q", listID)
		}
		return nil, fmt.Errorf("get list: %w", err)
	}

	return list, nil
}

// ListAll returns every list, newest first.
func (s *ListService) ListAll(ctx context.Context) ([]*domain.List, error) {
	lists, err := s.store.ListAllLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	return lists, nil
}

// ListByOwner returns the lists owned by a user, newest first.
func (s *ListService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.List, error) {
	if !id.Valid("user", ownerID) {
		return nil, domainerrors.InvalidIdentifierf("no user with id %q", ownerID)
	}

	lists, err := s.store.ListListsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list lists by owner: %w", err)
	}
	return lists, nil
}

// DeleteList removes a list. Only the owner may delete it.
func (s *ListService) DeleteList(ctx context.Context, actorID, listID string) error {
	list, err := s.GetList(ctx, listID)
	if err != nil {
		return err
	}

	if err := canMutate(actorID, list, domain.ActionDeleteList, ""); err != nil {
		return err
	}

	if err := s.store.DeleteList(ctx, listID); err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return domainerrors.NotFoundf("no list with id %q", listID)
		}
		return fmt.Errorf("delete list: %w", err)
	}

	s.logger.Info("list deleted", "list_id", listID, "owner_id", actorID)
	return nil
}

// AddBook notes a book at the front of the list's books and returns the
// refreshed books collection. Duplicate titles are permitted.
func (s *ListService) AddBook(ctx context.Context, actorID, listID string, req AddBookRequest) ([]domain.BookEntry, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if err := requireListID(listID); err != nil {
		return nil, err
	}
	if err := canMutate(actorID, nil, domain.ActionAddBook, ""); err != nil {
		return nil, err
	}

	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.Unauthorized("unknown user")
		}
		return nil, fmt.Errorf("get actor: %w", err)
	}

	books, err := s.store.PrependBook(ctx, listID, domain.BookEntry{
		Title:  req.Title,
		Name:   actor.DisplayName(),
		UserID: actor.ID,
	})
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, domainerrors.NotFoundf("no list with id %q", listID)
		}
		return nil, fmt.Errorf("add book: %w", err)
	}

	return books, nil
}

// Like records the actor's like on the list and returns the refreshed likes.
// A user can like a list at most once.
func (s *ListService) Like(ctx context.Context, actorID, listID string) ([]domain.Like, error) {
	if err := requireListID(listID); err != nil {
		return nil, err
	}
	if err := canMutate(actorID, nil, domain.ActionLike, ""); err != nil {
		return nil, err
	}

	likes, err := s.store.AddLike(ctx, listID, domain.Like{
		UserID:    actorID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrListNotFound):
			return nil, domainerrors.NotFoundf("no list with id %q", listID)
		case errors.Is(err, store.ErrAlreadyLiked):
			return nil, domainerrors.AlreadyLiked("list already liked")
		}
		return nil, fmt.Errorf("like list: %w", err)
	}

	return likes, nil
}

// Unlike removes the actor's like and returns the refreshed likes.
func (s *ListService) Unlike(ctx context.Context, actorID, listID string) ([]domain.Like, error) {
	if err := requireListID(listID); err != nil {
		return nil, err
	}
	if err := canMutate(actorID, nil, domain.ActionUnlike, ""); err != nil {
		return nil, err
	}

	likes, err := s.store.RemoveLike(ctx, listID, actorID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrListNotFound):
			return nil, domainerrors.NotFoundf("no list with id %q", listID)
		case errors.Is(err, store.ErrNotLiked):
			return nil, domainerrors.NotLiked("list not liked")
		}
		return nil, fmt.Errorf("unlike list: %w", err)
	}

	return likes, nil
}

// AddComment adds a comment at the front of the list's comments and returns
// the refreshed comments collection.
func (s *ListService) AddComment(ctx context.Context, actorID, listID string, req AddCommentRequest) ([]domain.Comment, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if err := requireListID(listID); err != nil {
		return nil, err
	}
	if err := canMutate(actorID, nil, domain.ActionAddComment, ""); err != nil {
		return nil, err
	}

	actor, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.Unauthorized("unknown user")
		}
		return nil, fmt.Errorf("get actor: %w", err)
	}

	commentID, err := id.Generate("cmt")
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	comments, err := s.store.PrependComment(ctx, listID, domain.Comment{
		ID:        commentID,
		Text:      req.Text,
		Name:      actor.DisplayName(),
		UserID:    actor.ID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrListNotFound) {
			return nil, domainerrors.NotFoundf("no list with id %q", listID)
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}

	return comments, nil
}

// DeleteComment removes a comment. Only the comment's author may delete it.
func (s *ListService) DeleteComment(ctx context.Context, actorID, listID, commentID string) ([]domain.Comment, error) {
	if !id.Valid("cmt", commentID) {
		return nil, domainerrors.CommentNotFound("comment not found")
	}

	list, err := s.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}

	if err := canMutate(actorID, list, domain.ActionDeleteComment, commentID); err != nil {
		return nil, err
	}

	comments, err := s.store.RemoveComment(ctx, listID, commentID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrListNotFound):
			return nil, domainerrors.NotFoundf("no list with id %q", listID)
		case errors.Is(err, store.ErrCommentNotFound):
			// The comment vanished between the authorization check and the
			// delete; report it the same way as any missing comment.
			return nil, domainerrors.CommentNotFound("comment not found")
		}
		return nil, fmt.Errorf("delete comment: %w", err)
	}

	return comments, nil
}

// DeleteListsByOwner removes every list a user owns. Used by account
// deletion; bypasses per-list authorization because the caller has already
// established the actor owns the account.
func (s *ListService) DeleteListsByOwner(ctx context.Context, ownerID string) (int, error) {
	lists, err := s.store.ListListsByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("list lists by owner: %w", err)
	}

	var deleted int
	for _, list := range lists {
		if err := s.store.DeleteList(ctx, list.ID); err != nil {
			if errors.Is(err, store.ErrListNotFound) {
				continue
			}
			return deleted, fmt.Errorf("delete list %s: %w", list.ID, err)
		}
		deleted++
	}

	if deleted > 0 {
		s.logger.Info("owner lists deleted", "owner_id", ownerID, "count", deleted)
	}

	return deleted, nil
}

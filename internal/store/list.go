package store

import (
	"cmp"
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/booklistapp/booklist-server/internal/domain"
)

const (
	listPrefix        = "list:"
	listByOwnerPrefix = "list:idx:owner:" // <ownerID>:<listID> -> listID
)

var (
	// ErrListNotFound is returned when a list cannot be found by ID.
	ErrListNotFound = errors.New("list not found")
	// ErrDuplicateList is returned when attempting to create a list with an existing ID.
	ErrDuplicateList = errors.New("list already exists")
	// ErrAlreadyLiked is returned when the user has already liked the list.
	ErrAlreadyLiked = errors.New("list already liked by user")
	// ErrNotLiked is returned when removing a like the user never placed.
	ErrNotLiked = errors.New("list not liked by user")
	// ErrCommentNotFound is returned when a comment does not exist on the list.
	ErrCommentNotFound = errors.New("comment not found")
)

// ownerIndexKey builds the owner index entry for a list.
func ownerIndexKey(ownerID, listID string) []byte {
	return []byte(listByOwnerPrefix + ownerID + ":" + listID)
}

// CreateList stores a new list aggregate and its owner index entry.
func (s *Store) CreateList(ctx context.Context, list *domain.List) error {
	key := buildKey(listPrefix, list.ID)
	defer releaseKey(key)

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal list: %w", err)
	}

	return s.update(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return ErrDuplicateList
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check list exists: %w", err)
		}

		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(ownerIndexKey(list.OwnerID, list.ID), []byte(list.ID))
	})
}

// GetList retrieves a list aggregate by ID.
func (s *Store) GetList(_ context.Context, id string) (*domain.List, error) {
	key := buildKey(listPrefix, id)
	defer releaseKey(key)

	var list domain.List
	if err := s.get(key, &list); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrListNotFound
		}
		return nil, fmt.Errorf("get list: %w", err)
	}

	return &list, nil
}

// ListAllLists returns every list, newest first.
func (s *Store) ListAllLists(ctx context.Context) ([]*domain.List, error) {
	prefix := []byte(listPrefix)
	var lists []*domain.List

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			// Skip owner index entries which share the "list:" prefix.
			key := string(it.Item().Key())
			if strings.HasPrefix(key, listByOwnerPrefix) {
				continue
			}

			var list domain.List
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &list)
			})
			if err != nil {
				return err
			}

			lists = append(lists, &list)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}

	sortListsNewestFirst(lists)
	return lists, nil
}

// ListListsByOwner returns all lists owned by a user, newest first.
func (s *Store) ListListsByOwner(ctx context.Context, ownerID string) ([]*domain.List, error) {
	prefix := []byte(listByOwnerPrefix + ownerID + ":")
	var ids []string

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = true

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				ids = append(ids, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list lists by owner: %w", err)
	}

	lists := make([]*domain.List, 0, len(ids))
	for _, id := range ids {
		list, err := s.GetList(ctx, id)
		if err != nil {
			// Index entry without an aggregate means a torn delete; skip it.
			if errors.Is(err, ErrListNotFound) {
				continue
			}
			return nil, err
		}
		lists = append(lists, list)
	}

	sortListsNewestFirst(lists)
	return lists, nil
}

// DeleteList removes a list aggregate and its owner index entry in one
// transaction. Returns ErrListNotFound if the list does not exist.
func (s *Store) DeleteList(ctx context.Context, id string) error {
	key := buildKey(listPrefix, id)
	defer releaseKey(key)

	return s.update(ctx, func(txn *badger.Txn) error {
		var list domain.List
		if err := txnGet(txn, key, &list); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrListNotFound
			}
			return fmt.Errorf("get list: %w", err)
		}

		if err := txn.Delete(ownerIndexKey(list.OwnerID, id)); err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// PrependBook adds a book to the front of the list's books in a single
// transaction and returns the refreshed books collection.
func (s *Store) PrependBook(ctx context.Context, listID string, book domain.BookEntry) ([]domain.BookEntry, error) {
	var books []domain.BookEntry

	err := s.mutateList(ctx, listID, func(list *domain.List) error {
		list.Books = append([]domain.BookEntry{book}, list.Books...)
		books = list.Books
		return nil
	})
	if err != nil {
		return nil, err
	}

	return books, nil
}

// AddLike records a like for the user and returns the refreshed likes.
// Returns ErrAlreadyLiked if the user has already liked the list.
func (s *Store) AddLike(ctx context.Context, listID string, like domain.Like) ([]domain.Like, error) {
	var likes []domain.Like

	err := s.mutateList(ctx, listID, func(list *domain.List) error {
		if list.HasLike(like.UserID) {
			return ErrAlreadyLiked
		}
		list.Likes = append(list.Likes, like)
		likes = list.Likes
		return nil
	})
	if err != nil {
		return nil, err
	}

	return likes, nil
}

// RemoveLike removes the user's like and returns the refreshed likes.
// Returns ErrNotLiked if the user has not liked the list.
func (s *Store) RemoveLike(ctx context.Context, listID, userID string) ([]domain.Like, error) {
	var likes []domain.Like

	err := s.mutateList(ctx, listID, func(list *domain.List) error {
		if !list.HasLike(userID) {
			return ErrNotLiked
		}
		list.Likes = slices.DeleteFunc(list.Likes, func(l domain.Like) bool {
			return l.UserID == userID
		})
		likes = list.Likes
		return nil
	})
	if err != nil {
		return nil, err
	}

	return likes, nil
}

// PrependComment adds a comment to the front of the list's comments in a
// single transaction and returns the refreshed comments collection.
func (s *Store) PrependComment(ctx context.Context, listID string, comment domain.Comment) ([]domain.Comment, error) {
	var comments []domain.Comment

	err := s.mutateList(ctx, listID, func(list *domain.List) error {
		list.Comments = append([]domain.Comment{comment}, list.Comments...)
		comments = list.Comments
		return nil
	})
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// RemoveComment deletes a comment by ID and returns the refreshed comments.
// Returns ErrCommentNotFound if no comment with that ID exists on the list.
func (s *Store) RemoveComment(ctx context.Context, listID, commentID string) ([]domain.Comment, error) {
	var comments []domain.Comment

	err := s.mutateList(ctx, listID, func(list *domain.List) error {
		before := len(list.Comments)
		list.Comments = slices.DeleteFunc(list.Comments, func(c domain.Comment) bool {
			return c.ID == commentID
		})
		if len(list.Comments) == before {
			return ErrCommentNotFound
		}
		comments = list.Comments
		return nil
	})
	if err != nil {
		return nil, err
	}

	return comments, nil
}

// mutateList loads the aggregate, applies exactly one sub-collection
// mutation, and writes the result back within a single transaction. Every
// list mutation in the store goes through here; combined with the conflict
// retry in update, concurrent mutations of the same list serialize without
// losing writes.
func (s *Store) mutateList(ctx context.Context, listID string, apply func(*domain.List) error) error {
	key := buildKey(listPrefix, listID)
	defer releaseKey(key)

	return s.update(ctx, func(txn *badger.Txn) error {
		var list domain.List
		if err := txnGet(txn, key, &list); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrListNotFound
			}
			return fmt.Errorf("get list: %w", err)
		}

		if err := apply(&list); err != nil {
			return err
		}

		data, err := json.Marshal(&list)
		if err != nil {
			return fmt.Errorf("marshal list: %w", err)
		}

		return txn.Set(key, data)
	})
}

func sortListsNewestFirst(lists []*domain.List) {
	slices.SortFunc(lists, func(a, b *domain.List) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})
}

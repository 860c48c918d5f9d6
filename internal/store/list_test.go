package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklistapp/booklist-server/internal/domain"
)

func testList(id, ownerID, name string) *domain.List {
	return &domain.List{
		ID:        id,
		Name:      name,
		OwnerID:   ownerID,
		OwnerName: "alice",
		CreatedAt: time.Now(),
	}
}

func TestCreateList(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	list := testList("list-001", "user-001", "Winter Reading")
	require.NoError(t, s.CreateList(ctx, list))

	retrieved, err := s.GetList(ctx, "list-001")
	require.NoError(t, err)
	assert.Equal(t, "Winter Reading", retrieved.Name)
	assert.Equal(t, "user-001", retrieved.OwnerID)
	assert.Empty(t, retrieved.Books)
	assert.Empty(t, retrieved.Likes)
	assert.Empty(t, retrieved.Comments)
}

func TestCreateList_Duplicate(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	list := testList("list-001", "user-001", "Winter Reading")
	require.NoError(t, s.CreateList(ctx, list))

	err := s.CreateList(ctx, list)
	assert.ErrorIs(t, err, ErrDuplicateList)
}

func TestGetList_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetList(context.Background(), "list-nonexistent")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestListAllLists(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	older := testList("list-001", "user-001", "Older")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := testList("list-002", "user-002", "Newer")

	require.NoError(t, s.CreateList(ctx, older))
	require.NoError(t, s.CreateList(ctx, newer))

	lists, err := s.ListAllLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 2)

	// Newest first, and owner index entries never leak into results.
	assert.Equal(t, "list-002", lists[0].ID)
	assert.Equal(t, "list-001", lists[1].ID)
}

func TestListListsByOwner(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateList(ctx, testList("list-001", "user-001", "Mine")))
	require.NoError(t, s.CreateList(ctx, testList("list-002", "user-002", "Theirs")))
	require.NoError(t, s.CreateList(ctx, testList("list-003", "user-001", "Also Mine")))

	lists, err := s.ListListsByOwner(ctx, "user-001")
	require.NoError(t, err)
	require.Len(t, lists, 2)
	for _, l := range lists {
		assert.Equal(t, "user-001", l.OwnerID)
	}

	lists, err = s.ListListsByOwner(ctx, "user-nonexistent")
	require.NoError(t, err)
	assert.Empty(t, lists)
}

func TestDeleteList(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateList(ctx, testList("list-001", "user-001", "Doomed")))
	require.NoError(t, s.DeleteList(ctx, "list-001"))

	_, err := s.GetList(ctx, "list-001")
	assert.ErrorIs(t, err, ErrListNotFound)

	// Owner index entry is gone too.
	lists, err := s.ListListsByOwner(ctx, "user-001")
	require.NoError(t, err)
	assert.Empty(t, lists)

	err = s.DeleteList(ctx, "list-001")
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestPrependBook(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateList(ctx, testList("list-001", "user-001", "Novels")))

	books, err := s.PrependBook(ctx, "list-001", domain.BookEntry{Title: "Dune", Name: "alice", UserID: "user-001"})
	require.NoError(t, err)
	require.Len(t, books, 1)

	books, err = s.PrependBook(ctx, "list-001", domain.BookEntry{Title: "Hyperion", Name: "bob", UserID: "user-002"})
	require.NoError(t, err)
	require.Len(t, books, 2)

	// Most recent addition first.
	assert.Equal(t, "Hyperion", books[0].Title)
	assert.Equal(t, "Dune", books[1].Title)

	// Duplicate titles are allowed.
	books, err = s.PrependBook(ctx, "list-001", domain.BookEntry{Title: "Dune", Name: "bob", UserID: "user-002"})
	require.NoError(t, err)
	assert.Len(t, books, 3)

	_, err = s.PrependBook(ctx, "list-nonexistent", domain.BookEntry{Title: "Dune"})
	assert.ErrorIs(t, err, ErrListNotFound)
}

func TestAddLike(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateList(ctx, testList("list-001", "user-001", "Novels")))

	likes, err := s.AddLike(ctx, "list-001", domain.Like{UserID: "user-002", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Len(t, likes, 1)

	// Second like from the same user is rejected.
	_, err = s.AddLike(ctx, "list-001", domain.Like{UserID: "user-002", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	// A different user can still like.
	likes, err = s.AddLike(ctx, "list-001", domain.Like{UserID: "user-003", CreatedAt: time.Now()})
	require.NoError(t, err)
	assert.Len(t, likes, 2)
}

func TestRemoveLike(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateList(ctx, testList("list-001", "user-001", "Novels")))

	_, err := s.RemoveLike(ctx, "list-001", "user-002")
	assert.ErrorIs(t, err, ErrNotLiked)

	_, err = s.AddLike(ctx, "list-001", domain.Like{UserID: "user-002", CreatedAt: time.Now()})
	require.NoError(t, err)

	likes, err := s.RemoveLike(ctx, "list-001", "user-002")
	require.NoError(t, err)
	assert.Empty(t, likes)

	// Unlike twice fails the second time.
	_, err = s.RemoveLike(ctx, "list-001", "user-002")
	assert.ErrorIs(t, err, ErrNotLiked)
}

func TestPrependComment(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateList(ctx, testList("list-001", "user-001", "Novels")))

	comments, err := s.PrependComment(ctx, "list-001", domain.Comment{
		ID: "cmt-001", Text: "great picks", Name: "bob", UserID: "user-002", CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, comments, 1)

	comments, err = s.PrependComment(ctx, "list-001", domain.Comment{
		ID: "cmt-002", Text: "adding these to my queue", Name: "carol", UserID: "user-003", CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "cmt-002", comments[0].ID)
}

func TestRemoveComment(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateList(ctx, testList("list-001", "user-001", "Novels")))

	_, err := s.PrependComment(ctx, "list-001", domain.Comment{ID: "cmt-001", Text: "one", UserID: "user-002"})
	require.NoError(t, err)
	_, err = s.PrependComment(ctx, "list-001", domain.Comment{ID: "cmt-002", Text: "two", UserID: "user-003"})
	require.NoError(t, err)

	comments, err := s.RemoveComment(ctx, "list-001", "cmt-001")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "cmt-002", comments[0].ID)

	_, err = s.RemoveComment(ctx, "list-001", "cmt-001")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

// Concurrency: every mutation must survive conflicting writers.

func TestPrependBook_Concurrent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateList(ctx, testList("list-001", "user-001", "Busy")))

	const n = 20
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.PrependBook(ctx, "list-001", domain.BookEntry{
				Title:  fmt.Sprintf("Book %02d", i),
				Name:   "alice",
				UserID: "user-001",
			})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "writer %d", i)
	}

	list, err := s.GetList(ctx, "list-001")
	require.NoError(t, err)
	assert.Len(t, list.Books, n, "no writes may be lost")
}

func TestAddLike_ConcurrentSameUser(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateList(ctx, testList("list-001", "user-001", "Busy")))

	const n = 10
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.AddLike(ctx, "list-001", domain.Like{UserID: "user-002", CreatedAt: time.Now()})
		}()
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrAlreadyLiked)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one like may land")

	list, err := s.GetList(ctx, "list-001")
	require.NoError(t, err)
	assert.Len(t, list.Likes, 1)
}

func TestMutations_ConcurrentMixed(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateList(ctx, testList("list-001", "user-001", "Busy")))

	const n = 10
	var wg sync.WaitGroup

	for i := range n {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := s.PrependBook(ctx, "list-001", domain.BookEntry{Title: fmt.Sprintf("Book %d", i), UserID: "user-001"})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.PrependComment(ctx, "list-001", domain.Comment{ID: fmt.Sprintf("cmt-%03d", i), Text: "hi", UserID: "user-002"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, err := s.GetList(ctx, "list-001")
	require.NoError(t, err)
	assert.Len(t, list.Books, n)
	assert.Len(t, list.Comments, n)
}

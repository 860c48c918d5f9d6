package domain

import (
	"slices"
	"time"
)

// List is the aggregate root for a user-curated book list. It owns three
// independently mutable sub-collections: book entries, likes, and comments.
// The whole aggregate is persisted as one unit; sub-collections have no
// lifetime of their own and are removed with the list.
type List struct {
	CreatedAt time.Time   `json:"created_at"`
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	OwnerID   string      `json:"owner_id"`   // User who created the list; authorizes deletion
	OwnerName string      `json:"owner_name"` // Display name captured at creation
	Books     []BookEntry `json:"books"`      // Newest first, duplicates permitted
	Likes     []Like      `json:"likes"`      // At most one per user
	Comments  []Comment   `json:"comments"`   // Newest first
}

// BookEntry is a book noted on a list. Entries are embedded and positional;
// they carry no identity beyond their place in the sequence.
type BookEntry struct {
	Title  string `json:"title"`
	Name   string `json:"name"` // Submitter display name, denormalized for rendering
	UserID string `json:"user_id"`
}

// Like records that a user liked a list. Presence is the only state;
// the like count is derived, never stored.
type Like struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a free-text remark on a list, deletable only by its author.
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"` // Author display name, denormalized for rendering
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HasLike reports whether the user has already liked this list.
func (l *List) HasLike(userID string) bool {
	return slices.ContainsFunc(l.Likes, func(like Like) bool {
		return like.UserID == userID
	})
}

// LikeCount returns the derived number of likes.
func (l *List) LikeCount() int {
	return len(l.Likes)
}

// FindComment returns the comment with the given ID, or nil if absent.
func (l *List) FindComment(commentID string) *Comment {
	for i := range l.Comments {
		if l.Comments[i].ID == commentID {
			return &l.Comments[i]
		}
	}
	return nil
}

// Action identifies a mutation on a list for authorization decisions.
type Action string

const (
	// ActionDeleteList removes the whole aggregate. Owner only.
	ActionDeleteList Action = "delete_list"
	// ActionDeleteComment removes a single comment. Author only.
	ActionDeleteComment Action = "delete_comment"
	// ActionAddBook appends a book entry. Any authenticated actor.
	ActionAddBook Action = "add_book"
	// ActionLike toggles a like on. Any authenticated actor.
	ActionLike Action = "like"
	// ActionUnlike toggles a like off. Any authenticated actor.
	ActionUnlike Action = "unlike"
	// ActionAddComment appends a comment. Any authenticated actor.
	ActionAddComment Action = "add_comment"
)

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestList_HasLike(t *testing.T) {
	tests := []struct {
		name   string
		likes  []Like
		userID string
		want   bool
	}{
		{"empty likes", nil, "user-1", false},
		{"user present", []Like{{UserID: "user-1"}}, "user-1", true},
		{"different user", []Like{{UserID: "user-2"}}, "user-1", false},
		{"present among several", []Like{{UserID: "user-2"}, {UserID: "user-1"}}, "user-1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list := &List{Likes: tt.likes}
			assert.Equal(t, tt.want, list.HasLike(tt.userID))
		})
	}
}

func TestList_LikeCount(t *testing.T) {
	list := &List{}
	assert.Equal(t, 0, list.LikeCount())

	list.Likes = []Like{{UserID: "user-1"}, {UserID: "user-2"}}
	assert.Equal(t, 2, list.LikeCount())
}

func TestList_FindComment(t *testing.T) {
	now := time.Now()
	list := &List{
		Comments: []Comment{
			{ID: "cmt-1", Text: "newest", UserID: "user-1", CreatedAt: now},
			{ID: "cmt-2", Text: "older", UserID: "user-2", CreatedAt: now.Add(-time.Minute)},
		},
	}

	found := list.FindComment("cmt-2")
	assert.NotNil(t, found)
	assert.Equal(t, "older", found.Text)
	assert.Equal(t, "user-2", found.UserID)

	assert.Nil(t, list.FindComment("cmt-3"))
}

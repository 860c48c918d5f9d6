package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestList creates a list through the API and returns its response body.
func (ts *testServer) createTestList(t *testing.T, token, name string) ListResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/lists",
		map[string]any{"name": name},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "Create list failed: %s", resp.Body.String())

	var envelope testEnvelope[ListResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	return envelope.Data
}

func TestCreateList_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, userID := ts.registerTestUser(t, "alice", "alice@example.com")

	list := ts.createTestList(t, token, "Summer Reads")

	assert.NotEmpty(t, list.ID)
	assert.Equal(t, "Summer Reads", list.Name)
	assert.Equal(t, userID, list.OwnerID)
	assert.Equal(t, "alice", list.OwnerName)
	assert.Empty(t, list.Books)
	assert.Empty(t, list.Likes)
	assert.Empty(t, list.Comments)
	assert.Equal(t, 0, list.LikeCount)
}

func TestCreateList_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/lists", map[string]any{"name": "No Auth"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreateList_ValidationError(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")

	resp := ts.api.Post("/api/v1/lists",
		map[string]any{"name": ""},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListLists_NewestFirst(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")

	ts.createTestList(t, token, "First")
	ts.createTestList(t, token, "Second")
	ts.createTestList(t, token, "Third")

	resp := ts.api.Get("/api/v1/lists", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListsResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Lists, 3)
	assert.Equal(t, "Third", envelope.Data.Lists[0].Name)
	assert.Equal(t, "Second", envelope.Data.Lists[1].Name)
	assert.Equal(t, "First", envelope.Data.Lists[2].Name)
}

func TestGetList_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")

	resp := ts.api.Get("/api/v1/lists/list-V1StGXR8Z5jdHi6BmyT11", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGetList_MalformedID(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")

	// A malformed identifier is indistinguishable from an absent list.
	resp := ts.api.Get("/api/v1/lists/garbage", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteList_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ownerToken, _ := ts.registerTestUser(t, "alice", "alice@example.com")
	otherToken, _ := ts.registerTestUser(t, "bob", "bob@example.com")

	list := ts.createTestList(t, ownerToken, "Alice's List")

	// Non-owner cannot delete.
	resp := ts.api.Delete("/api/v1/lists/"+list.ID, "Authorization: Bearer "+otherToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// Owner can.
	resp = ts.api.Delete("/api/v1/lists/"+list.ID, "Authorization: Bearer "+ownerToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Gone afterwards.
	resp = ts.api.Get("/api/v1/lists/"+list.ID, "Authorization: Bearer "+ownerToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAddBook_AnyAuthenticatedUser(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ownerToken, _ := ts.registerTestUser(t, "alice", "alice@example.com")
	otherToken, bobID := ts.registerTestUser(t, "bob", "bob@example.com")

	list := ts.createTestList(t, ownerToken, "Shared Picks")

	// Someone other than the owner notes a book.
	resp := ts.api.Post("/api/v1/lists/"+list.ID+"/books",
		map[string]any{"title": "The Dispossessed"},
		"Authorization: Bearer "+otherToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[BooksResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Books, 1)
	assert.Equal(t, "The Dispossessed", envelope.Data.Books[0].Title)
	assert.Equal(t, "bob", envelope.Data.Books[0].Name)
	assert.Equal(t, bobID, envelope.Data.Books[0].UserID)
}

func TestAddBook_NewestFirstAndDuplicatesAllowed(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")
	list := ts.createTestList(t, token, "Rereads")

	for _, title := range []string{"Dune", "Hyperion", "Dune"} {
		resp := ts.api.Post("/api/v1/lists/"+list.ID+"/books",
			map[string]any{"title": title},
			"Authorization: Bearer "+token)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/lists/"+list.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Books, 3)
	assert.Equal(t, "Dune", envelope.Data.Books[0].Title)
	assert.Equal(t, "Hyperion", envelope.Data.Books[1].Title)
	assert.Equal(t, "Dune", envelope.Data.Books[2].Title)
}

func TestLikeList_OncePerUser(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, userID := ts.registerTestUser(t, "alice", "alice@example.com")
	list := ts.createTestList(t, token, "Favorites")

	// First like succeeds.
	resp := ts.api.Post("/api/v1/lists/"+list.ID+"/likes", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[LikesResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Likes, 1)
	assert.Equal(t, userID, envelope.Data.Likes[0].UserID)
	assert.Equal(t, 1, envelope.Data.LikeCount)

	// Second like from the same user is rejected.
	resp = ts.api.Post("/api/v1/lists/"+list.ID+"/likes", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUnlikeList(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")
	list := ts.createTestList(t, token, "Favorites")

	// Unliking before liking is rejected.
	resp := ts.api.Delete("/api/v1/lists/"+list.ID+"/likes", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Post("/api/v1/lists/"+list.ID+"/likes", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Delete("/api/v1/lists/"+list.ID+"/likes", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[LikesResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Empty(t, envelope.Data.Likes)
	assert.Equal(t, 0, envelope.Data.LikeCount)
}

func TestAddComment_NewestFirst(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, userID := ts.registerTestUser(t, "alice", "alice@example.com")
	list := ts.createTestList(t, token, "Discussion")

	for _, text := range []string{"first", "second"} {
		resp := ts.api.Post("/api/v1/lists/"+list.ID+"/comments",
			map[string]any{"text": text},
			"Authorization: Bearer "+token)
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := ts.api.Get("/api/v1/lists/"+list.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Comments, 2)
	assert.Equal(t, "second", envelope.Data.Comments[0].Text)
	assert.Equal(t, "first", envelope.Data.Comments[1].Text)
	assert.Equal(t, "alice", envelope.Data.Comments[0].Name)
	assert.Equal(t, userID, envelope.Data.Comments[0].UserID)
	assert.NotEmpty(t, envelope.Data.Comments[0].ID)
}

func TestDeleteComment_AuthorOnly(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ownerToken, _ := ts.registerTestUser(t, "alice", "alice@example.com")
	authorToken, _ := ts.registerTestUser(t, "bob", "bob@example.com")

	list := ts.createTestList(t, ownerToken, "Discussion")

	resp := ts.api.Post("/api/v1/lists/"+list.ID+"/comments",
		map[string]any{"text": "bob's remark"},
		"Authorization: Bearer "+authorToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[CommentsResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	require.Len(t, envelope.Data.Comments, 1)
	commentID := envelope.Data.Comments[0].ID

	// The list owner is not the author and cannot delete it.
	resp = ts.api.Delete("/api/v1/lists/"+list.ID+"/comments/"+commentID,
		"Authorization: Bearer "+ownerToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// The author can.
	resp = ts.api.Delete("/api/v1/lists/"+list.ID+"/comments/"+commentID,
		"Authorization: Bearer "+authorToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	// A second delete finds nothing.
	resp = ts.api.Delete("/api/v1/lists/"+list.ID+"/comments/"+commentID,
		"Authorization: Bearer "+authorToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteComment_UnknownCommentID(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")
	list := ts.createTestList(t, token, "Discussion")

	resp := ts.api.Delete("/api/v1/lists/"+list.ID+"/comments/cmt-V1StGXR8Z5jdHi6BmyT11",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

// TestListLifecycle walks one list through the full set of interactions:
// two users curate, like, and discuss a list, then the owner removes it.
func TestListLifecycle(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	aliceToken, aliceID := ts.registerTestUser(t, "alice", "alice@example.com")
	bobToken, bobID := ts.registerTestUser(t, "bob", "bob@example.com")

	// Alice creates a list.
	list := ts.createTestList(t, aliceToken, "Book Club 2026")

	// Both users note books.
	resp := ts.api.Post("/api/v1/lists/"+list.ID+"/books",
		map[string]any{"title": "Piranesi"},
		"Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/lists/"+list.ID+"/books",
		map[string]any{"title": "The Fifth Season"},
		"Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)

	// Both users like it.
	resp = ts.api.Post("/api/v1/lists/"+list.ID+"/likes", "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = ts.api.Post("/api/v1/lists/"+list.ID+"/likes", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)

	// Bob comments, Alice responds.
	resp = ts.api.Post("/api/v1/lists/"+list.ID+"/comments",
		map[string]any{"text": "Great picks"},
		"Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/lists/"+list.ID+"/comments",
		map[string]any{"text": "Thanks!"},
		"Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)

	// Read the aggregate back and check every sub-collection.
	resp = ts.api.Get("/api/v1/lists/"+list.ID, "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	got := envelope.Data
	assert.Equal(t, aliceID, got.OwnerID)

	require.Len(t, got.Books, 2)
	assert.Equal(t, "The Fifth Season", got.Books[0].Title)
	assert.Equal(t, bobID, got.Books[0].UserID)
	assert.Equal(t, "Piranesi", got.Books[1].Title)

	assert.Equal(t, 2, got.LikeCount)
	require.Len(t, got.Likes, 2)

	require.Len(t, got.Comments, 2)
	assert.Equal(t, "Thanks!", got.Comments[0].Text)
	assert.Equal(t, "Great picks", got.Comments[1].Text)

	// Bob unlikes; the count drops.
	resp = ts.api.Delete("/api/v1/lists/"+list.ID+"/likes", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var likes testEnvelope[LikesResponse]
	err = json.Unmarshal(resp.Body.Bytes(), &likes)
	require.NoError(t, err)
	assert.Equal(t, 1, likes.Data.LikeCount)
	assert.Equal(t, aliceID, likes.Data.Likes[0].UserID)

	// Alice deletes the list; everything goes with it.
	resp = ts.api.Delete("/api/v1/lists/"+list.ID, "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/lists", "Authorization: Bearer "+aliceToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var all testEnvelope[ListsResponse]
	err = json.Unmarshal(resp.Body.Bytes(), &all)
	require.NoError(t, err)
	assert.Empty(t, all.Data.Lists)
}

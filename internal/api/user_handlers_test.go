package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCurrentUser(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, userID := ts.registerTestUser(t, "alice", "alice@example.com")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UserResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Equal(t, userID, envelope.Data.ID)
	assert.Equal(t, "alice", envelope.Data.Username)
	assert.Equal(t, "alice@example.com", envelope.Data.Email)
}

func TestGetUser_HidesEmail(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	_, aliceID := ts.registerTestUser(t, "alice", "alice@example.com")
	bobToken, _ := ts.registerTestUser(t, "bob", "bob@example.com")

	resp := ts.api.Get("/api/v1/users/"+aliceID, "Authorization: Bearer "+bobToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var raw map[string]any
	err := json.Unmarshal(resp.Body.Bytes(), &raw)
	require.NoError(t, err)

	data, ok := raw["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "alice", data["username"])
	assert.NotContains(t, data, "email")
}

func TestGetUser_MalformedID(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")

	resp := ts.api.Get("/api/v1/users/not-a-user-id", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListUsers(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")
	ts.registerTestUser(t, "bob", "bob@example.com")

	resp := ts.api.Get("/api/v1/users", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UsersResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	assert.Len(t, envelope.Data.Users, 2)
}

func TestGetUserLists(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	aliceToken, aliceID := ts.registerTestUser(t, "alice", "alice@example.com")
	bobToken, _ := ts.registerTestUser(t, "bob", "bob@example.com")

	ts.createTestList(t, aliceToken, "Alice One")
	ts.createTestList(t, aliceToken, "Alice Two")
	ts.createTestList(t, bobToken, "Bob One")

	resp := ts.api.Get("/api/v1/users/"+aliceID+"/lists", "Authorization: Bearer "+aliceToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListsResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Lists, 2)
	for _, l := range envelope.Data.Lists {
		assert.Equal(t, aliceID, l.OwnerID)
	}
}

func TestAddAndRemoveAbout(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")

	// Add two entries.
	resp := ts.api.Put("/api/v1/user/about",
		map[string]any{"text": "Reader of space opera"},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Put("/api/v1/user/about",
		map[string]any{"text": "Occasional reviewer"},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[AboutListResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.About, 2)
	assert.Equal(t, "Occasional reviewer", envelope.Data.About[0].Text)
	assert.Equal(t, "Reader of space opera", envelope.Data.About[1].Text)

	// Remove the newest entry.
	entryID := envelope.Data.About[0].ID
	resp = ts.api.Delete("/api/v1/user/about/"+entryID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	err = json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)
	require.Len(t, envelope.Data.About, 1)
	assert.Equal(t, "Reader of space opera", envelope.Data.About[0].Text)
}

func TestRemoveAbout_UnknownID(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.registerTestUser(t, "alice", "alice@example.com")

	resp := ts.api.Delete("/api/v1/user/about/about-V1StGXR8Z5jdHi6BmyT11",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteAccount_CascadesLists(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	aliceToken, _ := ts.registerTestUser(t, "alice", "alice@example.com")
	bobToken, _ := ts.registerTestUser(t, "bob", "bob@example.com")

	ts.createTestList(t, aliceToken, "Alice's List")
	bobList := ts.createTestList(t, bobToken, "Bob's List")

	resp := ts.api.Delete("/api/v1/user", "Authorization: Bearer "+aliceToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Alice's token no longer resolves to a user, but her data is gone
	// regardless of who asks.
	resp = ts.api.Get("/api/v1/lists", "Authorization: Bearer "+bobToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListsResponse]
	err := json.Unmarshal(resp.Body.Bytes(), &envelope)
	require.NoError(t, err)

	require.Len(t, envelope.Data.Lists, 1)
	assert.Equal(t, bobList.ID, envelope.Data.Lists[0].ID)
}

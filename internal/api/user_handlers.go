package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booklistapp/booklist-server/internal/domain"
	"github.com/booklistapp/booklist-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users",
		Summary:     "List users",
		Description: "Returns all user profiles. Public.",
		Tags:        []string{"Users"},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/me",
		Summary:     "Get current user",
		Description: "Returns the authenticated user's own profile",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}",
		Summary:     "Get user",
		Description: "Returns a user's public profile",
		Tags:        []string{"Users"},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/lists",
		Summary:     "Get user lists",
		Description: "Returns the lists owned by a user, newest first. Public.",
		Tags:        []string{"Users"},
	}, s.handleGetUserLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "addAboutEntry",
		Method:      http.MethodPut,
		Path:        "/api/v1/user/about",
		Summary:     "Add about entry",
		Description: "Adds an entry to the front of the authenticated user's about section",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddAbout)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeAboutEntry",
		Method:      http.MethodDelete,
		Path:        "/api/v1/user/about/{id}",
		Summary:     "Remove about entry",
		Description: "Removes one of the authenticated user's about entries",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveAbout)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteAccount",
		Method:      http.MethodDelete,
		Path:        "/api/v1/user",
		Summary:     "Delete account",
		Description: "Deletes the authenticated user's account and every list they own",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteAccount)
}

// === DTOs ===

// AboutResponse contains a single about entry.
type AboutResponse struct {
	ID        string    `json:"id" doc:"About entry ID"`
	Text      string    `json:"text" doc:"Entry text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// ListUsersInput contains parameters for listing users.
type ListUsersInput struct{}

// UsersResponse contains a list of user profiles.
type UsersResponse struct {
	Users []UserResponse `json:"users" doc:"User profiles"`
}

// UsersOutput wraps the users response for Huma.
type UsersOutput struct {
	Body UsersResponse
}

// GetUserInput contains parameters for getting a user.
type GetUserInput struct {
	ID string `path:"id" doc:"User ID"`
}

// UserOutput wraps a single user response for Huma.
type UserOutput struct {
	Body UserResponse
}

// CurrentUserInput contains parameters for the current-user endpoint.
type CurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// GetUserListsInput contains parameters for listing a user's lists.
type GetUserListsInput struct {
	ID string `path:"id" doc:"User ID"`
}

// AddAboutRequest is the request body for adding an about entry.
type AddAboutRequest struct {
	Text string `json:"text" validate:"required,min=1,max=1000" doc:"Entry text"`
}

// AddAboutInput wraps the add-about request for Huma.
type AddAboutInput struct {
	Authorization string `header:"Authorization"`
	Body          AddAboutRequest
}

// AboutListResponse contains the refreshed about entries after a mutation.
type AboutListResponse struct {
	About []AboutResponse `json:"about" doc:"About entries, newest first"`
}

// AboutListOutput wraps the about list response for Huma.
type AboutListOutput struct {
	Body AboutListResponse
}

// RemoveAboutInput contains parameters for removing an about entry.
type RemoveAboutInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"About entry ID"`
}

// DeleteAccountInput contains parameters for account deletion.
type DeleteAccountInput struct {
	Authorization string `header:"Authorization"`
}

// MessageResponse contains a human-readable confirmation message.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps the message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// === Handlers ===

func (s *Server) handleListUsers(ctx context.Context, _ *ListUsersInput) (*UsersOutput, error) {
	users, err := s.services.User.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapUserResponse(u, false)
	}

	return &UsersOutput{Body: UsersResponse{Users: resp}}, nil
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *CurrentUserInput) (*UserOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	user, err := s.services.User.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user, true)}, nil
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	user, err := s.services.User.GetProfile(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &UserOutput{Body: mapUserResponse(user, false)}, nil
}

func (s *Server) handleGetUserLists(ctx context.Context, input *GetUserListsInput) (*ListsOutput, error) {
	lists, err := s.services.List.ListByOwner(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ListsOutput{Body: ListsResponse{Lists: mapListResponses(lists)}}, nil
}

func (s *Server) handleAddAbout(ctx context.Context, input *AddAboutInput) (*AboutListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	about, err := s.services.User.AddAbout(ctx, userID, service.AddAboutRequest{Text: input.Body.Text})
	if err != nil {
		return nil, err
	}

	return &AboutListOutput{Body: AboutListResponse{About: mapAboutResponses(about)}}, nil
}

func (s *Server) handleRemoveAbout(ctx context.Context, input *RemoveAboutInput) (*AboutListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	about, err := s.services.User.RemoveAbout(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &AboutListOutput{Body: AboutListResponse{About: mapAboutResponses(about)}}, nil
}

func (s *Server) handleDeleteAccount(ctx context.Context, input *DeleteAccountInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.User.DeleteAccount(ctx, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Account deleted"}}, nil
}

// === Helpers ===

// mapUserResponse converts a domain user to the API shape. The email is
// only included when the caller is looking at their own profile.
func mapUserResponse(u *domain.User, includeEmail bool) UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		About:       mapAboutResponses(u.About),
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
	if includeEmail {
		resp.Email = u.Email
	}
	return resp
}

func mapAboutResponses(about []domain.AboutEntry) []AboutResponse {
	resp := make([]AboutResponse, len(about))
	for i, a := range about {
		resp[i] = AboutResponse{
			ID:        a.ID,
			Text:      a.Text,
			CreatedAt: a.CreatedAt,
		}
	}
	return resp
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booklistapp/booklist-server/internal/domain"
	"github.com/booklistapp/booklist-server/internal/service"
)

func (s *Server) registerListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists",
		Summary:     "Create list",
		Description: "Creates a new empty book list owned by the authenticated user",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateList)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLists",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists",
		Summary:     "List lists",
		Description: "Returns every list, newest first. Public.",
		Tags:        []string{"Lists"},
	}, s.handleListLists)

	huma.Register(s.api, huma.Operation{
		OperationID: "getList",
		Method:      http.MethodGet,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Get list",
		Description: "Returns a list with its books, likes, and comments. Public.",
		Tags:        []string{"Lists"},
	}, s.handleGetList)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}",
		Summary:     "Delete list",
		Description: "Deletes a list. Only the owner may delete it.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteList)

	huma.Register(s.api, huma.Operation{
		OperationID: "addBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{id}/books",
		Summary:     "Add book",
		Description: "Notes a book at the front of the list's books",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "likeList",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{id}/likes",
		Summary:     "Like list",
		Description: "Records the authenticated user's like. A user can like a list at most once.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLikeList)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlikeList",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}/likes",
		Summary:     "Unlike list",
		Description: "Removes the authenticated user's like",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnlikeList)

	huma.Register(s.api, huma.Operation{
		OperationID: "addComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/lists/{id}/comments",
		Summary:     "Add comment",
		Description: "Adds a comment at the front of the list's comments",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/lists/{id}/comments/{commentID}",
		Summary:     "Delete comment",
		Description: "Deletes a comment. Only the comment's author may delete it.",
		Tags:        []string{"Lists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)
}

// === DTOs ===

// BookEntryResponse contains a single book entry.
type BookEntryResponse struct {
	Title  string `json:"title" doc:"Book title"`
	Name   string `json:"name" doc:"Submitter display name"`
	UserID string `json:"user_id" doc:"Submitter user ID"`
}

// LikeResponse contains a single like.
type LikeResponse struct {
	UserID    string    `json:"user_id" doc:"Liking user ID"`
	CreatedAt time.Time `json:"created_at" doc:"Like time"`
}

// CommentResponse contains a single comment.
type CommentResponse struct {
	ID        string    `json:"id" doc:"Comment ID"`
	Text      string    `json:"text" doc:"Comment text"`
	Name      string    `json:"name" doc:"Author display name"`
	UserID    string    `json:"user_id" doc:"Author user ID"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// ListResponse contains list data in API responses.
type ListResponse struct {
	ID        string              `json:"id" doc:"List ID"`
	Name      string              `json:"name" doc:"List name"`
	OwnerID   string              `json:"owner_id" doc:"Owner user ID"`
	OwnerName string              `json:"owner_name" doc:"Owner display name"`
	CreatedAt time.Time           `json:"created_at" doc:"Creation time"`
	Books     []BookEntryResponse `json:"books" doc:"Book entries, newest first"`
	Likes     []LikeResponse      `json:"likes" doc:"Likes, at most one per user"`
	LikeCount int                 `json:"like_count" doc:"Derived number of likes"`
	Comments  []CommentResponse   `json:"comments" doc:"Comments, newest first"`
}

// ListsResponse contains multiple lists.
type ListsResponse struct {
	Lists []ListResponse `json:"lists" doc:"Lists, newest first"`
}

// ListsOutput wraps the lists response for Huma.
type ListsOutput struct {
	Body ListsResponse
}

// ListOutput wraps a single list response for Huma.
type ListOutput struct {
	Body ListResponse
}

// CreateListRequest is the request body for creating a list.
type CreateListRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200" doc:"List name"`
}

// CreateListInput wraps the create list request for Huma.
type CreateListInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateListRequest
}

// ListListsInput contains parameters for listing lists.
type ListListsInput struct{}

// GetListInput contains parameters for getting a list.
type GetListInput struct {
	ID string `path:"id" doc:"List ID"`
}

// DeleteListInput contains parameters for deleting a list.
type DeleteListInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
}

// AddBookRequest is the request body for noting a book.
type AddBookRequest struct {
	Title string `json:"title" validate:"required,min=1,max=500" doc:"Book title"`
}

// AddBookInput wraps the add book request for Huma.
type AddBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
	Body          AddBookRequest
}

// BooksResponse contains the refreshed books after a mutation.
type BooksResponse struct {
	Books []BookEntryResponse `json:"books" doc:"Book entries, newest first"`
}

// BooksOutput wraps the books response for Huma.
type BooksOutput struct {
	Body BooksResponse
}

// LikeInput contains parameters for liking or unliking a list.
type LikeInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
}

// LikesResponse contains the refreshed likes after a mutation.
type LikesResponse struct {
	Likes     []LikeResponse `json:"likes" doc:"Likes, at most one per user"`
	LikeCount int            `json:"like_count" doc:"Derived number of likes"`
}

// LikesOutput wraps the likes response for Huma.
type LikesOutput struct {
	Body LikesResponse
}

// AddCommentRequest is the request body for adding a comment.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000" doc:"Comment text"`
}

// AddCommentInput wraps the add comment request for Huma.
type AddCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
	Body          AddCommentRequest
}

// CommentsResponse contains the refreshed comments after a mutation.
type CommentsResponse struct {
	Comments []CommentResponse `json:"comments" doc:"Comments, newest first"`
}

// CommentsOutput wraps the comments response for Huma.
type CommentsOutput struct {
	Body CommentsResponse
}

// DeleteCommentInput contains parameters for deleting a comment.
type DeleteCommentInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"List ID"`
	CommentID     string `path:"commentID" doc:"Comment ID"`
}

// === Handlers ===

func (s *Server) handleCreateList(ctx context.Context, input *CreateListInput) (*ListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	list, err := s.services.List.CreateList(ctx, userID, service.CreateListRequest{Name: input.Body.Name})
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list)}, nil
}

func (s *Server) handleListLists(ctx context.Context, _ *ListListsInput) (*ListsOutput, error) {
	lists, err := s.services.List.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return &ListsOutput{Body: ListsResponse{Lists: mapListResponses(lists)}}, nil
}

func (s *Server) handleGetList(ctx context.Context, input *GetListInput) (*ListOutput, error) {
	list, err := s.services.List.GetList(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ListOutput{Body: mapListResponse(list)}, nil
}

func (s *Server) handleDeleteList(ctx context.Context, input *DeleteListInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.List.DeleteList(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "List deleted"}}, nil
}

func (s *Server) handleAddBook(ctx context.Context, input *AddBookInput) (*BooksOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	books, err := s.services.List.AddBook(ctx, userID, input.ID, service.AddBookRequest{Title: input.Body.Title})
	if err != nil {
		return nil, err
	}

	return &BooksOutput{Body: BooksResponse{Books: mapBookResponses(books)}}, nil
}

func (s *Server) handleLikeList(ctx context.Context, input *LikeInput) (*LikesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	likes, err := s.services.List.Like(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &LikesOutput{Body: mapLikesResponse(likes)}, nil
}

func (s *Server) handleUnlikeList(ctx context.Context, input *LikeInput) (*LikesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	likes, err := s.services.List.Unlike(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &LikesOutput{Body: mapLikesResponse(likes)}, nil
}

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*CommentsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	comments, err := s.services.List.AddComment(ctx, userID, input.ID, service.AddCommentRequest{Text: input.Body.Text})
	if err != nil {
		return nil, err
	}

	return &CommentsOutput{Body: CommentsResponse{Comments: mapCommentResponses(comments)}}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *DeleteCommentInput) (*CommentsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	comments, err := s.services.List.DeleteComment(ctx, userID, input.ID, input.CommentID)
	if err != nil {
		return nil, err
	}

	return &CommentsOutput{Body: CommentsResponse{Comments: mapCommentResponses(comments)}}, nil
}

// === Helpers ===

func mapListResponse(l *domain.List) ListResponse {
	return ListResponse{
		ID:        l.ID,
		Name:      l.Name,
		OwnerID:   l.OwnerID,
		OwnerName: l.OwnerName,
		CreatedAt: l.CreatedAt,
		Books:     mapBookResponses(l.Books),
		Likes:     mapLikeResponses(l.Likes),
		LikeCount: l.LikeCount(),
		Comments:  mapCommentResponses(l.Comments),
	}
}

func mapListResponses(lists []*domain.List) []ListResponse {
	resp := make([]ListResponse, len(lists))
	for i, l := range lists {
		resp[i] = mapListResponse(l)
	}
	return resp
}

func mapBookResponses(books []domain.BookEntry) []BookEntryResponse {
	resp := make([]BookEntryResponse, len(books))
	for i, b := range books {
		resp[i] = BookEntryResponse{
			Title:  b.Title,
			Name:   b.Name,
			UserID: b.UserID,
		}
	}
	return resp
}

func mapLikeResponses(likes []domain.Like) []LikeResponse {
	resp := make([]LikeResponse, len(likes))
	for i, l := range likes {
		resp[i] = LikeResponse{
			UserID:    l.UserID,
			CreatedAt: l.CreatedAt,
		}
	}
	return resp
}

func mapLikesResponse(likes []domain.Like) LikesResponse {
	return LikesResponse{
		Likes:     mapLikeResponses(likes),
		LikeCount: len(likes),
	}
}

func mapCommentResponses(comments []domain.Comment) []CommentResponse {
	resp := make([]CommentResponse, len(comments))
	for i, c := range comments {
		resp[i] = CommentResponse{
			ID:        c.ID,
			Text:      c.Text,
			Name:      c.Name,
			UserID:    c.UserID,
			CreatedAt: c.CreatedAt,
		}
	}
	return resp
}

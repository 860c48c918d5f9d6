package api

import "github.com/booklistapp/booklist-server/internal/service"

// Services holds all service dependencies for the API server.
type Services struct {
	Auth *service.AuthService
	List *service.ListService
	User *service.UserService
}

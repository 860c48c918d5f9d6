package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booklistapp/booklist-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register new user",
		Description: "Creates a new user account and signs them in",
		Tags:        []string{"Authentication"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "User login",
		Description: "Authenticates a user and returns an access token",
		Tags:        []string{"Authentication"},
	}, s.handleLogin)
}

// === DTOs ===

// RegisterRequest is the request body for user registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64" doc:"Unique username"`
	Email    string `json:"email" validate:"required,email,max=254" doc:"Email address"`
	Password string `json:"password" validate:"required,min=6,max=1024" doc:"Password"`
}

// RegisterInput wraps the register request for Huma.
type RegisterInput struct {
	Body RegisterRequest
}

// LoginRequest is the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" doc:"User email"`
	Password string `json:"password" validate:"required,max=1024" doc:"User password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// UserResponse contains public user data in API responses.
type UserResponse struct {
	ID          string          `json:"id" doc:"User ID"`
	Username    string          `json:"username" doc:"Username"`
	Email       string          `json:"email,omitempty" doc:"Email address (own profile only)"`
	About       []AboutResponse `json:"about" doc:"About entries, newest first"`
	CreatedAt   time.Time       `json:"created_at" doc:"Account creation time"`
	LastLoginAt time.Time       `json:"last_login_at,omitzero" doc:"Last login time"`
}

// AuthResponse contains the access token and authenticated user.
type AuthResponse struct {
	AccessToken string       `json:"access_token" doc:"PASETO v4.local access token"`
	ExpiresAt   time.Time    `json:"expires_at" doc:"Token expiry time"`
	User        UserResponse `json:"user" doc:"Authenticated user"`
}

// AuthOutput wraps the auth response for Huma.
type AuthOutput struct {
	Body AuthResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.RegisterRequest{
		Username: input.Body.Username,
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*AuthOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.LoginRequest{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, err
	}

	return &AuthOutput{Body: mapAuthResponse(resp)}, nil
}

// === Helpers ===

func mapAuthResponse(resp *service.AuthResponse) AuthResponse {
	return AuthResponse{
		AccessToken: resp.AccessToken,
		ExpiresAt:   resp.ExpiresAt,
		User:        mapUserResponse(resp.User, true),
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/booklistapp/booklist-server/internal/auth"
	"github.com/booklistapp/booklist-server/internal/domain"
	domainerrors "github.com/booklistapp/booklist-server/internal/errors"
	"github.com/booklistapp/booklist-server/internal/id"
	"github.com/booklistapp/booklist-server/internal/store"
	"github.com/booklistapp/booklist-server/internal/validation"
)

// validate is the shared request validator for all services.
var validate = validation.New()

// AuthService handles registration, login, and access token verification.
type AuthService struct {
	store        *store.Store
	tokenService *auth.TokenService
	logger       *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(store *store.Store, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:        store,
		tokenService: tokenService,
		logger:       logger,
	}
}

// RegisterRequest contains user registration data.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64,alphanumunicode"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// LoginRequest contains user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse contains the access token and the authenticated user.
type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Register creates a new user account and signs them in.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           userID,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		About:        []domain.AboutEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
		LastLoginAt:  now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailExists):
			return nil, domainerrors.AlreadyExists("email already in use")
		case errors.Is(err, store.ErrUsernameExists):
			return nil, domainerrors.AlreadyExists("username already taken")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", userID, "username", user.Username)

	return s.issueToken(user)
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Don't leak whether the email exists
			return nil, domainerrors.InvalidCredentials("invalid email or password")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, domainerrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		// Login still succeeds; the timestamp is best effort.
		s.logger.Warn("failed to record login time", "user_id", user.ID, "error", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return s.issueToken(user)
}

// VerifyAccessToken validates a PASETO access token and returns its claims.
func (s *AuthService) VerifyAccessToken(_ context.Context, token string) (*auth.AccessClaims, error) {
	claims, err := s.tokenService.VerifyAccessToken(token)
	if err != nil {
		return nil, domainerrors.Unauthorized("invalid or expired token").WithCause(err)
	}
	return claims, nil
}

// issueToken generates an access token and assembles the auth response.
// The returned user copy never carries the password hash.
func (s *AuthService) issueToken(user *domain.User) (*AuthResponse, error) {
	token, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &AuthResponse{
		User:        user.Sanitized(),
		AccessToken: token,
		ExpiresAt:   time.Now().Add(s.tokenService.AccessTokenDuration()),
	}, nil
}

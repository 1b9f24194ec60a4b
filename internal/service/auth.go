package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"catalogapi/internal/auth"
	"catalogapi/internal/model"
	"catalogapi/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("username is taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// AuthService registers accounts and exchanges credentials for bearer tokens.
type AuthService interface {
	// Register creates a new account with a bcrypt password hash.
	Register(ctx context.Context, creds model.Credentials) (*model.User, error)

	// Login verifies credentials and returns a signed bearer token.
	Login(ctx context.Context, creds model.Credentials) (*model.TokenResponse, error)
}

// authService is a concrete implementation of AuthService.
type authService struct {
	users      repository.UserRepository
	issuer     *auth.TokenIssuer
	bcryptCost int
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UserRepository, issuer *auth.TokenIssuer, bcryptCost int) AuthService {
	return &authService{users: users, issuer: issuer, bcryptCost: bcryptCost}
}

func (s *authService) Register(ctx context.Context, creds model.Credentials) (*model.User, error) {
	hash, err := auth.HashPassword(creds.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Username:     creds.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	stored, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return stored, nil
}

func (s *authService) Login(ctx context.Context, creds model.Credentials) (*model.TokenResponse, error) {
	u, err := s.users.FindByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Same failure as a bad password so usernames cannot be probed.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(u.PasswordHash, creds.Password) {
		return nil, ErrInvalidCredentials
	}

	token, _, err := s.issuer.Issue(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.issuer.TTL().Seconds()),
	}, nil
}

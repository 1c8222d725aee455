package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/upskill-roadmap/internal/config"
	"github.com/jonathan/upskill-roadmap/internal/store"
	"github.com/jonathan/upskill-roadmap/internal/types"
)

// UserDirectory stores accounts. Lookups return nil, nil when the user does not exist.
type UserDirectory interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*store.UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*store.UserRecord, error)
	GetUser(ctx context.Context, id uuid.UUID) (*store.UserRecord, error)
}

// UserService provides business logic for user authentication operations
type UserService struct {
	users          UserDirectory
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(users UserDirectory, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		users:          users,
		passwordConfig: passwordConfig,
	}
}

// toUser converts a stored record to the API shape, excluding the password hash
func toUser(rec *store.UserRecord) *types.User {
	if rec == nil {
		return nil
	}
	return &types.User{
		ID:        rec.ID,
		Name:      rec.Name,
		Email:     rec.Email,
		CreatedAt: rec.CreatedAt,
	}
}

// Register creates a new user with password authentication
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	rec, err := s.users.CreateUser(ctx, req.Name, req.Email, passwordHash)
	if errors.Is(err, store.ErrEmailTaken) {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toUser(rec), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	rec, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Unknown email and wrong password are indistinguishable to the caller
	if rec == nil || !s.passwordConfig.VerifyPassword(req.Password, rec.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	return toUser(rec), nil
}

// GetUser returns the account for an authenticated principal
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*types.User, error) {
	rec, err := s.users.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if rec == nil {
		return nil, &types.NotFoundError{Resource: "user", ID: id.String()}
	}
	return toUser(rec), nil
}

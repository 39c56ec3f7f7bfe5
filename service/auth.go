package service

import (
	"context"
	"fmt"

	"github.com/docvault/server/model"
	"github.com/docvault/server/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration and credential verification
type AuthService struct {
	users UserStore
}

func NewAuthService(users UserStore) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new account. The email must be unique and the raw
// password is bcrypt-hashed before anything is persisted. An empty role
// defaults to the least-privileged one.
func (s *AuthService) Register(ctx context.Context, username, email, password, role string) (*model.User, error) {
	existing, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	if role == "" {
		role = model.RoleUser
	}
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "role", user.Role)
	return user.Sanitized(), nil
}

// Authenticate verifies credentials against the stored bcrypt hash.
// Unknown email and wrong password are indistinguishable: both return
// (nil, nil) so callers cannot leak which part failed.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}

	return user.Sanitized(), nil
}

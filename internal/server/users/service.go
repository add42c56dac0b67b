package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Service implements registration and login on top of a Repository. It mints
// the bearer tokens the API hands out.
type Service struct {
	repo      Repository
	secretKey []byte
	tokenTTL  time.Duration
}

func NewService(repo Repository, secretKey []byte, tokenTTL time.Duration) *Service {
	return &Service{repo: repo, secretKey: secretKey, tokenTTL: tokenTTL}
}

// Register creates an account and returns a freshly minted token, so a new
// registration behaves like a login.
func (s *Service) Register(ctx context.Context, email, password string) (string, *User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{Email: email, PasswordHash: string(hash)})
	if err != nil {
		return "", nil, err
	}

	token, err := GenerateToken(user.ID, s.secretKey, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("mint token: %w", err)
	}
	return token, user, nil
}

// Login verifies credentials and mints a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(user.ID, s.secretKey, s.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("mint token: %w", err)
	}
	return token, user, nil
}

// GetByID loads the account behind a validated token.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// Authenticate resolves a raw bearer token to a user id.
func (s *Service) Authenticate(token string) (string, error) {
	return UserIDFromToken(token, s.secretKey)
}

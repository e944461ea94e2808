// Package users implements account management and login. A successful login
// mints the HS256 session token the rest of the API authenticates with; the
// error surface is deliberately flat so the HTTP layer cannot leak whether
// an email exists.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dishubaceh/damprah/internal/common"
	"github.com/dishubaceh/damprah/internal/server/auth"
	"github.com/dishubaceh/damprah/internal/server/models"
	userrepo "github.com/dishubaceh/damprah/internal/server/repositories/users"
)

// LoginResult is what a successful login hands back to the HTTP layer: the
// signed token and the identity to render in the dashboard header.
type LoginResult struct {
	Token     string
	User      *models.User
	ExpiresAt time.Time
}

type Service struct {
	repo          userrepo.Repository
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewService(repo userrepo.Repository, jwtSecret []byte, tokenValidity time.Duration) *Service {
	return &Service{
		repo:          repo,
		jwtSecret:     jwtSecret,
		tokenValidity: tokenValidity,
	}
}

// Register creates a new account with a bcrypt-hashed password. It is used
// by the account administration tool, not by any public route.
func (s *Service) Register(ctx context.Context, email, name, password string, role models.Role) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrInternal
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}
	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %v", err)
	}
	return user, nil
}

// Login verifies the password against the stored bcrypt hash and mints a
// session token. An unknown email and a wrong password both come back as
// ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.tokenValidity)
	token, err := auth.GenerateToken(user, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, common.ErrInternal
	}

	return &LoginResult{Token: token, User: user, ExpiresAt: expiresAt}, nil
}

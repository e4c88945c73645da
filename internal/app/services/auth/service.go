package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainuser "stuverse/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
)

const minPasswordLength = 8

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID string, now time.Time) (string, error)
	Verify(token string) (string, error)
}

// Service handles registration, login and profile maintenance. Tokens are
// stateless; every request re-resolves the user from storage, which is also
// where the caller's university scope comes from.
type Service struct {
	Users     domainuser.Repository
	Passwords PasswordHasher
	Tokens    TokenIssuer
	Logger    *slog.Logger
}

type RegisterParams struct {
	Name       string
	Email      string
	Password   string
	University string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  *domainuser.User
	Token string
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if len(params.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, domainuser.ErrEmailRequired
	}
	if _, err := s.Users.ByEmail(ctx, email); err == nil {
		return nil, domainuser.ErrEmailAlreadyUsed
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, fmt.Errorf("auth: check email: %w", err)
	}

	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	u, err := domainuser.New(domainuser.CreateParams{
		ID:           domainuser.ID(uuid.NewString()),
		Name:         params.Name,
		Email:        email,
		PasswordHash: hash,
		University:   params.University,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("auth: save user: %w", err)
	}
	token, err := s.Tokens.Issue(string(u.ID), time.Now())
	if err != nil {
		return nil, fmt.Errorf("auth: issue token: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", "user_id", u.ID, "university", u.University)
	}
	return &AuthResult{User: u, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: load user: %w", err)
	}
	if err := s.Passwords.Compare(u.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := s.Tokens.Issue(string(u.ID), time.Now())
	if err != nil {
		return nil, fmt.Errorf("auth: issue token: %w", err)
	}
	return &AuthResult{User: u, Token: token}, nil
}

// Resolve maps a bearer token to the current user record.
func (s *Service) Resolve(ctx context.Context, token string) (*domainuser.User, error) {
	id, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.Users.ByID(ctx, domainuser.ID(id))
}

func (s *Service) Profile(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	return s.Users.ByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, id domainuser.ID, update domainuser.ProfileUpdate) (*domainuser.User, error) {
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.ApplyProfile(update, time.Now())
	if err := s.Users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("auth: save profile: %w", err)
	}
	return u, nil
}

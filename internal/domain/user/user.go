package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired          = errors.New("user: id is required")
	ErrEmailRequired       = errors.New("user: email is required")
	ErrNameRequired        = errors.New("user: name is required")
	ErrPasswordHashMissing = errors.New("user: password hash is required")
	ErrEmailAlreadyUsed    = errors.New("user: email already used")
	ErrNotFound            = errors.New("user: not found")
)

// UniversityUnspecified marks accounts that have not declared a campus yet.
// Reads by such users are not scoped to any university.
const UniversityUnspecified = "Unspecified"

type ID string

type User struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	University   string
	Avatar       string
	Bio          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Summary is the public slice of a user embedded in messages, reviews and
// notifications.
type Summary struct {
	ID         ID     `json:"_id"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	University string `json:"university,omitempty"`
}

func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Avatar: u.Avatar, University: u.University}
}

// Scoped reports whether reads for this user are restricted to a campus.
func (u *User) Scoped() bool {
	return u.University != "" && u.University != UniversityUnspecified
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
}

type CreateParams struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	University   string
	CreatedAt    time.Time
}

func New(params CreateParams) (*User, error) {
	id := strings.TrimSpace(string(params.ID))
	if id == "" {
		return nil, ErrIDRequired
	}
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.TrimSpace(params.PasswordHash) == "" {
		return nil, ErrPasswordHashMissing
	}
	university := strings.TrimSpace(params.University)
	if university == "" {
		university = UniversityUnspecified
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &User{
		ID:           ID(id),
		Name:         name,
		Email:        email,
		PasswordHash: params.PasswordHash,
		University:   university,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

type ProfileUpdate struct {
	Name       string
	University string
	Bio        string
	Avatar     string
}

// ApplyProfile overwrites only the fields present in the update.
func (u *User) ApplyProfile(update ProfileUpdate, now time.Time) {
	if name := strings.TrimSpace(update.Name); name != "" {
		u.Name = name
	}
	if university := strings.TrimSpace(update.University); university != "" {
		u.University = university
	}
	if bio := strings.TrimSpace(update.Bio); bio != "" {
		u.Bio = bio
	}
	if avatar := strings.TrimSpace(update.Avatar); avatar != "" {
		u.Avatar = avatar
	}
	u.touch(now)
}

func (u *User) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	u.UpdatedAt = now.UTC()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package buzz

import (
	"context"
	"errors"
	"strings"
	"time"

	"stuverse/internal/domain/user"
)

var (
	ErrEmptyContent   = errors.New("buzz: content is required")
	ErrContentTooLong = errors.New("buzz: content exceeds 500 characters")
	ErrNotFound       = errors.New("buzz: post not found")
)

const (
	maxContentLength = 500

	// TTL is how long posts stay visible; enforced by a mongo TTL index
	// and mirrored by the memory store.
	TTL = 72 * time.Hour
)

type ID string

// Post is an anonymous campus feed entry. The author is recorded for the
// like toggle but never exposed in any read.
type Post struct {
	ID         ID
	AuthorID   user.ID
	Content    string
	Color      string
	Likes      []user.ID
	University string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateParams struct {
	ID         ID
	AuthorID   user.ID
	Content    string
	Color      string
	University string
	CreatedAt  time.Time
}

func New(params CreateParams) (*Post, error) {
	content := strings.TrimSpace(params.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len([]rune(content)) > maxContentLength {
		return nil, ErrContentTooLong
	}
	color := strings.TrimSpace(params.Color)
	if color == "" {
		color = "blue"
	}
	university := strings.TrimSpace(params.University)
	if university == "" {
		university = user.UniversityUnspecified
	}
	now := params.CreatedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Post{
		ID:         params.ID,
		AuthorID:   params.AuthorID,
		Content:    content,
		Color:      color,
		University: university,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// ToggleLike adds the user's like, or removes it if already present.
func (p *Post) ToggleLike(id user.ID, now time.Time) {
	for i, liker := range p.Likes {
		if liker == id {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			p.touch(now)
			return
		}
	}
	p.Likes = append(p.Likes, id)
	p.touch(now)
}

func (p *Post) touch(now time.Time) {
	if now.IsZero() {
		now = time.Now()
	}
	p.UpdatedAt = now.UTC()
}

type Repository interface {
	Save(ctx context.Context, post *Post) error
	ByID(ctx context.Context, id ID) (*Post, error)
	// Feed lists posts newest first; university empty means unscoped.
	Feed(ctx context.Context, university string) ([]*Post, error)
}

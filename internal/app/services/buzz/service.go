package buzz

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainbuzz "stuverse/internal/domain/buzz"
	domainuser "stuverse/internal/domain/user"
)

// Service covers the anonymous campus feed. Author identity is stored for
// the like toggle but stripped from every view this service returns.
type Service struct {
	Posts  domainbuzz.Repository
	Logger *slog.Logger
}

// View is a post with the author removed. Likes are exposed only as the
// liker ids, matching what the feed renders.
type View struct {
	ID         domainbuzz.ID   `json:"_id"`
	Content    string          `json:"content"`
	Color      string          `json:"color"`
	Likes      []domainuser.ID `json:"likes"`
	University string          `json:"university"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (s *Service) Post(ctx context.Context, author *domainuser.User, content, color string) (*View, error) {
	post, err := domainbuzz.New(domainbuzz.CreateParams{
		ID:         domainbuzz.ID(uuid.NewString()),
		AuthorID:   author.ID,
		Content:    content,
		Color:      color,
		University: author.University,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("buzz: save post: %w", err)
	}
	return anonymize(post), nil
}

// Feed lists posts visible to the caller, newest first.
func (s *Service) Feed(ctx context.Context, caller *domainuser.User) ([]*View, error) {
	university := ""
	if caller.Scoped() {
		university = caller.University
	}
	posts, err := s.Posts.Feed(ctx, university)
	if err != nil {
		return nil, fmt.Errorf("buzz: feed: %w", err)
	}
	views := make([]*View, 0, len(posts))
	for _, post := range posts {
		views = append(views, anonymize(post))
	}
	return views, nil
}

// ToggleLike likes the post, or unlikes it when the caller already did.
func (s *Service) ToggleLike(ctx context.Context, caller domainuser.ID, id domainbuzz.ID) (*View, error) {
	post, err := s.Posts.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	post.ToggleLike(caller, time.Now())
	if err := s.Posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("buzz: save post: %w", err)
	}
	return anonymize(post), nil
}

func anonymize(post *domainbuzz.Post) *View {
	likes := post.Likes
	if likes == nil {
		likes = []domainuser.ID{}
	}
	return &View{
		ID:         post.ID,
		Content:    post.Content,
		Color:      post.Color,
		Likes:      likes,
		University: post.University,
		CreatedAt:  post.CreatedAt,
	}
}

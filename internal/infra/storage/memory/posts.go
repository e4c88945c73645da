package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainbuzz "stuverse/internal/domain/buzz"
	domainuser "stuverse/internal/domain/user"
)

// PostRepository stores buzz posts in memory, aging them out the way the
// durable store's TTL index does.
type PostRepository struct {
	mu    sync.RWMutex
	posts map[domainbuzz.ID]*domainbuzz.Post

	// Now is swappable for expiry tests.
	Now func() time.Time
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[domainbuzz.ID]*domainbuzz.Post), Now: time.Now}
}

func (r *PostRepository) Save(ctx context.Context, post *domainbuzz.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.ID] = clonePost(post)
	return nil
}

func (r *PostRepository) ByID(ctx context.Context, id domainbuzz.ID) (*domainbuzz.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	post, ok := r.posts[id]
	if !ok || r.expired(post) {
		return nil, domainbuzz.ErrNotFound
	}
	return clonePost(post), nil
}

func (r *PostRepository) Feed(ctx context.Context, university string) ([]*domainbuzz.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbuzz.Post, 0)
	for _, post := range r.posts {
		if r.expired(post) {
			continue
		}
		if university != "" && post.University != university {
			continue
		}
		out = append(out, clonePost(post))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PostRepository) expired(post *domainbuzz.Post) bool {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	return now.Sub(post.CreatedAt) > domainbuzz.TTL
}

func clonePost(post *domainbuzz.Post) *domainbuzz.Post {
	copied := *post
	copied.Likes = append([]domainuser.ID(nil), post.Likes...)
	return &copied
}

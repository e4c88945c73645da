package memory

import (
	"context"
	"sort"
	"sync"

	domainmarket "stuverse/internal/domain/market"
	domainreviews "stuverse/internal/domain/reviews"
)

// ReviewRepository stores listing reviews in memory.
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews []domainreviews.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreviews.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *ReviewRepository) ByListing(ctx context.Context, listingID domainmarket.ID) ([]*domainreviews.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreviews.Review, 0)
	for i := range r.reviews {
		if r.reviews[i].ListingID == listingID {
			copied := r.reviews[i]
			out = append(out, &copied)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainmarket "stuverse/internal/domain/market"
)

// ListingRepository stores marketplace listings in memory.
type ListingRepository struct {
	mu       sync.RWMutex
	listings map[domainmarket.ID]*domainmarket.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{listings: make(map[domainmarket.ID]*domainmarket.Listing)}
}

func (r *ListingRepository) Save(ctx context.Context, l *domainmarket.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listings[l.ID] = cloneListing(l)
	return nil
}

func (r *ListingRepository) ByID(ctx context.Context, id domainmarket.ID) (*domainmarket.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if l, ok := r.listings[id]; ok {
		return cloneListing(l), nil
	}
	return nil, domainmarket.ErrNotFound
}

func (r *ListingRepository) Available(ctx context.Context, filter domainmarket.Filter) ([]*domainmarket.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keyword := strings.ToLower(strings.TrimSpace(filter.Keyword))
	out := make([]*domainmarket.Listing, 0)
	for _, l := range r.listings {
		if l.Status != domainmarket.StatusAvailable {
			continue
		}
		if filter.University != "" && l.University != filter.University {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(l.Title), keyword) {
			continue
		}
		out = append(out, cloneListing(l))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ListingRepository) Delete(ctx context.Context, id domainmarket.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[id]; !ok {
		return domainmarket.ErrNotFound
	}
	delete(r.listings, id)
	return nil
}

func cloneListing(l *domainmarket.Listing) *domainmarket.Listing {
	copied := *l
	copied.Images = append([]string(nil), l.Images...)
	return &copied
}

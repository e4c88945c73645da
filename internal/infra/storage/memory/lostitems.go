package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	domainlost "stuverse/internal/domain/lostfound"
)

// LostItemRepository stores lost-and-found reports in memory. The near
// filter uses a haversine distance, mirroring the store's $near behavior
// closely enough for tests.
type LostItemRepository struct {
	mu    sync.RWMutex
	items map[domainlost.ID]*domainlost.Item
}

func NewLostItemRepository() *LostItemRepository {
	return &LostItemRepository{items: make(map[domainlost.ID]*domainlost.Item)}
}

func (r *LostItemRepository) Save(ctx context.Context, item *domainlost.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *LostItemRepository) ByID(ctx context.Context, id domainlost.ID) (*domainlost.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if item, ok := r.items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, domainlost.ErrNotFound
}

func (r *LostItemRepository) Open(ctx context.Context, filter domainlost.Filter) ([]*domainlost.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainlost.Item, 0)
	for _, item := range r.items {
		if item.Status != domainlost.StatusOpen {
			continue
		}
		if filter.University != "" && item.University != filter.University {
			continue
		}
		if filter.Near != nil {
			if item.Geometry.Zero() {
				continue
			}
			at := item.Geometry.LatLng()
			if haversineMeters(filter.Near.Lat, filter.Near.Lng, at.Lat, at.Lng) > filter.Near.RadiusMeters() {
				continue
			}
		}
		copied := *item
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

const earthRadiusMeters = 6371000

func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainrides "stuverse/internal/domain/rides"
)

// RideRepository stores rides in memory.
type RideRepository struct {
	mu    sync.RWMutex
	rides map[domainrides.ID]*domainrides.Ride
}

func NewRideRepository() *RideRepository {
	return &RideRepository{rides: make(map[domainrides.ID]*domainrides.Ride)}
}

func (r *RideRepository) Save(ctx context.Context, ride *domainrides.Ride) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rides[ride.ID] = cloneRide(ride)
	return nil
}

func (r *RideRepository) ByID(ctx context.Context, id domainrides.ID) (*domainrides.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ride, ok := r.rides[id]; ok {
		return cloneRide(ride), nil
	}
	return nil, domainrides.ErrNotFound
}

func (r *RideRepository) Upcoming(ctx context.Context, filter domainrides.Filter) ([]*domainrides.Ride, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	destination := strings.ToLower(strings.TrimSpace(filter.Destination))
	out := make([]*domainrides.Ride, 0)
	for _, ride := range r.rides {
		if ride.Status != domainrides.StatusOpen {
			continue
		}
		if !filter.After.IsZero() && ride.Date.Before(filter.After) {
			continue
		}
		if filter.Type != "" && ride.Type != filter.Type {
			continue
		}
		if filter.University != "" && ride.University != filter.University {
			continue
		}
		if destination != "" && !strings.Contains(strings.ToLower(ride.Destination.Name), destination) {
			continue
		}
		out = append(out, cloneRide(ride))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func cloneRide(ride *domainrides.Ride) *domainrides.Ride {
	copied := *ride
	copied.Participants = append([]domainrides.Participant(nil), ride.Participants...)
	return &copied
}

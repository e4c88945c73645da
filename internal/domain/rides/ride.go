package rides

import (
	"context"
	"errors"
	"strings"
	"time"

	"stuverse/internal/domain/shared/geo"
	"stuverse/internal/domain/user"
)

var (
	ErrOriginRequired      = errors.New("rides: origin is required")
	ErrDestinationRequired = errors.New("rides: destination is required")
	ErrDateRequired        = errors.New("rides: date is required")
	ErrInvalidSeats        = errors.New("rides: seats must be at least 1")
	ErrInvalidPrice        = errors.New("rides: price must not be negative")
	ErrInvalidRideType     = errors.New("rides: type must be Offer or Request")
	ErrNotFound            = errors.New("rides: ride not found")
	ErrNotOpen             = errors.New("rides: ride is not open")
	ErrOwnRide             = errors.New("rides: cannot join your own ride")
	ErrAlreadyJoined       = errors.New("rides: already joined this ride")
	ErrFull                = errors.New("rides: ride is full")
)

type RideType string

const (
	TypeOffer   RideType = "Offer"
	TypeRequest RideType = "Request"
)

func (t RideType) Valid() bool {
	return t == TypeOffer || t == TypeRequest
}

type Status string

const (
	StatusOpen      Status = "Open"
	StatusFull      Status = "Full"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
)

// Stop is a named point on the route.
type Stop struct {
	Name     string    `json:"name"`
	Geometry geo.Point `json:"geometry"`
}

type Participant struct {
	UserID   user.ID   `json:"user"`
	JoinedAt time.Time `json:"joinedAt"`
}

type ID string

type Ride struct {
	ID           ID
	HostID       user.ID
	University   string
	Type         RideType
	Origin       Stop
	Destination  Stop
	Date         time.Time
	Seats        int
	Price        float64
	Vehicle      string
	Participants []Participant
	Status       Status
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CreateParams struct {
	ID          ID
	HostID      user.ID
	University  string
	Type        RideType
	Origin      Stop
	Destination Stop
	Date        time.Time
	Seats       int
	Price       float64
	Vehicle     string
	Description string
	CreatedAt   time.Time
}

func New(params CreateParams) (*Ride, error) {
	if !params.Type.Valid() {
		return nil, ErrInvalidRideType
	}
	if strings.TrimSpace(params.Origin.Name) == "" {
		return nil, ErrOriginRequired
	}
	if strings.TrimSpace(params.Destination.Name) == "" {
		return nil, ErrDestinationRequired
	}
	if params.Date.IsZero() {
		return nil, ErrDateRequired
	}
	if params.Seats < 1 {
		return nil, ErrInvalidSeats
	}
	if params.Price < 0 {
		return nil, ErrInvalidPrice
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
	return &Ride{
		ID:          params.ID,
		HostID:      params.HostID,
		University:  university,
		Type:        params.Type,
		Origin:      params.Origin,
		Destination: params.Destination,
		Date:        params.Date.UTC(),
		Seats:       params.Seats,
		Price:       params.Price,
		Vehicle:     strings.TrimSpace(params.Vehicle),
		Status:      StatusOpen,
		Description: strings.TrimSpace(params.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Join adds a passenger, flipping to Full when the last seat goes.
func (r *Ride) Join(id user.ID, now time.Time) error {
	if r.Status != StatusOpen {
		return ErrNotOpen
	}
	if r.HostID == id {
		return ErrOwnRide
	}
	for _, p := range r.Participants {
		if p.UserID == id {
			return ErrAlreadyJoined
		}
	}
	if len(r.Participants) >= r.Seats {
		return ErrFull
	}
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	r.Participants = append(r.Participants, Participant{UserID: id, JoinedAt: now})
	if len(r.Participants) >= r.Seats {
		r.Status = StatusFull
	}
	r.UpdatedAt = now
	return nil
}

// Leave removes a passenger if present; a Full ride reopens when a seat
// frees. Leaving a ride never joined is a no-op.
func (r *Ride) Leave(id user.ID, now time.Time) {
	kept := r.Participants[:0]
	for _, p := range r.Participants {
		if p.UserID != id {
			kept = append(kept, p)
		}
	}
	r.Participants = kept
	if r.Status == StatusFull && len(r.Participants) < r.Seats {
		r.Status = StatusOpen
	}
	if now.IsZero() {
		now = time.Now()
	}
	r.UpdatedAt = now.UTC()
}

// Filter narrows the upcoming-rides view.
type Filter struct {
	Type        RideType // empty = all
	Destination string   // case-insensitive substring of destination name
	University  string   // empty = unscoped
	After       time.Time
}

type Repository interface {
	Save(ctx context.Context, ride *Ride) error
	ByID(ctx context.Context, id ID) (*Ride, error)
	// Upcoming lists Open rides with a date at or after filter.After,
	// soonest first.
	Upcoming(ctx context.Context, filter Filter) ([]*Ride, error)
}

package rides

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stuverse/internal/app/outbox"
	"stuverse/internal/app/services/notify"
	domainnotif "stuverse/internal/domain/notification"
	domainrides "stuverse/internal/domain/rides"
	"stuverse/internal/domain/shared/geo"
	domainuser "stuverse/internal/domain/user"
)

// Notifier is the side-effect port into the notification fan-out. Calls never
// return an error; the fan-out swallows its own failures.
type Notifier interface {
	Notify(ctx context.Context, params notify.Params)
}

// Service covers the ride-sharing board: post, browse, join and leave rides.
// Joining notifies the host best-effort.
type Service struct {
	Rides    domainrides.Repository
	Users    domainuser.Repository
	Notifier Notifier
	Outbox   outbox.Outbox
	Logger   *slog.Logger
}

// RideView joins the host and participant summaries for rendering.
type RideView struct {
	Ride         *domainrides.Ride
	Host         domainuser.Summary
	Participants []domainuser.Summary
}

type CreateParams struct {
	Type        domainrides.RideType
	OriginName  string
	OriginLat   float64
	OriginLng   float64
	DestName    string
	DestLat     float64
	DestLng     float64
	Date        time.Time
	Seats       int
	Price       float64
	Vehicle     string
	Description string
}

func (s *Service) Create(ctx context.Context, host *domainuser.User, params CreateParams) (*domainrides.Ride, error) {
	ride, err := domainrides.New(domainrides.CreateParams{
		ID:         domainrides.ID(uuid.NewString()),
		HostID:     host.ID,
		University: host.University,
		Type:       params.Type,
		Origin: domainrides.Stop{
			Name:     params.OriginName,
			Geometry: geo.NewPoint(params.OriginLat, params.OriginLng),
		},
		Destination: domainrides.Stop{
			Name:     params.DestName,
			Geometry: geo.NewPoint(params.DestLat, params.DestLng),
		},
		Date:        params.Date,
		Seats:       params.Seats,
		Price:       params.Price,
		Vehicle:     params.Vehicle,
		Description: params.Description,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Rides.Save(ctx, ride); err != nil {
		return nil, fmt.Errorf("rides: save ride: %w", err)
	}
	return ride, nil
}

type BrowseParams struct {
	Type        domainrides.RideType
	Destination string
}

// Browse lists open upcoming rides visible to the caller, soonest first.
func (s *Service) Browse(ctx context.Context, caller *domainuser.User, params BrowseParams) ([]RideView, error) {
	filter := domainrides.Filter{
		Type:        params.Type,
		Destination: params.Destination,
		After:       time.Now(),
	}
	if caller.Scoped() {
		filter.University = caller.University
	}
	rides, err := s.Rides.Upcoming(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("rides: browse: %w", err)
	}
	views := make([]RideView, 0, len(rides))
	for _, ride := range rides {
		view, err := s.joinUsers(ctx, ride)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Join adds the caller as a passenger and notifies the host. The join is the
// contract; the notification is an enhancement that never fails it.
func (s *Service) Join(ctx context.Context, caller *domainuser.User, id domainrides.ID) (*RideView, error) {
	ride, err := s.Rides.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ride.Join(caller.ID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Rides.Save(ctx, ride); err != nil {
		return nil, fmt.Errorf("rides: save ride: %w", err)
	}

	if s.Notifier != nil {
		s.Notifier.Notify(ctx, notify.Params{
			Recipient: ride.HostID,
			Sender:    caller.ID,
			Type:      domainnotif.TypeRideJoin,
			Message:   fmt.Sprintf("%s joined your ride to %s", caller.Name, ride.Destination.Name),
			RelatedID: string(ride.ID),
			Link:      "/rides",
		})
	}
	s.record(ctx, "ride.joined", string(ride.ID), rideEvent{
		RideID:     string(ride.ID),
		UserID:     string(caller.ID),
		HostID:     string(ride.HostID),
		University: ride.University,
		At:         ride.UpdatedAt,
	})
	return s.joinUsers(ctx, ride)
}

// Leave removes the caller from the passenger list.
func (s *Service) Leave(ctx context.Context, caller domainuser.ID, id domainrides.ID) error {
	ride, err := s.Rides.ByID(ctx, id)
	if err != nil {
		return err
	}
	ride.Leave(caller, time.Now())
	if err := s.Rides.Save(ctx, ride); err != nil {
		return fmt.Errorf("rides: save ride: %w", err)
	}
	s.record(ctx, "ride.left", string(ride.ID), rideEvent{
		RideID:     string(ride.ID),
		UserID:     string(caller),
		HostID:     string(ride.HostID),
		University: ride.University,
		At:         ride.UpdatedAt,
	})
	return nil
}

func (s *Service) joinUsers(ctx context.Context, ride *domainrides.Ride) (*RideView, error) {
	host, err := s.summaryFor(ctx, ride.HostID)
	if err != nil {
		return nil, err
	}
	participants := make([]domainuser.Summary, 0, len(ride.Participants))
	for _, p := range ride.Participants {
		summary, err := s.summaryFor(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		participants = append(participants, summary)
	}
	return &RideView{Ride: ride, Host: host, Participants: participants}, nil
}

func (s *Service) summaryFor(ctx context.Context, id domainuser.ID) (domainuser.Summary, error) {
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return domainuser.Summary{ID: id}, nil
		}
		return domainuser.Summary{}, fmt.Errorf("rides: resolve user: %w", err)
	}
	return u.Summary(), nil
}

type rideEvent struct {
	RideID     string    `json:"ride_id"`
	UserID     string    `json:"user_id"`
	HostID     string    `json:"host_id"`
	University string    `json:"university"`
	At         time.Time `json:"at"`
}

func (s *Service) record(ctx context.Context, name, aggregate string, payload any) {
	if err := outbox.Record(ctx, s.Outbox, name, aggregate, payload); err != nil && s.Logger != nil {
		s.Logger.Warn("outbox record failed", "event", name, "error", err)
	}
}

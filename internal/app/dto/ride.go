package dto

import (
	"time"

	ridesvc "stuverse/internal/app/services/rides"
	domainuser "stuverse/internal/domain/user"
)

type Ride struct {
	ID           string               `json:"_id"`
	Host         domainuser.Summary   `json:"host"`
	Type         string               `json:"type"`
	Origin       string               `json:"origin"`
	Destination  string               `json:"destination"`
	Date         time.Time            `json:"date"`
	Seats        int                  `json:"seats"`
	SeatsLeft    int                  `json:"seatsLeft"`
	Price        float64              `json:"price"`
	Vehicle      string               `json:"vehicle,omitempty"`
	Participants []domainuser.Summary `json:"participants"`
	Status       string               `json:"status"`
	Description  string               `json:"description,omitempty"`
	University   string               `json:"university"`
	CreatedAt    time.Time            `json:"createdAt"`
}

type RideCollection struct {
	Items []Ride `json:"items"`
}

func MapRide(view *ridesvc.RideView) Ride {
	ride := view.Ride
	participants := view.Participants
	if participants == nil {
		participants = []domainuser.Summary{}
	}
	return Ride{
		ID:           string(ride.ID),
		Host:         view.Host,
		Type:         string(ride.Type),
		Origin:       ride.Origin.Name,
		Destination:  ride.Destination.Name,
		Date:         ride.Date,
		Seats:        ride.Seats,
		SeatsLeft:    ride.Seats - len(ride.Participants),
		Price:        ride.Price,
		Vehicle:      ride.Vehicle,
		Participants: participants,
		Status:       string(ride.Status),
		Description:  ride.Description,
		University:   ride.University,
		CreatedAt:    ride.CreatedAt,
	}
}

func MapRideCollection(views []ridesvc.RideView) RideCollection {
	out := RideCollection{Items: make([]Ride, 0, len(views))}
	for i := range views {
		out.Items = append(out.Items, MapRide(&views[i]))
	}
	return out
}

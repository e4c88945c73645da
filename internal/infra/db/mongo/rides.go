package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stuverse/internal/domain/rides"
	"stuverse/internal/domain/shared/geo"
	domainuser "stuverse/internal/domain/user"
)

type RideRepository struct {
	col *mongo.Collection
}

func NewRideRepository(db *mongo.Database) *RideRepository {
	return &RideRepository{col: db.Collection("rides")}
}

type stopDocument struct {
	Name     string            `bson:"name"`
	Geometry *geoPointDocument `bson:"geometry,omitempty"`
}

type participantDocument struct {
	User     string `bson:"user"`
	JoinedAt int64  `bson:"joined_at"`
}

type rideDocument struct {
	ID           string                `bson:"_id"`
	Host         string                `bson:"host"`
	University   string                `bson:"university"`
	Type         string                `bson:"type"`
	Origin       stopDocument          `bson:"origin"`
	Destination  stopDocument          `bson:"destination"`
	Date         int64                 `bson:"date"`
	Seats        int                   `bson:"seats"`
	Price        float64               `bson:"price"`
	Vehicle      string                `bson:"vehicle,omitempty"`
	Participants []participantDocument `bson:"participants,omitempty"`
	Status       string                `bson:"status"`
	Description  string                `bson:"description,omitempty"`
	CreatedAt    int64                 `bson:"created_at"`
	UpdatedAt    int64                 `bson:"updated_at"`
}

func (r *RideRepository) Save(ctx context.Context, ride *rides.Ride) error {
	doc := rideDocument{
		ID:          string(ride.ID),
		Host:        string(ride.HostID),
		University:  ride.University,
		Type:        string(ride.Type),
		Origin:      toStopDocument(ride.Origin),
		Destination: toStopDocument(ride.Destination),
		Date:        ride.Date.UnixMilli(),
		Seats:       ride.Seats,
		Price:       ride.Price,
		Vehicle:     ride.Vehicle,
		Status:      string(ride.Status),
		Description: ride.Description,
		CreatedAt:   ride.CreatedAt.UnixMilli(),
		UpdatedAt:   ride.UpdatedAt.UnixMilli(),
	}
	for _, p := range ride.Participants {
		doc.Participants = append(doc.Participants, participantDocument{
			User:     string(p.UserID),
			JoinedAt: p.JoinedAt.UnixMilli(),
		})
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *RideRepository) ByID(ctx context.Context, id rides.ID) (*rides.Ride, error) {
	var doc rideDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, rides.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toRide(), nil
}

func (r *RideRepository) Upcoming(ctx context.Context, filter rides.Filter) ([]*rides.Ride, error) {
	query := bson.M{
		"status": string(rides.StatusOpen),
		"date":   bson.M{"$gte": filter.After.UnixMilli()},
	}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}
	if filter.University != "" {
		query["university"] = filter.University
	}
	if filter.Destination != "" {
		query["destination.name"] = primitive.Regex{
			Pattern: regexp.QuoteMeta(filter.Destination),
			Options: "i",
		}
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*rides.Ride
	for cursor.Next(ctx) {
		var doc rideDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRide())
	}
	return out, cursor.Err()
}

func toStopDocument(s rides.Stop) stopDocument {
	doc := stopDocument{Name: s.Name}
	if !s.Geometry.Zero() {
		doc.Geometry = &geoPointDocument{Type: s.Geometry.Type, Coordinates: s.Geometry.Coordinates}
	}
	return doc
}

func (doc stopDocument) toStop() rides.Stop {
	stop := rides.Stop{Name: doc.Name}
	if doc.Geometry != nil {
		stop.Geometry = geo.Point{Type: doc.Geometry.Type, Coordinates: doc.Geometry.Coordinates}
	}
	return stop
}

func (doc rideDocument) toRide() *rides.Ride {
	ride := &rides.Ride{
		ID:          rides.ID(doc.ID),
		HostID:      domainuser.ID(doc.Host),
		University:  doc.University,
		Type:        rides.RideType(doc.Type),
		Origin:      doc.Origin.toStop(),
		Destination: doc.Destination.toStop(),
		Date:        time.UnixMilli(doc.Date).UTC(),
		Seats:       doc.Seats,
		Price:       doc.Price,
		Vehicle:     doc.Vehicle,
		Status:      rides.Status(doc.Status),
		Description: doc.Description,
		CreatedAt:   time.UnixMilli(doc.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(doc.UpdatedAt).UTC(),
	}
	for _, p := range doc.Participants {
		ride.Participants = append(ride.Participants, rides.Participant{
			UserID:   domainuser.ID(p.User),
			JoinedAt: time.UnixMilli(p.JoinedAt).UTC(),
		})
	}
	return ride
}

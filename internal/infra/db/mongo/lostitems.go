package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stuverse/internal/domain/lostfound"
	"stuverse/internal/domain/shared/geo"
	domainuser "stuverse/internal/domain/user"
)

type LostItemRepository struct {
	col *mongo.Collection
}

func NewLostItemRepository(db *mongo.Database) *LostItemRepository {
	return &LostItemRepository{col: db.Collection("lost_items")}
}

type geoPointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type lostItemDocument struct {
	ID          string            `bson:"_id"`
	Reporter    string            `bson:"reporter"`
	University  string            `bson:"university"`
	Title       string            `bson:"title"`
	Description string            `bson:"description"`
	Location    string            `bson:"location"`
	Date        int64             `bson:"date"`
	Type        string            `bson:"type"`
	Image       string            `bson:"image,omitempty"`
	Status      string            `bson:"status"`
	Lat         float64           `bson:"lat,omitempty"`
	Lng         float64           `bson:"lng,omitempty"`
	Geometry    *geoPointDocument `bson:"geometry,omitempty"`
	CreatedAt   int64             `bson:"created_at"`
	UpdatedAt   int64             `bson:"updated_at"`
}

func (r *LostItemRepository) Save(ctx context.Context, item *lostfound.Item) error {
	doc := lostItemDocument{
		ID:          string(item.ID),
		Reporter:    string(item.ReporterID),
		University:  item.University,
		Title:       item.Title,
		Description: item.Description,
		Location:    item.Location,
		Date:        item.Date.UnixMilli(),
		Type:        string(item.Type),
		Image:       item.Image,
		Status:      string(item.Status),
		Lat:         item.Coordinates.Lat,
		Lng:         item.Coordinates.Lng,
		CreatedAt:   item.CreatedAt.UnixMilli(),
		UpdatedAt:   item.UpdatedAt.UnixMilli(),
	}
	if !item.Geometry.Zero() {
		doc.Geometry = &geoPointDocument{
			Type:        item.Geometry.Type,
			Coordinates: item.Geometry.Coordinates,
		}
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *LostItemRepository) ByID(ctx context.Context, id lostfound.ID) (*lostfound.Item, error) {
	var doc lostItemDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, lostfound.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toItem(), nil
}

func (r *LostItemRepository) Open(ctx context.Context, filter lostfound.Filter) ([]*lostfound.Item, error) {
	query := bson.M{"status": string(lostfound.StatusOpen)}
	if filter.University != "" {
		query["university"] = filter.University
	}
	var opts *options.FindOptions
	if filter.Near != nil {
		// $near sorts by distance; no other sort may be combined with it.
		query["geometry"] = bson.M{"$near": bson.M{
			"$geometry": bson.M{
				"type":        "Point",
				"coordinates": bson.A{filter.Near.Lng, filter.Near.Lat},
			},
			"$maxDistance": filter.Near.RadiusMeters(),
		}}
		opts = options.Find()
	} else {
		opts = options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	}
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*lostfound.Item
	for cursor.Next(ctx) {
		var doc lostItemDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toItem())
	}
	return out, cursor.Err()
}

func (doc lostItemDocument) toItem() *lostfound.Item {
	item := &lostfound.Item{
		ID:          lostfound.ID(doc.ID),
		ReporterID:  domainuser.ID(doc.Reporter),
		University:  doc.University,
		Title:       doc.Title,
		Description: doc.Description,
		Location:    doc.Location,
		Date:        time.UnixMilli(doc.Date).UTC(),
		Type:        lostfound.ItemType(doc.Type),
		Image:       doc.Image,
		Status:      lostfound.Status(doc.Status),
		Coordinates: geo.Coordinates{Lat: doc.Lat, Lng: doc.Lng},
		CreatedAt:   time.UnixMilli(doc.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(doc.UpdatedAt).UTC(),
	}
	if doc.Geometry != nil {
		item.Geometry = geo.Point{Type: doc.Geometry.Type, Coordinates: doc.Geometry.Coordinates}
	}
	return item
}

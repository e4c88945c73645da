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

	"stuverse/internal/domain/market"
	"stuverse/internal/domain/shared/geo"
	domainuser "stuverse/internal/domain/user"
)

type ListingRepository struct {
	col *mongo.Collection
}

func NewListingRepository(db *mongo.Database) *ListingRepository {
	return &ListingRepository{col: db.Collection("listings")}
}

type listingDocument struct {
	ID          string   `bson:"_id"`
	Seller      string   `bson:"seller"`
	Title       string   `bson:"title"`
	Description string   `bson:"description"`
	Price       float64  `bson:"price"`
	Category    string   `bson:"category"`
	Condition   string   `bson:"condition"`
	Type        string   `bson:"type"`
	Images      []string `bson:"images,omitempty"`
	Status      string   `bson:"status"`
	University  string   `bson:"university"`
	Lat         float64  `bson:"lat,omitempty"`
	Lng         float64  `bson:"lng,omitempty"`
	CreatedAt   int64    `bson:"created_at"`
	UpdatedAt   int64    `bson:"updated_at"`
}

func (r *ListingRepository) Save(ctx context.Context, listing *market.Listing) error {
	doc := listingDocument{
		ID:          string(listing.ID),
		Seller:      string(listing.SellerID),
		Title:       listing.Title,
		Description: listing.Description,
		Price:       listing.Price,
		Category:    listing.Category,
		Condition:   string(listing.Condition),
		Type:        string(listing.Type),
		Images:      listing.Images,
		Status:      string(listing.Status),
		University:  listing.University,
		Lat:         listing.Coordinates.Lat,
		Lng:         listing.Coordinates.Lng,
		CreatedAt:   listing.CreatedAt.UnixMilli(),
		UpdatedAt:   listing.UpdatedAt.UnixMilli(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *ListingRepository) ByID(ctx context.Context, id market.ID) (*market.Listing, error) {
	var doc listingDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, market.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toListing(), nil
}

func (r *ListingRepository) Available(ctx context.Context, filter market.Filter) ([]*market.Listing, error) {
	query := bson.M{"status": string(market.StatusAvailable)}
	if filter.University != "" {
		query["university"] = filter.University
	}
	if filter.Keyword != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Keyword), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"description": pattern},
			bson.M{"category": pattern},
		}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*market.Listing
	for cursor.Next(ctx) {
		var doc listingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toListing())
	}
	return out, cursor.Err()
}

func (r *ListingRepository) Delete(ctx context.Context, id market.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return market.ErrNotFound
	}
	return nil
}

func (doc listingDocument) toListing() *market.Listing {
	return &market.Listing{
		ID:          market.ID(doc.ID),
		SellerID:    domainuser.ID(doc.Seller),
		Title:       doc.Title,
		Description: doc.Description,
		Price:       doc.Price,
		Category:    doc.Category,
		Condition:   market.Condition(doc.Condition),
		Type:        market.ListingType(doc.Type),
		Images:      doc.Images,
		Status:      market.Status(doc.Status),
		University:  doc.University,
		Coordinates: geo.Coordinates{Lat: doc.Lat, Lng: doc.Lng},
		CreatedAt:   time.UnixMilli(doc.CreatedAt).UTC(),
		UpdatedAt:   time.UnixMilli(doc.UpdatedAt).UTC(),
	}
}

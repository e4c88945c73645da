package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stuverse/internal/domain/market"
	"stuverse/internal/domain/reviews"
	domainuser "stuverse/internal/domain/user"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection("reviews")}
}

type reviewDocument struct {
	ID        string `bson:"_id"`
	ListingID string `bson:"listing_id"`
	Author    string `bson:"author"`
	Rating    int    `bson:"rating"`
	Comment   string `bson:"comment,omitempty"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *ReviewRepository) Save(ctx context.Context, review *reviews.Review) error {
	doc := reviewDocument{
		ID:        string(review.ID),
		ListingID: string(review.ListingID),
		Author:    string(review.AuthorID),
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt.UnixMilli(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *ReviewRepository) ByListing(ctx context.Context, listingID market.ID) ([]*reviews.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"listing_id": string(listingID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*reviews.Review
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &reviews.Review{
			ID:        reviews.ReviewID(doc.ID),
			ListingID: market.ID(doc.ListingID),
			AuthorID:  domainuser.ID(doc.Author),
			Rating:    doc.Rating,
			Comment:   doc.Comment,
			CreatedAt: time.UnixMilli(doc.CreatedAt).UTC(),
		})
	}
	return out, cursor.Err()
}

package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbuzz "stuverse/internal/domain/buzz"
)

type Client struct {
	DB *mongo.Database
}

func New(uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}

// EnsureIndexes creates the indexes the query paths rely on: university
// scoping on every feature collection, pair lookups on messages, the
// 2dsphere index behind "near me", and the TTL that ages buzz posts out.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"messages": {
			{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"notifications": {
			{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		"listings": {
			{Keys: bson.D{{Key: "university", Value: 1}}},
		},
		"lost_items": {
			{Keys: bson.D{{Key: "university", Value: 1}}},
			{Keys: bson.D{{Key: "geometry", Value: "2dsphere"}}},
		},
		"rides": {
			{Keys: bson.D{{Key: "university", Value: 1}}},
			{Keys: bson.D{{Key: "date", Value: 1}}},
		},
		"buzz_posts": {
			{Keys: bson.D{{Key: "university", Value: 1}}},
			{
				Keys:    bson.D{{Key: "created_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(int32(domainbuzz.TTL / time.Second)),
			},
		},
		"reviews": {
			{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for collection, models := range specs {
		if _, err := c.DB.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return err
		}
	}
	return nil
}

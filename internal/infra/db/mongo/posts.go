package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stuverse/internal/domain/buzz"
	domainuser "stuverse/internal/domain/user"
)

type BuzzRepository struct {
	col *mongo.Collection
}

func NewBuzzRepository(db *mongo.Database) *BuzzRepository {
	return &BuzzRepository{col: db.Collection("buzz_posts")}
}

type buzzPostDocument struct {
	ID         string    `bson:"_id"`
	Author     string    `bson:"author"`
	Content    string    `bson:"content"`
	Color      string    `bson:"color"`
	Likes      []string  `bson:"likes,omitempty"`
	University string    `bson:"university"`
	CreatedAt  time.Time `bson:"created_at"` // time.Time so the TTL index applies
	UpdatedAt  int64     `bson:"updated_at"`
}

func (r *BuzzRepository) Save(ctx context.Context, post *buzz.Post) error {
	doc := buzzPostDocument{
		ID:         string(post.ID),
		Author:     string(post.AuthorID),
		Content:    post.Content,
		Color:      post.Color,
		University: post.University,
		CreatedAt:  post.CreatedAt.UTC(),
		UpdatedAt:  post.UpdatedAt.UnixMilli(),
	}
	for _, liker := range post.Likes {
		doc.Likes = append(doc.Likes, string(liker))
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *BuzzRepository) ByID(ctx context.Context, id buzz.ID) (*buzz.Post, error) {
	var doc buzzPostDocument
	err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, buzz.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toPost(), nil
}

func (r *BuzzRepository) Feed(ctx context.Context, university string) ([]*buzz.Post, error) {
	query := bson.M{}
	if university != "" {
		query["university"] = university
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*buzz.Post
	for cursor.Next(ctx) {
		var doc buzzPostDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toPost())
	}
	return out, cursor.Err()
}

func (doc buzzPostDocument) toPost() *buzz.Post {
	post := &buzz.Post{
		ID:         buzz.ID(doc.ID),
		AuthorID:   domainuser.ID(doc.Author),
		Content:    doc.Content,
		Color:      doc.Color,
		University: doc.University,
		CreatedAt:  doc.CreatedAt.UTC(),
		UpdatedAt:  time.UnixMilli(doc.UpdatedAt).UTC(),
	}
	for _, liker := range doc.Likes {
		post.Likes = append(post.Likes, domainuser.ID(liker))
	}
	return post
}

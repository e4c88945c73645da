package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainchat "stuverse/internal/domain/chat"
	domainuser "stuverse/internal/domain/user"
)

type MessageRepository struct {
	col *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) *MessageRepository {
	return &MessageRepository{col: db.Collection("messages")}
}

type messageDocument struct {
	ID        string `bson:"_id"`
	Sender    string `bson:"sender"`
	Recipient string `bson:"recipient"`
	Content   string `bson:"content"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *MessageRepository) Save(ctx context.Context, m *domainchat.Message) error {
	doc := messageDocument{
		ID:        string(m.ID),
		Sender:    string(m.SenderID),
		Recipient: string(m.RecipientID),
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UnixMilli(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *MessageRepository) Between(ctx context.Context, a, b domainuser.ID) ([]*domainchat.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": string(a), "recipient": string(b)},
		bson.M{"sender": string(b), "recipient": string(a)},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *MessageRepository) Involving(ctx context.Context, id domainuser.ID) ([]*domainchat.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender": string(id)},
		bson.M{"recipient": string(id)},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, filter, opts)
}

func (r *MessageRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainchat.Message, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainchat.Message
	for cursor.Next(ctx) {
		var doc messageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &domainchat.Message{
			ID:          domainchat.MessageID(doc.ID),
			SenderID:    domainuser.ID(doc.Sender),
			RecipientID: domainuser.ID(doc.Recipient),
			Content:     doc.Content,
			CreatedAt:   time.UnixMilli(doc.CreatedAt).UTC(),
		})
	}
	return out, cursor.Err()
}

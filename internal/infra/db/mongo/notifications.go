package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainnotif "stuverse/internal/domain/notification"
	domainuser "stuverse/internal/domain/user"
)

type NotificationRepository struct {
	col *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{col: db.Collection("notifications")}
}

type notificationDocument struct {
	ID        string `bson:"_id"`
	Recipient string `bson:"recipient"`
	Sender    string `bson:"sender,omitempty"`
	Type      string `bson:"type"`
	Message   string `bson:"message"`
	RelatedID string `bson:"related_id,omitempty"`
	Link      string `bson:"link,omitempty"`
	IsRead    bool   `bson:"is_read"`
	CreatedAt int64  `bson:"created_at"`
}

func (r *NotificationRepository) Save(ctx context.Context, n *domainnotif.Notification) error {
	doc := notificationDocument{
		ID:        string(n.ID),
		Recipient: string(n.RecipientID),
		Sender:    string(n.SenderID),
		Type:      string(n.Type),
		Message:   n.Message,
		RelatedID: n.RelatedID,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UnixMilli(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

func (r *NotificationRepository) Recent(ctx context.Context, recipient domainuser.ID, limit int) ([]*domainnotif.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.col.Find(ctx, bson.M{"recipient": string(recipient)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainnotif.Notification
	for cursor.Next(ctx) {
		var doc notificationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &domainnotif.Notification{
			ID:          domainnotif.ID(doc.ID),
			RecipientID: domainuser.ID(doc.Recipient),
			SenderID:    domainuser.ID(doc.Sender),
			Type:        domainnotif.Type(doc.Type),
			Message:     doc.Message,
			RelatedID:   doc.RelatedID,
			Link:        doc.Link,
			IsRead:      doc.IsRead,
			CreatedAt:   time.UnixMilli(doc.CreatedAt).UTC(),
		})
	}
	return out, cursor.Err()
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipient domainuser.ID) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"recipient": string(recipient), "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}})
	return err
}

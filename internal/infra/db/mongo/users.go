package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "stuverse/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection("users")}
}

type userDocument struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`
	University   string `bson:"university"`
	Avatar       string `bson:"avatar,omitempty"`
	Bio          string `bson:"bio,omitempty"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func (r *UserRepository) ByID(ctx context.Context, id domainuser.ID) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"email": domainuser.NormalizeEmail(email)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *UserRepository) Save(ctx context.Context, u *domainuser.User) error {
	doc := userDocument{
		ID:           string(u.ID),
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		University:   u.University,
		Avatar:       u.Avatar,
		Bio:          u.Bio,
		CreatedAt:    u.CreatedAt.UnixMilli(),
		UpdatedAt:    u.UpdatedAt.UnixMilli(),
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	if mongo.IsDuplicateKeyError(err) {
		return domainuser.ErrEmailAlreadyUsed
	}
	return err
}

func (d userDocument) toUser() *domainuser.User {
	return &domainuser.User{
		ID:           domainuser.ID(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		University:   d.University,
		Avatar:       d.Avatar,
		Bio:          d.Bio,
		CreatedAt:    time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt:    time.UnixMilli(d.UpdatedAt).UTC(),
	}
}

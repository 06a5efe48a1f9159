package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"ontrackr/internal/models"
)

// UserMongo reads user profiles from the "users" collection. The pipeline
// only ever reads users; account management lives elsewhere.
type UserMongo struct {
	col *mongo.Collection
}

// NewUserRepository wires the collection.
func NewUserRepository(db *mongo.Database) *UserMongo {
	return &UserMongo{col: db.Collection("users")}
}

// FindByID fetches a user profile by id.
func (r *UserMongo) FindByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return u, err
}

// FindByEmail fetches a user profile by email address.
func (r *UserMongo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return models.User{}, ErrNotFound
	}
	return u, err
}

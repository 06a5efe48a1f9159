package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ontrackr/internal/models"
)

// InviteMongo persists team invites in the "invites" collection.
type InviteMongo struct {
	col *mongo.Collection
}

// NewInviteRepository wires the collection.
func NewInviteRepository(db *mongo.Database) *InviteMongo {
	return &InviteMongo{col: db.Collection("invites")}
}

// Insert stores a new invite and returns its generated id.
func (r *InviteMongo) Insert(ctx context.Context, inv models.Invite) (string, error) {
	if inv.ID == "" {
		inv.ID = primitive.NewObjectID().Hex()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, inv); err != nil {
		return "", err
	}
	return inv.ID, nil
}

// FindByToken fetches an invite by its opaque token.
func (r *InviteMongo) FindByToken(ctx context.Context, token string) (models.Invite, error) {
	var inv models.Invite
	err := r.col.FindOne(ctx, bson.M{"token": token}).Decode(&inv)
	if err == mongo.ErrNoDocuments {
		return models.Invite{}, ErrNotFound
	}
	return inv, err
}

// MarkAccepted flips a pending invite to accepted, recording who accepted
// it and when. Matching on status keeps acceptance one-shot.
func (r *InviteMongo) MarkAccepted(ctx context.Context, id, userID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.InvitePending},
		bson.M{"$set": bson.M{
			"status":      models.InviteAccepted,
			"accepted_by": userID,
			"accepted_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

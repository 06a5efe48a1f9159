package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"ontrackr/internal/models"
)

// EventMongo is the append-only audit log of raw webhook deliveries,
// stored in "github_events". The pipeline never reads it back; the debug
// endpoint does.
type EventMongo struct {
	col *mongo.Collection
}

// NewEventRepository wires the collection.
func NewEventRepository(db *mongo.Database) *EventMongo {
	return &EventMongo{col: db.Collection("github_events")}
}

// Insert appends one raw delivery.
func (r *EventMongo) Insert(ctx context.Context, e models.WebhookEvent) (string, error) {
	if e.ID == "" {
		e.ID = primitive.NewObjectID().Hex()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, e); err != nil {
		return "", err
	}
	return e.ID, nil
}

// ListByProject returns a project's most recent raw events, newest first.
func (r *EventMongo) ListByProject(ctx context.Context, projectID string, limit int) ([]models.WebhookEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, bson.M{"project_id": projectID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.WebhookEvent
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

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

// ActivityMongo persists GitHub activity records in the "github_activity"
// collection. Records are immutable: there is no update or delete.
type ActivityMongo struct {
	col *mongo.Collection
}

// NewActivityRepository wires the collection.
func NewActivityRepository(db *mongo.Database) *ActivityMongo {
	return &ActivityMongo{col: db.Collection("github_activity")}
}

// EnsureIndexes creates the unique idempotency index. Re-delivered events
// fail the insert with a duplicate-key error rather than producing a
// second record, which closes the check-then-write race at the store.
func (r *ActivityMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "project_id", Value: 1},
			{Key: "activity_type", Value: 1},
			{Key: "github_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Exists reports whether a record with the given idempotency key is
// already stored.
func (r *ActivityMongo) Exists(ctx context.Context, projectID, activityType, githubID string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{
		"project_id":    projectID,
		"activity_type": activityType,
		"github_id":     githubID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Insert appends a new activity record. A concurrent duplicate surfaces as
// ErrDuplicateActivity.
func (r *ActivityMongo) Insert(ctx context.Context, a models.GitHubActivity) error {
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateActivity
		}
		return err
	}
	return nil
}

// ListByProject returns a project's most recent activity, newest first.
func (r *ActivityMongo) ListByProject(ctx context.Context, projectID string, limit int) ([]models.GitHubActivity, error) {
	return r.list(ctx, bson.M{"project_id": projectID}, limit)
}

// ListByUsername returns a user's most recent activity across projects,
// newest first.
func (r *ActivityMongo) ListByUsername(ctx context.Context, githubUsername string, limit int) ([]models.GitHubActivity, error) {
	return r.list(ctx, bson.M{"github_username": githubUsername}, limit)
}

func (r *ActivityMongo) list(ctx context.Context, filter bson.M, limit int) ([]models.GitHubActivity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var activities []models.GitHubActivity
	if err := cur.All(ctx, &activities); err != nil {
		return nil, err
	}
	return activities, nil
}

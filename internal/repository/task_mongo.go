package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"ontrackr/internal/models"
)

// TaskMongo persists tasks in the "tasks" collection.
type TaskMongo struct {
	col *mongo.Collection
}

// NewTaskRepository wires the collection.
func NewTaskRepository(db *mongo.Database) *TaskMongo {
	return &TaskMongo{col: db.Collection("tasks")}
}

// Insert stores a new task and returns its generated id.
func (r *TaskMongo) Insert(ctx context.Context, t models.Task) (string, error) {
	if t.ID == "" {
		t.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return "", err
	}
	return t.ID, nil
}

// FindByID fetches a task document by id.
func (r *TaskMongo) FindByID(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.Task{}, ErrNotFound
	}
	return t, err
}

// ListByProject returns every task in a project.
func (r *TaskMongo) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	return r.list(ctx, bson.M{"project_id": projectID})
}

// ListByMember returns a member's tasks in a project.
func (r *TaskMongo) ListByMember(ctx context.Context, projectID, userID string) ([]models.Task, error) {
	return r.list(ctx, bson.M{"project_id": projectID, "assigned_to": userID})
}

// ListByStatus returns the project's tasks currently in the given status.
// The matcher queries this freshly per event so tasks moved earlier in a
// batch drop out of the candidate pool.
func (r *TaskMongo) ListByStatus(ctx context.Context, projectID, status string) ([]models.Task, error) {
	return r.list(ctx, bson.M{"project_id": projectID, "status": status})
}

func (r *TaskMongo) list(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateStatus sets a task's status and stamps updated_at.
func (r *TaskMongo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":     status,
			"updated_at": time.Now().UTC(),
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

// SetDeadline replaces a task's deadline and re-arms its reminder.
func (r *TaskMongo) SetDeadline(ctx context.Context, id string, deadlineAt time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"deadline_at":   deadlineAt,
			"reminder_sent": false,
			"updated_at":    time.Now().UTC(),
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

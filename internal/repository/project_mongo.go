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

// ProjectMongo persists projects in the "projects" collection.
//
// Expected schema:
//
//	projects
//	  { _id, name, status, lead_id, created_by, members: []string,
//	    github_owner, github_repo, github_repo_url, deadline_at, created_at }
type ProjectMongo struct {
	col *mongo.Collection
}

// NewProjectRepository wires the collection.
func NewProjectRepository(db *mongo.Database) *ProjectMongo {
	return &ProjectMongo{col: db.Collection("projects")}
}

// EnsureIndexes creates the unique (github_owner, github_repo) index so the
// store, not the query, guarantees unambiguous webhook routing. Projects
// without a linked repository are excluded via a partial filter.
func (r *ProjectMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "github_owner", Value: 1},
			{Key: "github_repo", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{
				"github_owner": bson.M{"$type": "string"},
				"github_repo":  bson.M{"$type": "string"},
			}),
	})
	return err
}

// FindByID fetches a project document by id.
func (r *ProjectMongo) FindByID(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Project{}, ErrNotFound
	}
	return p, err
}

// FindByRepo resolves the single project linked to (owner, repo). The
// unique index guarantees at most one match.
func (r *ProjectMongo) FindByRepo(ctx context.Context, owner, repo string) (models.Project, error) {
	var p models.Project
	err := r.col.FindOne(ctx, bson.M{
		"github_owner": owner,
		"github_repo":  repo,
	}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Project{}, ErrNotFound
	}
	return p, err
}

// Insert stores a new project and returns its generated id.
func (r *ProjectMongo) Insert(ctx context.Context, p models.Project) (string, error) {
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateRepo
		}
		return "", err
	}
	return p.ID, nil
}

// ListByMember returns every project the user belongs to.
func (r *ProjectMongo) ListByMember(ctx context.Context, userID string) ([]models.Project, error) {
	cur, err := r.col.Find(ctx, bson.M{"members": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var projects []models.Project
	if err := cur.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateStatus sets the project's status field.
func (r *ProjectMongo) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember appends a user id to the project's member set.
func (r *ProjectMongo) AddMember(ctx context.Context, projectID, userID string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": projectID},
		bson.M{"$addToSet": bson.M{"members": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"ontrackr/internal/models"
	"ontrackr/internal/repository"
	"ontrackr/internal/service"
)

type memProjectRepo struct {
	projects map[string]models.Project
}

func (m *memProjectRepo) FindByID(ctx context.Context, id string) (models.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return models.Project{}, repository.ErrNotFound
	}
	return p, nil
}

func (m *memProjectRepo) FindByRepo(ctx context.Context, owner, repo string) (models.Project, error) {
	for _, p := range m.projects {
		if p.GithubOwner == owner && p.GithubRepo == repo {
			return p, nil
		}
	}
	return models.Project{}, repository.ErrNotFound
}

func (m *memProjectRepo) Insert(ctx context.Context, p models.Project) (string, error) {
	for _, existing := range m.projects {
		if existing.GithubOwner == p.GithubOwner && existing.GithubRepo == p.GithubRepo {
			return "", repository.ErrDuplicateRepo
		}
	}
	p.ID = fmt.Sprintf("p%d", len(m.projects)+1)
	m.projects[p.ID] = p
	return p.ID, nil
}

func (m *memProjectRepo) ListByMember(ctx context.Context, userID string) ([]models.Project, error) {
	var out []models.Project
	for _, p := range m.projects {
		for _, member := range p.Members {
			if member == userID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (m *memProjectRepo) UpdateStatus(ctx context.Context, id, status string) error {
	p, ok := m.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	m.projects[id] = p
	return nil
}

type memDirectory struct{ users map[string]models.User }

func (m *memDirectory) FindByID(ctx context.Context, id string) (models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memDirectory) FindByEmail(ctx context.Context, email string) (models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func newProjectApp(t *testing.T) (*fiber.App, *memProjectRepo) {
	t.Helper()
	repo := &memProjectRepo{projects: make(map[string]models.Project)}
	dir := &memDirectory{users: map[string]models.User{
		"u2": {ID: "u2", Email: "dev@acme.test"},
	}}
	svc := service.NewProjectService(repo, dir, zerolog.Nop())

	app := fiber.New()
	NewProjectHandler(svc).Register(app.Group("/api/v1"))
	return app, repo
}

func TestProjectCreateEndpoint(t *testing.T) {
	app, repo := newProjectApp(t)

	body := `{"name":"Demo","githubRepoUrl":"https://github.com/acme/demo","memberEmails":["dev@acme.test"],"createdBy":"u1"}`
	req := httptest.NewRequest("POST", "/api/v1/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var res service.CreateProjectResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Project.GithubOwner != "acme" || res.Project.GithubRepo != "demo" {
		t.Fatalf("parsed repo = %q/%q", res.Project.GithubOwner, res.Project.GithubRepo)
	}
	if _, ok := repo.projects[res.Project.ID]; !ok {
		t.Fatal("project was not persisted")
	}
}

func TestProjectCreateEndpointDuplicateRepo(t *testing.T) {
	app, _ := newProjectApp(t)

	body := `{"name":"Demo","githubRepoUrl":"https://github.com/acme/demo","createdBy":"u1"}`
	first := httptest.NewRequest("POST", "/api/v1/projects", strings.NewReader(body))
	first.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(first)
	if err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("first status = %d, want 201", resp.StatusCode)
	}

	second := httptest.NewRequest("POST", "/api/v1/projects", strings.NewReader(body))
	second.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(second)
	if err != nil {
		t.Fatalf("second request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("second status = %d, want 409", resp.StatusCode)
	}
}

func TestProjectGetEndpoint(t *testing.T) {
	app, repo := newProjectApp(t)
	repo.projects["p1"] = models.Project{ID: "p1", Name: "Demo", Members: []string{"u1"}}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/projects/p1", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/projects/p9", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

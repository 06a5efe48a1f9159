package service

import (
	"context"
	"fmt"
	"sync"

	"ontrackr/internal/models"
	"ontrackr/internal/repository"
)

// In-memory stand-ins for the Mongo repositories. Each fake keeps the
// behavior the services rely on (filters, sentinels, unique keys) and
// nothing else.

type fakeProjects struct {
	projects        map[string]models.Project
	err             error // returned by every call when set
	findByIDCalls   int
	findByRepoCalls int
}

func newFakeProjects(projects ...models.Project) *fakeProjects {
	f := &fakeProjects{projects: make(map[string]models.Project)}
	for _, p := range projects {
		f.projects[p.ID] = p
	}
	return f
}

func (f *fakeProjects) FindByID(ctx context.Context, id string) (models.Project, error) {
	f.findByIDCalls++
	if f.err != nil {
		return models.Project{}, f.err
	}
	p, ok := f.projects[id]
	if !ok {
		return models.Project{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjects) FindByRepo(ctx context.Context, owner, repo string) (models.Project, error) {
	f.findByRepoCalls++
	if f.err != nil {
		return models.Project{}, f.err
	}
	for _, p := range f.projects {
		if p.GithubOwner == owner && p.GithubRepo == repo {
			return p, nil
		}
	}
	return models.Project{}, repository.ErrNotFound
}

func (f *fakeProjects) Insert(ctx context.Context, p models.Project) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	for _, existing := range f.projects {
		if existing.GithubOwner == p.GithubOwner && existing.GithubRepo == p.GithubRepo {
			return "", repository.ErrDuplicateRepo
		}
	}
	if p.ID == "" {
		p.ID = fmt.Sprintf("p%d", len(f.projects)+1)
	}
	f.projects[p.ID] = p
	return p.ID, nil
}

func (f *fakeProjects) ListByMember(ctx context.Context, userID string) ([]models.Project, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Project
	for _, p := range f.projects {
		for _, m := range p.Members {
			if m == userID {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProjects) UpdateStatus(ctx context.Context, id, status string) error {
	if f.err != nil {
		return f.err
	}
	p, ok := f.projects[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Status = status
	f.projects[id] = p
	return nil
}

func (f *fakeProjects) AddMember(ctx context.Context, projectID, userID string) error {
	if f.err != nil {
		return f.err
	}
	p, ok := f.projects[projectID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Members = append(p.Members, userID)
	f.projects[projectID] = p
	return nil
}

type fakeUsers struct {
	users map[string]models.User
	err   error
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[string]models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(ctx context.Context, id string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (models.User, error) {
	if f.err != nil {
		return models.User{}, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

type fakeTasks struct {
	mu    sync.Mutex
	tasks map[string]models.Task
}

func newFakeTasks(tasks ...models.Task) *fakeTasks {
	f := &fakeTasks{tasks: make(map[string]models.Task)}
	for _, t := range tasks {
		f.tasks[t.ID] = t
	}
	return f
}

func (f *fakeTasks) ListByStatus(ctx context.Context, projectID, status string) ([]models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Task
	for _, t := range f.tasks {
		if t.ProjectID == projectID && t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	t.Status = status
	f.tasks[id] = t
	return nil
}

func (f *fakeTasks) status(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tasks[id].Status
}

type activityKey struct {
	projectID, activityType, githubID string
}

type fakeActivities struct {
	records    []models.GitHubActivity
	keys       map[activityKey]bool
	insertHook func(a models.GitHubActivity) error // optional per-record failure
	existsErr  error
}

func newFakeActivities() *fakeActivities {
	return &fakeActivities{keys: make(map[activityKey]bool)}
}

func (f *fakeActivities) Exists(ctx context.Context, projectID, activityType, githubID string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.keys[activityKey{projectID, activityType, githubID}], nil
}

func (f *fakeActivities) Insert(ctx context.Context, a models.GitHubActivity) error {
	if f.insertHook != nil {
		if err := f.insertHook(a); err != nil {
			return err
		}
	}
	key := activityKey{a.ProjectID, a.ActivityType, a.GithubID}
	if f.keys[key] {
		return repository.ErrDuplicateActivity
	}
	f.keys[key] = true
	f.records = append(f.records, a)
	return nil
}

func (f *fakeActivities) ListByProject(ctx context.Context, projectID string, limit int) ([]models.GitHubActivity, error) {
	var out []models.GitHubActivity
	for _, a := range f.records {
		if a.ProjectID == projectID {
			out = append(out, a)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeActivities) ListByUsername(ctx context.Context, githubUsername string, limit int) ([]models.GitHubActivity, error) {
	var out []models.GitHubActivity
	for _, a := range f.records {
		if a.GithubUsername == githubUsername {
			out = append(out, a)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeActivities) ofType(activityType string) []models.GitHubActivity {
	var out []models.GitHubActivity
	for _, a := range f.records {
		if a.ActivityType == activityType {
			out = append(out, a)
		}
	}
	return out
}

type fakeEvents struct {
	events []models.WebhookEvent
}

func (f *fakeEvents) Insert(ctx context.Context, e models.WebhookEvent) (string, error) {
	f.events = append(f.events, e)
	return "evt", nil
}

func (f *fakeEvents) ListByProject(ctx context.Context, projectID string, limit int) ([]models.WebhookEvent, error) {
	var out []models.WebhookEvent
	for _, e := range f.events {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeInvites struct {
	invites map[string]models.Invite // by token
}

func newFakeInvites() *fakeInvites {
	return &fakeInvites{invites: make(map[string]models.Invite)}
}

func (f *fakeInvites) Insert(ctx context.Context, inv models.Invite) (string, error) {
	inv.ID = "inv-" + inv.Token
	f.invites[inv.Token] = inv
	return inv.ID, nil
}

func (f *fakeInvites) FindByToken(ctx context.Context, token string) (models.Invite, error) {
	inv, ok := f.invites[token]
	if !ok {
		return models.Invite{}, repository.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInvites) MarkAccepted(ctx context.Context, id, userID string) error {
	for token, inv := range f.invites {
		if inv.ID == id {
			if inv.Status != models.InvitePending {
				return repository.ErrNotFound
			}
			inv.Status = models.InviteAccepted
			inv.AcceptedBy = userID
			f.invites[token] = inv
			return nil
		}
	}
	return repository.ErrNotFound
}

package models

import "time"

// Task status values. Transitions driven by the matcher are forward-only:
// To Do -> In Review -> Done.
const (
	StatusToDo     = "To Do"
	StatusInReview = "In Review"
	StatusDone     = "Done"
)

// Activity types recorded from webhook deliveries.
const (
	ActivityCommit    = "commit"
	ActivityPROpened  = "pull_request_opened"
	ActivityPRMerged  = "pull_request_merged"
	ActivityIssueOpen = "issue_opened"
	ActivityIssueDone = "issue_closed"
)

// User mirrors the "users" collection. GithubUsername links a registered
// account to the external identity that authors commits and PRs.
type User struct {
	ID             string `bson:"_id,omitempty" json:"id"`
	Name           string `bson:"name" json:"name"`
	Email          string `bson:"email" json:"email"`
	Role           string `bson:"role" json:"role"`
	AvatarURL      string `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	GithubUsername string `bson:"github_username,omitempty" json:"githubUsername,omitempty"`
	DisplayName    string `bson:"display_name,omitempty" json:"displayName,omitempty"`
}

// Project statuses.
const (
	ProjectActive   = "Active"
	ProjectOnHold   = "On Hold"
	ProjectArchived = "Archived"
)

// Project mirrors the "projects" collection. GithubOwner/GithubRepo route
// webhook deliveries; the pair is unique across projects.
type Project struct {
	ID            string     `bson:"_id,omitempty" json:"id"`
	Name          string     `bson:"name" json:"name"`
	Description   string     `bson:"description,omitempty" json:"description,omitempty"`
	Status        string     `bson:"status" json:"status"`
	LeadID        string     `bson:"lead_id,omitempty" json:"leadId,omitempty"`
	CreatedBy     string     `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	Members       []string   `bson:"members" json:"members"`
	GithubOwner   string     `bson:"github_owner,omitempty" json:"githubOwner,omitempty"`
	GithubRepo    string     `bson:"github_repo,omitempty" json:"githubRepo,omitempty"`
	GithubRepoURL string     `bson:"github_repo_url,omitempty" json:"githubRepoUrl,omitempty"`
	DeadlineAt    *time.Time `bson:"deadline_at,omitempty" json:"deadlineAt,omitempty"`
	CreatedAt     time.Time  `bson:"created_at" json:"createdAt"`
}

// FullRepoName returns "owner/repo", the form GitHub uses in payloads.
func (p Project) FullRepoName() string {
	return p.GithubOwner + "/" + p.GithubRepo
}

// Task mirrors the "tasks" collection. Keywords is precomputed from the
// title at creation time and drives matching against commit/PR text.
type Task struct {
	ID              string     `bson:"_id,omitempty" json:"id"`
	Title           string     `bson:"title" json:"title"`
	Description     string     `bson:"description,omitempty" json:"description,omitempty"`
	Status          string     `bson:"status" json:"status"`
	AssignedTo      string     `bson:"assigned_to" json:"assignedTo"`
	AssignedToName  string     `bson:"assigned_to_name,omitempty" json:"assignedToName,omitempty"`
	ProjectID       string     `bson:"project_id" json:"projectId"`
	Keywords        []string   `bson:"keywords" json:"keywords"`
	CreatedAt       time.Time  `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updatedAt"`
	DeadlineAt      *time.Time `bson:"deadline_at,omitempty" json:"deadlineAt,omitempty"`
	ReminderEnabled bool       `bson:"reminder_enabled" json:"reminderEnabled"`
	ReminderSent    bool       `bson:"reminder_sent" json:"reminderSent"`
}

// GitHubActivity is an immutable fact derived from one webhook event.
// (ProjectID, ActivityType, GithubID) is the idempotency key: at most one
// record exists per logical external event.
type GitHubActivity struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	ProjectID          string    `bson:"project_id" json:"projectId"`
	RepositoryFullName string    `bson:"repository_full_name,omitempty" json:"repositoryFullName,omitempty"`
	ActivityType       string    `bson:"activity_type" json:"activityType"`
	Title              string    `bson:"title" json:"title"`
	GithubUsername     string    `bson:"github_username" json:"githubUsername"`
	Branch             string    `bson:"branch,omitempty" json:"branch,omitempty"`
	GithubURL          string    `bson:"github_url,omitempty" json:"githubUrl,omitempty"`
	GithubID           string    `bson:"github_id" json:"githubId"`
	AvatarURL          string    `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt          time.Time `bson:"created_at" json:"createdAt"`
}

// WebhookEvent is the raw audit record of one delivery, keyed to a project.
// Append-only; never read back by the processing pipeline.
type WebhookEvent struct {
	ID         string          `bson:"_id,omitempty" json:"id"`
	ProjectID  string          `bson:"project_id" json:"projectId"`
	EventType  string          `bson:"event_type" json:"eventType"`
	Action     string          `bson:"action" json:"action"`
	Repository EventRepository `bson:"repository" json:"repository"`
	Sender     EventSender     `bson:"sender" json:"sender"`
	Payload    []byte          `bson:"payload,omitempty" json:"-"`
	CreatedAt  time.Time       `bson:"created_at" json:"createdAt"`
}

// EventRepository identifies the repository a raw event came from.
type EventRepository struct {
	Name     string `bson:"name" json:"name"`
	FullName string `bson:"full_name" json:"fullName"`
	Owner    string `bson:"owner" json:"owner"`
}

// EventSender identifies the GitHub account that triggered a raw event.
type EventSender struct {
	Login     string `bson:"login" json:"login"`
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
}

// Invite mirrors the "invites" collection.
type Invite struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Token      string    `bson:"token" json:"token"`
	ProjectID  string    `bson:"project_id" json:"projectId"`
	Email      string    `bson:"email" json:"email"`
	InvitedBy  string    `bson:"invited_by" json:"invitedBy"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	AcceptedAt time.Time `bson:"accepted_at,omitempty" json:"acceptedAt,omitempty"`
	AcceptedBy string    `bson:"accepted_by,omitempty" json:"acceptedBy,omitempty"`
}

// Invite statuses.
const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
)

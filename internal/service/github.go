package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"ontrackr/internal/github"
	"ontrackr/internal/models"
	"ontrackr/internal/repository"
)

// ErrProjectNotFound means no project is linked to the delivery's
// (owner, repo) pair; the delivery is unroutable.
var ErrProjectNotFound = errors.New("service: no project for repository")

// ---- Repository layer contracts -------------------------------------------

// ActivityStore persists immutable activity records with idempotency
// support.
type ActivityStore interface {
	Exists(ctx context.Context, projectID, activityType, githubID string) (bool, error)
	Insert(ctx context.Context, a models.GitHubActivity) error
}

// EventStore is the append-only raw delivery audit log.
type EventStore interface {
	Insert(ctx context.Context, e models.WebhookEvent) (string, error)
}

// Authorizer gates whether an external actor's activity is recorded.
type Authorizer interface {
	IsAuthorized(ctx context.Context, projectID, githubUsername string) bool
}

// Matcher advances task status from matching events.
type Matcher interface {
	MatchCommit(ctx context.Context, projectID, message, githubUsername string, defaultBranch bool) (int, error)
	MatchMerge(ctx context.Context, projectID, title, body, githubUsername string) (int, error)
}

// ---- Service ---------------------------------------------------------------

// GitHubService routes one webhook delivery to its project and event
// handler. Failures local to one commit/PR/issue are logged and swallowed
// so a bad record cannot block its siblings; only an unroutable delivery
// fails as a whole.
type GitHubService struct {
	projects   ProjectStore
	activities ActivityStore
	events     EventStore
	guard      Authorizer
	matcher    Matcher
	log        zerolog.Logger
}

// NewGitHubService wires dependencies.
func NewGitHubService(
	projects ProjectStore,
	activities ActivityStore,
	events EventStore,
	guard Authorizer,
	matcher Matcher,
	log zerolog.Logger,
) *GitHubService {
	return &GitHubService{
		projects:   projects,
		activities: activities,
		events:     events,
		guard:      guard,
		matcher:    matcher,
		log:        log.With().Str("component", "github").Logger(),
	}
}

// DispatchResult summarises one processed delivery.
type DispatchResult struct {
	Event       string
	ProjectID   string
	ProjectName string
	Repository  string
}

// Dispatch resolves the target project and runs the event-type handler.
// Unrecognized event types are acknowledged; they leave only the raw audit
// record. raw is the verbatim request body, kept for the audit log.
func (s *GitHubService) Dispatch(ctx context.Context, event, deliveryID string, payload models.WebhookPayload, raw []byte) (DispatchResult, error) {
	owner := payload.Repository.Owner.Login
	repo := payload.Repository.Name

	log := s.log.With().
		Str("event", event).
		Str("delivery_id", deliveryID).
		Str("repository", owner+"/"+repo).
		Logger()

	project, err := s.projects.FindByRepo(ctx, owner, repo)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Warn().Msg("no project for repository")
			return DispatchResult{}, ErrProjectNotFound
		}
		return DispatchResult{}, err
	}
	log = log.With().Str("project_id", project.ID).Logger()

	s.storeRawEvent(ctx, log, project.ID, event, payload, raw)

	switch event {
	case "push":
		s.processPush(ctx, log, project, payload)
	case "pull_request":
		s.processPullRequest(ctx, log, project, payload)
	case "issues":
		s.processIssues(ctx, log, project, payload)
	default:
		log.Info().Msg("unhandled event type")
	}

	return DispatchResult{
		Event:       event,
		ProjectID:   project.ID,
		ProjectName: project.Name,
		Repository:  payload.Repository.FullName,
	}, nil
}

// storeRawEvent appends the delivery to the audit log. Audit failures are
// logged but never block processing.
func (s *GitHubService) storeRawEvent(ctx context.Context, log zerolog.Logger, projectID, event string, payload models.WebhookPayload, raw []byte) {
	action := payload.Action
	if action == "" {
		action = "unknown"
	}
	_, err := s.events.Insert(ctx, models.WebhookEvent{
		ProjectID: projectID,
		EventType: event,
		Action:    action,
		Repository: models.EventRepository{
			Name:     payload.Repository.Name,
			FullName: payload.Repository.FullName,
			Owner:    payload.Repository.Owner.Login,
		},
		Sender: models.EventSender{
			Login:     payload.Sender.Login,
			AvatarURL: payload.Sender.AvatarURL,
		},
		Payload: raw,
	})
	if err != nil {
		log.Error().Err(err).Msg("audit log write failed")
	}
}

// processPush records one activity per commit and runs the matcher for
// each. Each commit is processed inside its own error boundary.
func (s *GitHubService) processPush(ctx context.Context, log zerolog.Logger, project models.Project, payload models.WebhookPayload) {
	branch := github.BranchFromRef(payload.Ref)
	defaultBranch := github.IsDefaultBranch(branch)

	log.Info().
		Str("branch", branch).
		Bool("default_branch", defaultBranch).
		Int("commits", len(payload.Commits)).
		Msg("processing push")

	for _, commit := range payload.Commits {
		if err := s.processCommit(ctx, project, payload, commit, branch, defaultBranch); err != nil {
			log.Error().Err(err).Str("sha", commit.ID).Msg("commit processing failed")
		}
	}
}

func (s *GitHubService) processCommit(ctx context.Context, project models.Project, payload models.WebhookPayload, commit models.PayloadCommit, branch string, defaultBranch bool) error {
	username := commit.Author.Username
	if username == "" {
		username = payload.Sender.Login
	}

	wrote, err := s.recordActivity(ctx, models.GitHubActivity{
		ProjectID:          project.ID,
		RepositoryFullName: payload.Repository.FullName,
		ActivityType:       models.ActivityCommit,
		Title:              commit.Message,
		GithubUsername:     username,
		Branch:             branch,
		GithubURL:          commit.URL,
		GithubID:           github.CommitID(commit.ID),
		AvatarURL:          payload.Sender.AvatarURL,
	})
	if err != nil || !wrote {
		return err
	}

	_, err = s.matcher.MatchCommit(ctx, project.ID, commit.Message, username, defaultBranch)
	return err
}

// processPullRequest records opened and merged activity. Matching runs
// only for PRs merged into a default branch.
func (s *GitHubService) processPullRequest(ctx context.Context, log zerolog.Logger, project models.Project, payload models.WebhookPayload) {
	pr := payload.PullRequest
	if pr == nil {
		log.Warn().Msg("pull_request event without pull_request field")
		return
	}

	switch {
	case payload.Action == "opened":
		_, err := s.recordActivity(ctx, models.GitHubActivity{
			ProjectID:          project.ID,
			RepositoryFullName: payload.Repository.FullName,
			ActivityType:       models.ActivityPROpened,
			Title:              pr.Title,
			GithubUsername:     pr.User.Login,
			Branch:             pr.Base.Ref,
			GithubURL:          pr.HTMLURL,
			GithubID:           github.PullRequestID(pr.Number, "opened"),
			AvatarURL:          payload.Sender.AvatarURL,
		})
		if err != nil {
			log.Error().Err(err).Int("pr", pr.Number).Msg("pr opened processing failed")
		}

	case payload.Action == "closed" && pr.Merged:
		wrote, err := s.recordActivity(ctx, models.GitHubActivity{
			ProjectID:          project.ID,
			RepositoryFullName: payload.Repository.FullName,
			ActivityType:       models.ActivityPRMerged,
			Title:              pr.Title,
			GithubUsername:     pr.User.Login,
			Branch:             pr.Base.Ref,
			GithubURL:          pr.HTMLURL,
			GithubID:           github.PullRequestID(pr.Number, "merged"),
			AvatarURL:          payload.Sender.AvatarURL,
		})
		if err != nil {
			log.Error().Err(err).Int("pr", pr.Number).Msg("pr merged processing failed")
			return
		}
		if wrote && github.IsDefaultBranch(pr.Base.Ref) {
			if _, err := s.matcher.MatchMerge(ctx, project.ID, pr.Title, pr.Body, pr.User.Login); err != nil {
				log.Error().Err(err).Int("pr", pr.Number).Msg("merge matching failed")
			}
		}
	}
}

// processIssues records opened/closed issue activity. Issues never trigger
// task matching. Closed issues are attributed to the sender, who is not
// necessarily the issue's author.
func (s *GitHubService) processIssues(ctx context.Context, log zerolog.Logger, project models.Project, payload models.WebhookPayload) {
	issue := payload.Issue
	if issue == nil {
		log.Warn().Msg("issues event without issue field")
		return
	}

	var (
		activityType string
		username     string
	)
	switch payload.Action {
	case "opened":
		activityType = models.ActivityIssueOpen
		username = issue.User.Login
	case "closed":
		activityType = models.ActivityIssueDone
		username = payload.Sender.Login
	default:
		return
	}

	_, err := s.recordActivity(ctx, models.GitHubActivity{
		ProjectID:          project.ID,
		RepositoryFullName: payload.Repository.FullName,
		ActivityType:       activityType,
		Title:              issue.Title,
		GithubUsername:     username,
		GithubURL:          issue.HTMLURL,
		GithubID:           github.IssueID(issue.Number, payload.Action),
		AvatarURL:          payload.Sender.AvatarURL,
	})
	if err != nil {
		log.Error().Err(err).Int("issue", issue.Number).Msg("issue processing failed")
	}
}

// recordActivity runs the per-record pipeline: membership check,
// idempotency check, write. It reports whether a new record was written;
// duplicates and unauthorized actors return (false, nil).
func (s *GitHubService) recordActivity(ctx context.Context, a models.GitHubActivity) (bool, error) {
	log := s.log.With().
		Str("project_id", a.ProjectID).
		Str("activity_type", a.ActivityType).
		Str("github_id", a.GithubID).
		Logger()

	if !s.guard.IsAuthorized(ctx, a.ProjectID, a.GithubUsername) {
		log.Warn().Str("github_username", a.GithubUsername).Msg("actor not authorized, skipping")
		return false, nil
	}

	exists, err := s.activities.Exists(ctx, a.ProjectID, a.ActivityType, a.GithubID)
	if err != nil {
		return false, err
	}
	if exists {
		log.Debug().Msg("duplicate event, skipping")
		return false, nil
	}

	if err := s.activities.Insert(ctx, a); err != nil {
		// A concurrent delivery can win the insert between the check
		// and the write; the unique index reports it here.
		if errors.Is(err, repository.ErrDuplicateActivity) {
			log.Debug().Msg("duplicate event, lost insert race")
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Package github handles the inbound side of the GitHub integration:
// webhook payload parsing, delivery signature verification and the
// synthesis of deterministic external identifiers.
package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"ontrackr/internal/models"
)

// Webhook header names, per GitHub's delivery format.
const (
	HeaderEvent     = "X-GitHub-Event"
	HeaderDelivery  = "X-GitHub-Delivery"
	HeaderSignature = "X-Hub-Signature-256"
)

// EventPing is GitHub's liveness check, sent when a webhook is first
// registered. It is acknowledged without any processing.
const EventPing = "ping"

var (
	// ErrInvalidPayload means the body is not valid JSON.
	ErrInvalidPayload = errors.New("github: invalid payload")
	// ErrMissingRepository means the payload carries no repository
	// coordinates, so the delivery cannot be routed.
	ErrMissingRepository = errors.New("github: payload missing repository")
)

// ParsePayload decodes a webhook body and validates that it carries the
// repository coordinates routing depends on.
func ParsePayload(body []byte) (models.WebhookPayload, error) {
	var p models.WebhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return models.WebhookPayload{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.Repository == nil || p.Repository.Owner.Login == "" || p.Repository.Name == "" {
		return models.WebhookPayload{}, ErrMissingRepository
	}
	return p, nil
}

// BranchFromRef strips the refs/heads/ prefix from a push ref.
func BranchFromRef(ref string) string {
	return strings.TrimPrefix(ref, "refs/heads/")
}

// IsDefaultBranch reports whether branch is a default branch. Detection is
// a literal match against "main" or "master"; there is no per-project
// default-branch setting.
func IsDefaultBranch(branch string) bool {
	return branch == "main" || branch == "master"
}

// CommitID returns the external identifier for a commit: its SHA.
func CommitID(sha string) string {
	return sha
}

// PullRequestID returns the external identifier for a pull-request action,
// e.g. "pr-42-opened". Deterministic for a given number and action.
func PullRequestID(number int, action string) string {
	return fmt.Sprintf("pr-%d-%s", number, action)
}

// IssueID returns the external identifier for an issue action,
// e.g. "issue-7-closed".
func IssueID(number int, action string) string {
	return fmt.Sprintf("issue-%d-%s", number, action)
}

// Package repository provides the Mongo-backed persistence adapters.
// One struct per collection; filters are plain bson.M equality matches.
package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup matches no document.
	ErrNotFound = errors.New("repository: not found")

	// ErrDuplicateActivity is returned when an activity insert violates
	// the (projectId, activityType, githubId) unique index.
	ErrDuplicateActivity = errors.New("repository: duplicate activity")

	// ErrDuplicateRepo is returned when a project insert or update would
	// map two projects to the same (owner, repo) pair.
	ErrDuplicateRepo = errors.New("repository: repository already linked to a project")
)

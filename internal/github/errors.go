// internal/github/errors.go
package github

import "errors"

// Sentinel errors mapping the API's distinct failure modes. Callers
// branch on these with errors.Is; everything else is wrapped transport
// or status noise.
var (
	// ErrNotFound is a plain 404 for a missing repo or path.
	ErrNotFound = errors.New("github: not found")

	// ErrEmptyRepository is the contents API's 404 for a repository
	// that exists but has no files ("This repository is empty.").
	ErrEmptyRepository = errors.New("github: repository is empty")

	// ErrNoCommits is the commits API's 409 for a repository with no
	// commit history ("Git Repository is empty.").
	ErrNoCommits = errors.New("github: git repository is empty")

	// ErrRateLimited is a 403/429 caused by quota exhaustion.
	ErrRateLimited = errors.New("github: rate limited")
)

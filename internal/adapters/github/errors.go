package github

import "errors"

var (
	// ErrFetch indicates a GitHub API request failed.
	ErrFetch = errors.New("github fetch failed")
	// ErrRepositoryNotFound indicates the repository does not exist or
	// the token cannot see it.
	ErrRepositoryNotFound = errors.New("github repository not found")
)

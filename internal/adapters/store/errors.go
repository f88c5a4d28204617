package store

import "errors"

var (
	// ErrNotFound indicates the repository has no collected data.
	ErrNotFound = errors.New("repository data not found")
	// ErrRead indicates a failure reading from the data directory.
	ErrRead = errors.New("failed to read store data")
	// ErrWrite indicates a failure writing to the data directory.
	ErrWrite = errors.New("failed to write store data")
)

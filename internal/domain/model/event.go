// Package model contains domain models passed between layers.
package model

import "time"

// EventType identifies a pull request lifecycle occurrence.
type EventType string

// Lifecycle event types emitted by the collector.
const (
	PRCreated              EventType = "pr_created"
	CommitPushed           EventType = "commit_pushed"
	ReviewRequested        EventType = "review_requested"
	ReviewApproved         EventType = "review_approved"
	ReviewChangesRequested EventType = "review_changes_requested"
	ReviewCommented        EventType = "review_commented"
	PRMerged               EventType = "pr_merged"
	CommentAdded           EventType = "comment_added"
)

// IsReviewAction reports whether t is a reviewer response
// (approval, change request, or review comment).
func (t EventType) IsReviewAction() bool {
	return t == ReviewApproved || t == ReviewChangesRequested || t == ReviewCommented
}

// Known reports whether t is one of the collector-emitted event types.
func (t EventType) Known() bool {
	switch t {
	case PRCreated, CommitPushed, ReviewRequested, ReviewApproved,
		ReviewChangesRequested, ReviewCommented, PRMerged, CommentAdded:
		return true
	}
	return false
}

// Event is one row of a repository's pull request history: a single
// lifecycle occurrence for one PR. Rows of the same PR share the diff
// stats and author classification, which are derived once at fetch time.
type Event struct {
	Time         time.Time // occurrence time
	PRNumber     int       // owning pull request
	Type         EventType
	Actor        string // login of the user/bot that caused the event, may be empty
	TargetUser   string // requested reviewer for review_requested, else empty
	LinesAdded   int    // cumulative PR diff stats, constant per PR
	LinesDeleted int
	IsBot        bool // actor classified as an automated agent
	IsCoreTeam   bool // PR author has elevated repository association
	PRTitle      string
	PRURL        string
}

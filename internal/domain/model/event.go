package model

import "time"

// EventType names a state change the sidebar core reports outward.
type EventType string

const (
	EventReceivedConnected     EventType = "received_connected"
	EventReceivedReviews       EventType = "received_reviews"
	EventReceivedReviewDetails EventType = "received_reviews_details"
	EventReceivedYourPRs       EventType = "received_your_prs"
	EventReceivedYourPRDetails EventType = "received_your_prs_details"
	EventReceivedAssignments   EventType = "received_your_assignments"
	EventReceivedUnreads       EventType = "received_unreads"
	EventReceivedGitLabUser    EventType = "received_gitlab_user"
	EventUpdatedViewMode       EventType = "update_rhs_state"
)

// Event is a one-way notification about changed sidebar data.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Mode       ViewMode  `json:"mode,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Count      int       `json:"count"`
	OccurredAt time.Time `json:"occurred_at"`
}

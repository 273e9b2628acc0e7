package model

import "time"

// RemoteItem is a merge request, issue or todo as returned by the GitLab
// plugin API. List fetches return summary items; the detail batch returns the
// same shape with Status and NumApprovers populated.
type RemoteItem struct {
	ID         int64     `json:"id"` // Stable across fetches; used as the list key.
	IID        int       `json:"iid"`
	ProjectID  int64     `json:"project_id"`
	SHA        string    `json:"sha"` // Content-version marker; part of the join identity.
	Title      string    `json:"title"`
	WebURL     string    `json:"web_url"`
	State      string    `json:"state"`
	Author     string    `json:"author"`
	References string    `json:"references,omitempty"`
	Labels     []string  `json:"labels,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Todo-only fields, populated for the unreads list.
	ActionName string `json:"action_name,omitempty"`
	TargetType string `json:"target_type,omitempty"`
	TargetURL  string `json:"target_url,omitempty"`
	Body       string `json:"body,omitempty"`

	// Enrichment fields.
	Status         string   `json:"status,omitempty"`
	NumApprovers   int      `json:"num_approvers,omitempty"`
	Reviewers      []string `json:"reviewers,omitempty"`
	TotalReviewers int      `json:"total_reviewers,omitempty"`
}

// Identity returns the join key used to match a summary item with its
// detail record.
func (i RemoteItem) Identity() ItemIdentity {
	return ItemIdentity{ProjectID: i.ProjectID, SHA: i.SHA, IID: i.IID}
}

// ItemIdentity is the tuple sent in a detail batch request. Only ProjectID
// and SHA take part in matching; IID lets the server look the item up.
type ItemIdentity struct {
	ProjectID int64  `json:"project_id"`
	SHA       string `json:"sha"`
	IID       int    `json:"iid"`
}

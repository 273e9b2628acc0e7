package model

import "time"

// Badge colours for link previews.
const (
	BadgeColorOpened = "#28a745"
	BadgeColorClosed = "#cb2431"
	BadgeColorMerged = "#6f42c1"
)

// Label is a GitLab label with its display colours.
type Label struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	TextColor   string `json:"text_color"`
}

// LinkPreview is the tooltip payload for an issue or merge request link.
// It is built per lookup and never persisted.
type LinkPreview struct {
	Owner        string        `json:"owner"`
	Repo         string        `json:"repo"`
	Kind         ReferenceKind `json:"type"`
	IID          int           `json:"iid"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	State        string        `json:"state"` // opened, closed, merged
	Merged       bool          `json:"merged"`
	SourceBranch string        `json:"source_branch,omitempty"`
	TargetBranch string        `json:"target_branch,omitempty"`
	WebURL       string        `json:"web_url"`
	Labels       []Label       `json:"labels_with_details,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Badge is the icon and colour shown next to a preview title.
type Badge struct {
	Icon  string
	Color string
}

// Badge derives the preview icon from the kind and state.
func (p LinkPreview) Badge() Badge {
	switch p.Kind {
	case ReferenceKindMergeRequest:
		if p.State == "closed" || p.State == "merged" {
			if p.Merged || p.State == "merged" {
				return Badge{Icon: "git-merge", Color: BadgeColorMerged}
			}
			return Badge{Icon: "git-pull-request", Color: BadgeColorClosed}
		}
		return Badge{Icon: "git-pull-request", Color: BadgeColorOpened}
	case ReferenceKindIssue:
		if p.State == "opened" {
			return Badge{Icon: "issue-opened", Color: BadgeColorOpened}
		}
		return Badge{Icon: "issue-closed", Color: BadgeColorClosed}
	default:
		return Badge{}
	}
}

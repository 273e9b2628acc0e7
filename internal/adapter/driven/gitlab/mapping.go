package gitlab

import (
	"time"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// userJSON is a GitLab user as nested in items and returned by /user.
type userJSON struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	WebURL    string `json:"web_url"`
}

// itemJSON covers merge requests, issues, todos and detail records. Fields a
// given endpoint does not send decode to their zero values.
type itemJSON struct {
	ID         int64      `json:"id"`
	IID        int        `json:"iid"`
	ProjectID  int64      `json:"project_id"`
	SHA        string     `json:"sha"`
	Title      string     `json:"title"`
	WebURL     string     `json:"web_url"`
	State      string     `json:"state"`
	Author     userJSON   `json:"author"`
	Labels     []string   `json:"labels"`
	Reviewers  []userJSON `json:"reviewers"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	References struct {
		Full string `json:"full"`
	} `json:"references"`

	ActionName string `json:"action_name"`
	TargetType string `json:"target_type"`
	TargetURL  string `json:"target_url"`
	Body       string `json:"body"`
	Project    struct {
		ID int64 `json:"id"`
	} `json:"project"`
	Target struct {
		Title  string `json:"title"`
		WebURL string `json:"web_url"`
	} `json:"target"`

	Status       string `json:"status"`
	NumApprovers int    `json:"approvers"`
}

// previewJSON is an issue or merge request as returned for link tooltips.
type previewJSON struct {
	IID          int           `json:"iid"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	State        string        `json:"state"`
	MergedAt     *time.Time    `json:"merged_at"`
	SourceBranch string        `json:"source_branch"`
	TargetBranch string        `json:"target_branch"`
	WebURL       string        `json:"web_url"`
	Labels       []model.Label `json:"labels_with_details"`
	CreatedAt    time.Time     `json:"created_at"`
}

func mapItems(raw []itemJSON) []model.RemoteItem {
	items := make([]model.RemoteItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, mapItem(r))
	}
	return items
}

// mapItem converts the wire item to a RemoteItem. Todos carry their project
// id and title in nested objects rather than at the top level.
func mapItem(r itemJSON) model.RemoteItem {
	projectID := r.ProjectID
	if projectID == 0 {
		projectID = r.Project.ID
	}
	title := r.Title
	if title == "" {
		title = r.Target.Title
	}
	webURL := r.WebURL
	if webURL == "" {
		webURL = r.Target.WebURL
	}

	var reviewers []string
	if len(r.Reviewers) > 0 {
		reviewers = make([]string, 0, len(r.Reviewers))
		for _, rv := range r.Reviewers {
			reviewers = append(reviewers, rv.Username)
		}
	}

	return model.RemoteItem{
		ID:           r.ID,
		IID:          r.IID,
		ProjectID:    projectID,
		SHA:          r.SHA,
		Title:        title,
		WebURL:       webURL,
		State:        r.State,
		Author:       r.Author.Username,
		References:   r.References.Full,
		Labels:       r.Labels,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		ActionName:   r.ActionName,
		TargetType:   r.TargetType,
		TargetURL:    r.TargetURL,
		Body:         r.Body,
		Status:       r.Status,
		NumApprovers: r.NumApprovers,
		Reviewers:    reviewers,
	}
}

func mapPreview(r previewJSON, kind model.ReferenceKind) model.LinkPreview {
	return model.LinkPreview{
		Kind:         kind,
		IID:          r.IID,
		Title:        r.Title,
		Description:  r.Description,
		State:        r.State,
		Merged:       r.State == "merged" || r.MergedAt != nil,
		SourceBranch: r.SourceBranch,
		TargetBranch: r.TargetBranch,
		WebURL:       r.WebURL,
		Labels:       r.Labels,
		CreatedAt:    r.CreatedAt,
	}
}

package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/glsidebar/internal/application"
	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// SetModeRequest is the JSON body for the view mode endpoint.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// SidebarResponse is the JSON representation of the active sidebar view.
type SidebarResponse struct {
	Mode       string         `json:"mode"`
	Title      string         `json:"title"`
	ListURL    string         `json:"list_url"`
	Connected  bool           `json:"connected"`
	Username   string         `json:"username"`
	EmptyLabel string         `json:"empty_label"`
	Items      []ItemResponse `json:"items"`
}

// ItemResponse is the JSON representation of a sidebar item.
type ItemResponse struct {
	ID             int64    `json:"id"`
	IID            int      `json:"iid"`
	ProjectID      int64    `json:"project_id"`
	SHA            string   `json:"sha"`
	Title          string   `json:"title"`
	URL            string   `json:"url"`
	State          string   `json:"state"`
	Author         string   `json:"author"`
	References     string   `json:"references,omitempty"`
	Labels         []string `json:"labels"`
	ActionName     string   `json:"action_name,omitempty"`
	TargetType     string   `json:"target_type,omitempty"`
	Body           string   `json:"body,omitempty"`
	Status         string   `json:"status,omitempty"`
	NumApprovers   int      `json:"num_approvers"`
	Reviewers      []string `json:"reviewers"`
	TotalReviewers int      `json:"total_reviewers"`
	CreatedAt      string   `json:"created_at,omitempty"`
	UpdatedAt      string   `json:"updated_at,omitempty"`
}

// UserResponse is the JSON representation of a resolved GitLab user.
type UserResponse struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	WebURL    string `json:"web_url"`
}

// LinkPreviewResponse pairs the parsed link with its preview, if any.
type LinkPreviewResponse struct {
	Reference model.LinkReference `json:"reference"`
	Preview   *PreviewResponse    `json:"preview"`
}

// PreviewResponse is the JSON representation of an issue or merge request tooltip.
type PreviewResponse struct {
	Owner        string        `json:"owner"`
	Repo         string        `json:"repo"`
	Type         string        `json:"type"`
	IID          int           `json:"iid"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	State        string        `json:"state"`
	Merged       bool          `json:"merged"`
	SourceBranch string        `json:"source_branch,omitempty"`
	TargetBranch string        `json:"target_branch,omitempty"`
	URL          string        `json:"url"`
	Labels       []model.Label `json:"labels"`
	BadgeIcon    string        `json:"badge_icon"`
	BadgeColor   string        `json:"badge_color"`
	CreatedAt    string        `json:"created_at,omitempty"`
}

// EventResponse is the JSON representation of a dispatched event.
type EventResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Mode       string `json:"mode,omitempty"`
	UserID     string `json:"user_id,omitempty"`
	Count      int    `json:"count"`
	OccurredAt string `json:"occurred_at"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// formatTime renders t as RFC3339 in UTC, or "" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// emptyIfNil returns a non-nil slice so JSON renders [] rather than null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func toSidebarResponse(v application.SidebarView) SidebarResponse {
	items := make([]ItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, toItemResponse(item))
	}

	return SidebarResponse{
		Mode:       string(v.Mode),
		Title:      v.Title,
		ListURL:    v.ListURL,
		Connected:  v.Connected,
		Username:   v.Username,
		EmptyLabel: v.EmptyLabel,
		Items:      items,
	}
}

func toItemResponse(item model.RemoteItem) ItemResponse {
	url := item.WebURL
	if url == "" {
		url = item.TargetURL
	}

	return ItemResponse{
		ID:             item.ID,
		IID:            item.IID,
		ProjectID:      item.ProjectID,
		SHA:            item.SHA,
		Title:          item.Title,
		URL:            url,
		State:          item.State,
		Author:         item.Author,
		References:     item.References,
		Labels:         emptyIfNil(item.Labels),
		ActionName:     item.ActionName,
		TargetType:     item.TargetType,
		Body:           item.Body,
		Status:         item.Status,
		NumApprovers:   item.NumApprovers,
		Reviewers:      emptyIfNil(item.Reviewers),
		TotalReviewers: item.TotalReviewers,
		CreatedAt:      formatTime(item.CreatedAt),
		UpdatedAt:      formatTime(item.UpdatedAt),
	}
}

func toUserResponse(p model.UserProfile) UserResponse {
	return UserResponse{
		UserID:    p.UserID,
		Username:  p.Username,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		WebURL:    p.WebURL,
	}
}

func toLinkPreviewResponse(r application.LinkPreviewResult) LinkPreviewResponse {
	resp := LinkPreviewResponse{Reference: r.Reference}
	if r.Preview == nil {
		return resp
	}

	p := r.Preview
	badge := p.Badge()
	resp.Preview = &PreviewResponse{
		Owner:        p.Owner,
		Repo:         p.Repo,
		Type:         string(p.Kind),
		IID:          p.IID,
		Title:        p.Title,
		Description:  p.Description,
		State:        p.State,
		Merged:       p.Merged,
		SourceBranch: p.SourceBranch,
		TargetBranch: p.TargetBranch,
		URL:          p.WebURL,
		Labels:       emptyIfNil(p.Labels),
		BadgeIcon:    badge.Icon,
		BadgeColor:   badge.Color,
		CreatedAt:    formatTime(p.CreatedAt),
	}
	return resp
}

func toEventResponse(e model.Event) EventResponse {
	return EventResponse{
		ID:         e.ID,
		Type:       string(e.Type),
		Mode:       string(e.Mode),
		UserID:     e.UserID,
		Count:      e.Count,
		OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339Nano),
	}
}

package application

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// DefaultGitLabURL is used for list links when the connection carries none.
const DefaultGitLabURL = "https://gitlab.com"

// SidebarView is the render-ready content for the active view mode.
type SidebarView struct {
	Mode       model.ViewMode
	Title      string
	ListURL    string
	Connected  bool
	Username   string
	Items      []model.RemoteItem
	EmptyLabel string
}

// BuildSidebarView assembles the title, "open in GitLab" link and items for
// mode. fallbackURL replaces the connection's GitLab URL when that is empty;
// if both are empty DefaultGitLabURL is used.
func BuildSidebarView(mode model.ViewMode, conn model.ConnectionInfo, items []model.RemoteItem, fallbackURL string) SidebarView {
	base := strings.TrimRight(conn.GitLabURL, "/")
	if base == "" {
		base = strings.TrimRight(fallbackURL, "/")
	}
	if base == "" {
		base = DefaultGitLabURL
	}

	orgQuery := "/dashboard"
	if conn.Organization != "" {
		orgQuery = fmt.Sprintf("/groups/%s/-", url.PathEscape(conn.Organization))
	}
	user := url.QueryEscape(conn.GitLabUsername)

	view := SidebarView{
		Mode:       mode,
		Connected:  conn.Connected,
		Username:   conn.GitLabUsername,
		Items:      items,
		EmptyLabel: "You have no active items",
	}
	if view.Items == nil {
		view.Items = []model.RemoteItem{}
	}

	switch mode {
	case model.ViewModePRs:
		view.Title = "Your Open Merge Requests"
		view.ListURL = fmt.Sprintf("%s%s/merge_requests?state=opened&author_username=%s", base, orgQuery, user)
	case model.ViewModeReviews:
		view.Title = "Merge Requests Needing Review"
		view.ListURL = fmt.Sprintf("%s%s/merge_requests?reviewer_username=%s", base, orgQuery, user)
	case model.ViewModeUnreads:
		view.Title = "Unread Messages"
		view.ListURL = base + "/dashboard/todos"
	case model.ViewModeAssignments:
		view.Title = "Your Assignments"
		view.ListURL = fmt.Sprintf("%s%s/issues?assignee_username=%s", base, orgQuery, user)
	}

	return view
}

// View builds the SidebarView for the active mode.
func (s *SidebarService) View(fallbackURL string) SidebarView {
	mode := s.Mode()
	return BuildSidebarView(mode, s.Connection(), s.Items(mode), fallbackURL)
}

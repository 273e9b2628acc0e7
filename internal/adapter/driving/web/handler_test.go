package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/glsidebar/internal/application"
	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

type mockSidebar struct {
	mode      model.ViewMode
	conn      model.ConnectionInfo
	items     []model.RemoteItem
	refreshed int
}

func (m *mockSidebar) View(fallbackURL string) application.SidebarView {
	return application.BuildSidebarView(m.mode, m.conn, m.items, fallbackURL)
}

func (m *mockSidebar) SetViewMode(_ context.Context, mode model.ViewMode) error {
	m.mode = mode
	return nil
}

func (m *mockSidebar) Refresh(_ context.Context) error {
	m.refreshed++
	return nil
}

type mockPreviewer struct {
	result application.LinkPreviewResult
	err    error
}

func (m *mockPreviewer) Preview(_ context.Context, _ string) (application.LinkPreviewResult, error) {
	return m.result, m.err
}

var fixedNow = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func setupWeb(sidebar *mockSidebar, previews *mockPreviewer) http.Handler {
	h := NewHandler(sidebar, previews, "https://gitlab.example.com", slog.Default())
	h.now = func() time.Time { return fixedNow }

	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	return mux
}

func connectedSidebar() *mockSidebar {
	return &mockSidebar{
		mode: model.ViewModeReviews,
		conn: model.ConnectionInfo{Connected: true, GitLabUsername: "jdoe"},
	}
}

func TestSidebarPage(t *testing.T) {
	sb := connectedSidebar()
	sb.items = []model.RemoteItem{
		{
			ID: 7, IID: 12, Title: "Fix <script>alert(1)</script>", WebURL: "https://gitlab.example.com/a/b/-/merge_requests/12",
			Author: "alice", References: "a/b!12", Labels: []string{"bug"}, Status: "success",
			NumApprovers: 1, TotalReviewers: 2, UpdatedAt: fixedNow.Add(-3 * time.Hour),
		},
	}

	rec := httptest.NewRecorder()
	setupWeb(sb, &mockPreviewer{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, "Merge Requests Needing Review")
	assert.Contains(t, body, `href="https://gitlab.example.com/dashboard/merge_requests?reviewer_username=jdoe"`)
	assert.Contains(t, body, `class="mode-button active">Reviews</button>`)
	assert.Contains(t, body, "Fix &lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, body, "<script>alert(1)")
	assert.Contains(t, body, "a/b!12")
	assert.Contains(t, body, "1/2 approved")
	assert.Contains(t, body, "3h ago")
	assert.Contains(t, body, "status-success")

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrfCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie, "csrf cookie should be set")
	assert.Contains(t, body, `value="`+cookie.Value+`"`)
}

func TestSidebarPage_States(t *testing.T) {
	t.Run("disconnected", func(t *testing.T) {
		sb := &mockSidebar{mode: model.ViewModePRs}
		rec := httptest.NewRecorder()
		setupWeb(sb, &mockPreviewer{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Contains(t, rec.Body.String(), "sidebar-disconnected")
	})

	t.Run("empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		setupWeb(connectedSidebar(), &mockPreviewer{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Contains(t, rec.Body.String(), "You have no active items")
	})

	t.Run("unsafe item url", func(t *testing.T) {
		sb := connectedSidebar()
		sb.items = []model.RemoteItem{{ID: 1, Title: "x", WebURL: "javascript:alert(1)"}}
		rec := httptest.NewRecorder()
		setupWeb(sb, &mockPreviewer{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotContains(t, rec.Body.String(), "javascript:alert")
	})
}

func postForm(handler http.Handler, target string, form url.Values, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: cookie})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSetMode(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		sb := connectedSidebar()
		rec := postForm(setupWeb(sb, &mockPreviewer{}), "/mode", url.Values{"mode": {"unreads"}, csrfFormField: {"tok"}}, "tok")

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		assert.Equal(t, model.ViewModeUnreads, sb.mode)
	})

	t.Run("missing csrf", func(t *testing.T) {
		sb := connectedSidebar()
		rec := postForm(setupWeb(sb, &mockPreviewer{}), "/mode", url.Values{"mode": {"unreads"}}, "tok")

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, model.ViewModeReviews, sb.mode)
	})

	t.Run("unknown mode", func(t *testing.T) {
		sb := connectedSidebar()
		rec := postForm(setupWeb(sb, &mockPreviewer{}), "/mode", url.Values{"mode": {"nope"}, csrfFormField: {"tok"}}, "tok")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRefresh(t *testing.T) {
	sb := connectedSidebar()
	rec := postForm(setupWeb(sb, &mockPreviewer{}), "/refresh", url.Values{csrfFormField: {"tok"}}, "tok")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, sb.refreshed)
}

func TestTooltip(t *testing.T) {
	previews := &mockPreviewer{result: application.LinkPreviewResult{
		Preview: &model.LinkPreview{
			Owner: "acme", Repo: "api", Kind: model.ReferenceKindMergeRequest, IID: 42,
			Title: "Add thing", Description: "# Heading\n\nDetails", State: "opened",
			SourceBranch: "feature", TargetBranch: "main",
			WebURL:    "https://gitlab.com/acme/api/-/merge_requests/42",
			CreatedAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			Labels: []model.Label{
				{Name: "bug", Color: "#ff0000", TextColor: "#FFFFFF"},
				{Name: "evil", Color: "red; background: url(x)"},
			},
		},
	}}

	rec := httptest.NewRecorder()
	setupWeb(connectedSidebar(), previews).ServeHTTP(rec,
		httptest.NewRequest(http.MethodGet, "/tooltip?href=https://gitlab.com/acme/api/-/merge_requests/42", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "acme/api")
	assert.Contains(t, body, `href="https://gitlab.com/acme/api"`)
	assert.Contains(t, body, "Add thing")
	assert.Contains(t, body, "!42")
	assert.Contains(t, body, "color: "+model.BadgeColorOpened)
	assert.Contains(t, body, "icon-git-pull-request")
	assert.Contains(t, body, "<p>Heading</p>")
	assert.NotContains(t, body, "<h1")
	assert.Contains(t, body, "background-color: #ff0000;color: #FFFFFF;")
	assert.NotContains(t, body, "url(x)")
	assert.Contains(t, body, "Opened on Jan 5, 2026")
}

func TestTooltip_NoPreview(t *testing.T) {
	tests := []struct {
		name     string
		previews *mockPreviewer
		target   string
		want     int
	}{
		{name: "missing href", previews: &mockPreviewer{}, target: "/tooltip", want: http.StatusBadRequest},
		{name: "not previewable", previews: &mockPreviewer{}, target: "/tooltip?href=https://gitlab.com/acme", want: http.StatusNoContent},
		{name: "fetch failed", previews: &mockPreviewer{err: errors.New("boom")}, target: "/tooltip?href=x", want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			setupWeb(connectedSidebar(), tt.previews).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestStaticAssets(t *testing.T) {
	rec := httptest.NewRecorder()
	setupWeb(connectedSidebar(), &mockPreviewer{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/sidebar.css", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".sidebar")
}

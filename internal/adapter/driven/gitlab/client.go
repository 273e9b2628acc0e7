// Package gitlab implements the GitLabClient port against the GitLab plugin
// server API.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
	"github.com/ericfisherdev/glsidebar/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitLabClient = (*Client)(nil)

// requestTimeout bounds a single plugin API call alongside context cancellation.
const requestTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is kept as the error message.
const maxErrorBody = 4 << 10

// Client implements the driven.GitLabClient port over plain HTTP+JSON.
type Client struct {
	http    *http.Client
	baseURL string // Plugin route with the /api/v1 suffix.
	token   string
}

// NewClient creates a plugin API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (sleeps on 429 and secondary rate limits)
//  3. net/http with a per-request timeout
func NewClient(pluginURL, token string) (*Client, error) {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	httpClient := github_ratelimit.NewClient(cacheTransport)
	httpClient.Timeout = requestTimeout

	return NewClientWithHTTPClient(httpClient, pluginURL, token)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client. Tests
// use it to point the client at an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, pluginURL, token string) (*Client, error) {
	u, err := url.Parse(pluginURL)
	if err != nil {
		return nil, fmt.Errorf("parsing plugin URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("plugin URL %q must be absolute", pluginURL)
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(u.String(), "/") + "/api/v1",
		token:   token,
	}, nil
}

// FetchConnected returns the account link state. reminder asks the server to
// send the daily reminder when one is due.
func (c *Client) FetchConnected(ctx context.Context, reminder bool) (model.ConnectionInfo, error) {
	var info model.ConnectionInfo
	query := url.Values{"reminder": {strconv.FormatBool(reminder)}}

	if err := c.get(ctx, "/connected", query, &info); err != nil {
		return model.ConnectionInfo{}, fmt.Errorf("fetching connection state: %w", err)
	}
	return info, nil
}

// FetchReviews returns merge requests awaiting the user's review.
func (c *Client) FetchReviews(ctx context.Context) ([]model.RemoteItem, error) {
	return c.fetchList(ctx, "/reviews")
}

// FetchYourPRs returns the user's open merge requests.
func (c *Client) FetchYourPRs(ctx context.Context) ([]model.RemoteItem, error) {
	return c.fetchList(ctx, "/yourprs")
}

// FetchYourAssignments returns issues assigned to the user.
func (c *Client) FetchYourAssignments(ctx context.Context) ([]model.RemoteItem, error) {
	return c.fetchList(ctx, "/yourassignments")
}

// FetchUnreads returns the user's pending todos.
func (c *Client) FetchUnreads(ctx context.Context) ([]model.RemoteItem, error) {
	return c.fetchList(ctx, "/unreads")
}

// FetchPRDetails posts the identity batch and returns one detail record per
// item the server could resolve.
func (c *Client) FetchPRDetails(ctx context.Context, ids []model.ItemIdentity) ([]model.RemoteItem, error) {
	if ids == nil {
		ids = []model.ItemIdentity{}
	}

	var raw []itemJSON
	if err := c.post(ctx, "/prdetails", ids, &raw); err != nil {
		return nil, fmt.Errorf("fetching details for %d items: %w", len(ids), err)
	}

	return mapItems(raw), nil
}

// FetchUser resolves a GitLab user id to a profile.
func (c *Client) FetchUser(ctx context.Context, userID string) (model.UserProfile, error) {
	var raw userJSON
	if err := c.post(ctx, "/user", map[string]string{"user_id": userID}, &raw); err != nil {
		return model.UserProfile{}, fmt.Errorf("fetching user %s: %w", userID, err)
	}

	return model.UserProfile{
		UserID:    userID,
		Username:  raw.Username,
		Name:      raw.Name,
		AvatarURL: raw.AvatarURL,
		WebURL:    raw.WebURL,
	}, nil
}

// FetchIssue returns the preview data for an issue.
func (c *Client) FetchIssue(ctx context.Context, owner, repo, number string) (*model.LinkPreview, error) {
	return c.fetchPreview(ctx, "/issue", model.ReferenceKindIssue, owner, repo, number)
}

// FetchMergeRequest returns the preview data for a merge request.
func (c *Client) FetchMergeRequest(ctx context.Context, owner, repo, number string) (*model.LinkPreview, error) {
	return c.fetchPreview(ctx, "/mergerequest", model.ReferenceKindMergeRequest, owner, repo, number)
}

func (c *Client) fetchList(ctx context.Context, path string) ([]model.RemoteItem, error) {
	var raw []itemJSON
	if err := c.get(ctx, path, nil, &raw); err != nil {
		return nil, fmt.Errorf("listing %s: %w", strings.TrimPrefix(path, "/"), err)
	}
	return mapItems(raw), nil
}

func (c *Client) fetchPreview(ctx context.Context, path string, kind model.ReferenceKind, owner, repo, number string) (*model.LinkPreview, error) {
	query := url.Values{
		"owner":  {owner},
		"repo":   {repo},
		"number": {number},
	}

	var raw previewJSON
	if err := c.get(ctx, path, query, &raw); err != nil {
		return nil, fmt.Errorf("fetching %s %s/%s#%s: %w", kind, owner, repo, number, err)
	}

	preview := mapPreview(raw, kind)
	return &preview, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, path, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

// do sends req and decodes a 2xx JSON body into out. Non-2xx responses and
// 2xx bodies carrying the not-connected id become *driven.StatusError.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Timezone-Offset", timezoneOffset(time.Now()))
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	slog.Debug("gitlab plugin api call",
		"method", req.Method,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"bytes", len(body),
		"cached", resp.Header.Get(httpcache.XFromCache) == "1",
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, req.URL.String(), body)
	}

	if apiErr, ok := decodeAPIError(body); ok && apiErr.ID == "not_connected" {
		return &driven.StatusError{
			StatusCode: resp.StatusCode,
			ID:         apiErr.ID,
			Message:    apiErr.Message,
			URL:        req.URL.String(),
		}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

// apiError is the error envelope the plugin server writes.
type apiError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func decodeAPIError(body []byte) (apiError, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return apiError{}, false
	}

	var e apiError
	if err := json.Unmarshal(trimmed, &e); err != nil {
		return apiError{}, false
	}
	return e, e.ID != "" || e.Message != ""
}

func newStatusError(status int, target string, body []byte) error {
	se := &driven.StatusError{StatusCode: status, URL: target}

	if e, ok := decodeAPIError(body); ok {
		se.ID = e.ID
		se.Message = e.Message
		return se
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	se.Message = msg
	return se
}

// timezoneOffset formats the local offset the way browsers report it: minutes
// behind UTC.
func timezoneOffset(now time.Time) string {
	_, offset := now.Zone()
	return strconv.Itoa(-offset / 60)
}

package application_test

import (
	"context"
	"sync"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// --- Mock implementations ---

type mockGitLabClient struct {
	mu sync.Mutex

	connected   model.ConnectionInfo
	connErr     error
	lists       map[model.ViewMode][]model.RemoteItem
	listErrs    map[model.ViewMode]error
	details     []model.RemoteItem
	detailsErr  error
	detailCalls [][]model.ItemIdentity

	fetchUser  func(ctx context.Context, userID string) (model.UserProfile, error)
	fetchIssue func(ctx context.Context, owner, repo, number string) (*model.LinkPreview, error)
	fetchMR    func(ctx context.Context, owner, repo, number string) (*model.LinkPreview, error)
}

func newMockGitLabClient() *mockGitLabClient {
	return &mockGitLabClient{
		connected: model.ConnectionInfo{Connected: true, GitLabUsername: "jdoe"},
		lists:     make(map[model.ViewMode][]model.RemoteItem),
		listErrs:  make(map[model.ViewMode]error),
	}
}

func (m *mockGitLabClient) setList(mode model.ViewMode, items []model.RemoteItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[mode] = items
}

func (m *mockGitLabClient) detailCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.detailCalls)
}

func (m *mockGitLabClient) FetchConnected(_ context.Context, _ bool) (model.ConnectionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected, m.connErr
}

func (m *mockGitLabClient) list(mode model.ViewMode) ([]model.RemoteItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lists[mode], m.listErrs[mode]
}

func (m *mockGitLabClient) FetchReviews(_ context.Context) ([]model.RemoteItem, error) {
	return m.list(model.ViewModeReviews)
}

func (m *mockGitLabClient) FetchYourPRs(_ context.Context) ([]model.RemoteItem, error) {
	return m.list(model.ViewModePRs)
}

func (m *mockGitLabClient) FetchYourAssignments(_ context.Context) ([]model.RemoteItem, error) {
	return m.list(model.ViewModeAssignments)
}

func (m *mockGitLabClient) FetchUnreads(_ context.Context) ([]model.RemoteItem, error) {
	return m.list(model.ViewModeUnreads)
}

func (m *mockGitLabClient) FetchPRDetails(_ context.Context, ids []model.ItemIdentity) ([]model.RemoteItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detailCalls = append(m.detailCalls, ids)
	return m.details, m.detailsErr
}

func (m *mockGitLabClient) FetchUser(ctx context.Context, userID string) (model.UserProfile, error) {
	return m.fetchUser(ctx, userID)
}

func (m *mockGitLabClient) FetchIssue(ctx context.Context, owner, repo, number string) (*model.LinkPreview, error) {
	return m.fetchIssue(ctx, owner, repo, number)
}

func (m *mockGitLabClient) FetchMergeRequest(ctx context.Context, owner, repo, number string) (*model.LinkPreview, error) {
	return m.fetchMR(ctx, owner, repo, number)
}

type mockUserStore struct {
	profiles map[string]model.UserProfile
	puts     []model.UserProfile
	getErr   error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{profiles: make(map[string]model.UserProfile)}
}

func (m *mockUserStore) Get(_ context.Context, userID string) (*model.UserProfile, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *mockUserStore) Put(_ context.Context, profile model.UserProfile) error {
	m.puts = append(m.puts, profile)
	m.profiles[profile.UserID] = profile
	return nil
}

type mockEventSink struct {
	mu     sync.Mutex
	events []model.Event
}

func (m *mockEventSink) Publish(_ context.Context, event model.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

func (m *mockEventSink) types() []model.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.EventType, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

type staticConnection struct {
	conn model.ConnectionInfo
}

func (s staticConnection) Connection() model.ConnectionInfo {
	return s.conn
}

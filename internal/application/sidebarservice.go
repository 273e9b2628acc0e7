package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
	"github.com/ericfisherdev/glsidebar/internal/domain/port/driven"
)

// listSource binds a view mode to the call that fetches its list.
type listSource struct {
	mode        model.ViewMode
	listEvent   model.EventType
	detailEvent model.EventType
	fetch       func(ctx context.Context) ([]model.RemoteItem, error)
}

// detailSnapshot is what the staleness check compared against last time.
type detailSnapshot struct {
	items []model.RemoteItem
	mode  model.ViewMode
}

// modeRequest is a view mode change submitted to the event loop.
type modeRequest struct {
	mode model.ViewMode
	done chan error
}

// SidebarService owns the sidebar lists and runs every state change on a
// single event loop: periodic list refreshes, manual refreshes and view mode
// changes. After each change it runs NeedsRefetch for the modes with details
// and issues one batched detail request per positive decision.
type SidebarService struct {
	client   driven.GitLabClient
	events   driven.EventSink
	interval time.Duration
	sources  []listSource

	mu         sync.RWMutex
	connection model.ConnectionInfo
	mode       model.ViewMode
	lists      map[model.ViewMode][]model.RemoteItem
	details    map[model.ViewMode][]model.RemoteItem

	// Touched only from the event loop.
	snapshots map[model.ViewMode]detailSnapshot

	modeCh    chan modeRequest
	refreshCh chan chan error
}

// NewSidebarService creates a SidebarService showing initialMode.
func NewSidebarService(client driven.GitLabClient, events driven.EventSink, initialMode model.ViewMode, interval time.Duration) *SidebarService {
	s := &SidebarService{
		client:     client,
		events:     events,
		interval:   interval,
		connection: model.ConnectionInfo{Settings: model.DefaultUserSettings()},
		mode:       initialMode,
		lists:      make(map[model.ViewMode][]model.RemoteItem),
		details:    make(map[model.ViewMode][]model.RemoteItem),
		snapshots:  make(map[model.ViewMode]detailSnapshot),
		modeCh:     make(chan modeRequest),
		refreshCh:  make(chan chan error),
	}

	s.sources = []listSource{
		{mode: model.ViewModePRs, listEvent: model.EventReceivedYourPRs, detailEvent: model.EventReceivedYourPRDetails, fetch: client.FetchYourPRs},
		{mode: model.ViewModeReviews, listEvent: model.EventReceivedReviews, detailEvent: model.EventReceivedReviewDetails, fetch: client.FetchReviews},
		{mode: model.ViewModeAssignments, listEvent: model.EventReceivedAssignments, fetch: client.FetchYourAssignments},
		{mode: model.ViewModeUnreads, listEvent: model.EventReceivedUnreads, fetch: client.FetchUnreads},
	}

	return s
}

// Start runs the event loop. It refreshes immediately, then on every
// interval tick, and serves mode changes and manual refreshes in between.
// Start blocks until the context is canceled.
func (s *SidebarService) Start(ctx context.Context) {
	if err := s.refreshAll(ctx, false); err != nil {
		slog.Error("initial sidebar refresh failed", "error", err)
	}
	s.syncDetails(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("sidebar service stopped")
			return
		case <-ticker.C:
			if err := s.refreshAll(ctx, true); err != nil {
				slog.Error("sidebar refresh failed", "error", err)
			}
			s.syncDetails(ctx)
		case done := <-s.refreshCh:
			err := s.refreshAll(ctx, false)
			s.syncDetails(ctx)
			done <- err
		case req := <-s.modeCh:
			s.applyMode(ctx, req.mode)
			s.syncDetails(ctx)
			req.done <- nil
		}
	}
}

// SetViewMode switches the active view mode. It blocks until the event loop
// has applied the change and any detail fetch it triggered.
func (s *SidebarService) SetViewMode(ctx context.Context, mode model.ViewMode) error {
	done := make(chan error, 1)

	select {
	case s.modeCh <- modeRequest{mode: mode, done: done}:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh re-fetches the connection state and every list, bypassing the
// interval. It blocks until the refresh completes.
func (s *SidebarService) Refresh(ctx context.Context) error {
	done := make(chan error, 1)

	select {
	case s.refreshCh <- done:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Mode returns the active view mode.
func (s *SidebarService) Mode() model.ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Connection returns the last known connection state.
func (s *SidebarService) Connection() model.ConnectionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connection
}

// Items returns the list for mode, joined with its detail records when the
// mode has details.
func (s *SidebarService) Items(mode model.ViewMode) []model.RemoteItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.lists[mode]
	if !mode.HasDetails() {
		out := make([]model.RemoteItem, len(items))
		copy(out, items)
		return out
	}

	return JoinDetails(items, s.details[mode])
}

// refreshAll fetches the connection state and, when connected, every list.
// A list fetch failure keeps the previous list for that mode.
func (s *SidebarService) refreshAll(ctx context.Context, reminder bool) error {
	start := time.Now()

	conn, err := s.client.FetchConnected(ctx, reminder)
	if err != nil {
		s.handleNotConnected(ctx, err)
		return fmt.Errorf("fetch connection: %w", err)
	}
	s.setConnection(ctx, conn)

	if !conn.Connected {
		slog.Info("gitlab account not connected, skipping list refresh")
		return nil
	}

	var listErrors int
	for _, src := range s.sources {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		items, err := src.fetch(ctx)
		if err != nil {
			if s.handleNotConnected(ctx, err) {
				return err
			}
			slog.Error("list fetch failed", "mode", src.mode, "error", err)
			listErrors++
			continue
		}

		if items == nil {
			items = []model.RemoteItem{}
		}

		s.mu.Lock()
		s.lists[src.mode] = items
		s.mu.Unlock()

		s.publish(ctx, src.listEvent, src.mode, len(items))
	}

	slog.Info("sidebar refreshed",
		"lists", len(s.sources),
		"errors", listErrors,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return nil
}

// applyMode records a view mode change and reports it.
func (s *SidebarService) applyMode(ctx context.Context, mode model.ViewMode) {
	s.mu.Lock()
	prev := s.mode
	s.mode = mode
	s.mu.Unlock()

	slog.Debug("view mode changed", "from", prev, "to", mode)
	s.publish(ctx, model.EventUpdatedViewMode, mode, 0)
}

// syncDetails runs the staleness check for every mode with details and
// fetches the detail batch where it reports stale data. The snapshot is
// updated on every evaluation, so previous always means "as of the last
// check".
func (s *SidebarService) syncDetails(ctx context.Context) {
	for _, src := range s.sources {
		if !src.mode.HasDetails() {
			continue
		}

		s.mu.RLock()
		current := s.lists[src.mode]
		currentMode := s.mode
		connected := s.connection.Connected
		s.mu.RUnlock()

		prev := s.snapshots[src.mode]
		stale := NeedsRefetch(current, prev.items, src.mode, currentMode, prev.mode)
		s.snapshots[src.mode] = detailSnapshot{items: current, mode: currentMode}

		slog.Debug("detail staleness checked",
			"mode", src.mode,
			"active_mode", currentMode,
			"items", len(current),
			"previous_items", len(prev.items),
			"stale", stale,
		)

		if !stale || !connected || len(current) == 0 {
			continue
		}

		s.fetchDetails(ctx, src, current)
	}
}

// fetchDetails requests detail records for items in one batch and replaces
// the stored details for the mode.
func (s *SidebarService) fetchDetails(ctx context.Context, src listSource, items []model.RemoteItem) {
	details, err := s.client.FetchPRDetails(ctx, DetailRequest(items))
	if err != nil {
		if !s.handleNotConnected(ctx, err) {
			slog.Error("detail fetch failed", "mode", src.mode, "items", len(items), "error", err)
		}
		return
	}

	s.mu.Lock()
	s.details[src.mode] = details
	s.mu.Unlock()

	s.publish(ctx, src.detailEvent, src.mode, len(details))
}

// handleNotConnected applies the disconnected state when err carries the
// not-connected signal and reports whether it did.
func (s *SidebarService) handleNotConnected(ctx context.Context, err error) bool {
	if !errors.Is(err, driven.ErrNotConnected) {
		return false
	}

	slog.Warn("gitlab account reported not connected")
	s.setConnection(ctx, model.Disconnected())
	return true
}

func (s *SidebarService) setConnection(ctx context.Context, conn model.ConnectionInfo) {
	s.mu.Lock()
	s.connection = conn
	s.mu.Unlock()

	s.publish(ctx, model.EventReceivedConnected, model.ViewModeNone, 0)
}

func (s *SidebarService) publish(ctx context.Context, typ model.EventType, mode model.ViewMode, count int) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, newEvent(typ, mode, "", count))
}

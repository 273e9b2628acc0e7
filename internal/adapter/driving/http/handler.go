// Package httphandler is the JSON API driving adapter.
package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ericfisherdev/glsidebar/internal/application"
	"github.com/ericfisherdev/glsidebar/internal/domain/model"
	"github.com/ericfisherdev/glsidebar/internal/domain/port/driven"
)

// Sidebar is the subset of the sidebar service the API drives.
type Sidebar interface {
	View(fallbackURL string) application.SidebarView
	SetViewMode(ctx context.Context, mode model.ViewMode) error
	Refresh(ctx context.Context) error
}

// UserLookup resolves GitLab user ids through the cache.
type UserLookup interface {
	GetUser(ctx context.Context, userID string) (*model.UserProfile, error)
}

// LinkPreviewer builds tooltip previews for GitLab links.
type LinkPreviewer interface {
	Preview(ctx context.Context, href string) (application.LinkPreviewResult, error)
}

// EventHistory exposes recently dispatched events and a live feed of new ones.
type EventHistory interface {
	Recent() []model.Event
	Subscribe() (<-chan model.Event, func())
}

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	sidebar   Sidebar
	users     UserLookup
	previews  LinkPreviewer
	events    EventHistory
	gitlabURL string
	logger    *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. events may be
// nil, in which case the events endpoint returns an empty list.
func NewHandler(
	sidebar Sidebar,
	users UserLookup,
	previews LinkPreviewer,
	events EventHistory,
	gitlabURL string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sidebar:   sidebar,
		users:     users,
		previews:  previews,
		events:    events,
		gitlabURL: gitlabURL,
		logger:    logger,
	}
}

// RegisterRoutes adds the API routes to mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/sidebar", h.GetSidebar)
	mux.HandleFunc("PUT /api/v1/sidebar/mode", h.SetViewMode)
	mux.HandleFunc("POST /api/v1/sidebar/refresh", h.Refresh)
	mux.HandleFunc("GET /api/v1/users/{id}", h.GetUser)
	mux.HandleFunc("GET /api/v1/links/preview", h.PreviewLink)
	mux.HandleFunc("GET /api/v1/events", h.ListEvents)
	mux.HandleFunc("GET /api/v1/events/stream", h.StreamEvents)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with request id, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, h)
	return Wrap(mux, logger)
}

// Wrap applies the standard middleware chain to next.
func Wrap(next http.Handler, logger *slog.Logger) http.Handler {
	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, next)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// GetSidebar returns the view for the active mode.
func (h *Handler) GetSidebar(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toSidebarResponse(h.sidebar.View(h.gitlabURL)))
}

// SetViewMode switches the active view mode and returns the new view.
func (h *Handler) SetViewMode(w http.ResponseWriter, r *http.Request) {
	var req SetModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mode, err := model.ParseViewMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.sidebar.SetViewMode(r.Context(), mode); err != nil {
		h.logger.Error("failed to set view mode", "mode", mode, "error", err)
		writeError(w, http.StatusServiceUnavailable, "sidebar service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, toSidebarResponse(h.sidebar.View(h.gitlabURL)))
}

// Refresh re-fetches every list now. A not-connected response is a valid
// outcome and returns the disconnected view.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	err := h.sidebar.Refresh(r.Context())
	if err != nil && !errors.Is(err, driven.ErrNotConnected) {
		h.logger.Error("sidebar refresh failed", "error", err)
		writeError(w, http.StatusBadGateway, "refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, toSidebarResponse(h.sidebar.View(h.gitlabURL)))
}

// GetUser resolves a GitLab user id. The empty result (unknown id, or a
// recent failed lookup) is 204.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PathValue("id"))

	profile, err := h.users.GetUser(r.Context(), userID)
	switch {
	case errors.Is(err, driven.ErrNotFound):
		writeError(w, http.StatusNotFound, "user not found")
		return
	case errors.Is(err, driven.ErrNotConnected):
		writeError(w, http.StatusUnauthorized, "gitlab account not connected")
		return
	case err != nil:
		h.logger.Error("user lookup failed", "user_id", userID, "error", err)
		writeError(w, http.StatusBadGateway, "user lookup failed")
		return
	}

	if profile == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(*profile))
}

// PreviewLink parses href and returns its reference plus, when available,
// the issue or merge request preview.
func (h *Handler) PreviewLink(w http.ResponseWriter, r *http.Request) {
	href := r.URL.Query().Get("href")
	if href == "" {
		writeError(w, http.StatusBadRequest, "missing href")
		return
	}

	result, err := h.previews.Preview(r.Context(), href)
	if err != nil {
		if errors.Is(err, driven.ErrNotFound) {
			writeJSON(w, http.StatusOK, toLinkPreviewResponse(result))
			return
		}
		h.logger.Error("link preview failed", "href", href, "error", err)
		writeError(w, http.StatusBadGateway, "preview failed")
		return
	}

	writeJSON(w, http.StatusOK, toLinkPreviewResponse(result))
}

// ListEvents returns the recently dispatched events, oldest first.
func (h *Handler) ListEvents(w http.ResponseWriter, _ *http.Request) {
	resp := []EventResponse{}
	if h.events != nil {
		for _, e := range h.events.Recent() {
			resp = append(resp, toEventResponse(e))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// StreamEvents sends events as they are dispatched, as server-sent events,
// until the client disconnects.
func (h *Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		writeError(w, http.StatusNotFound, "event stream unavailable")
		return
	}

	events, cancel := h.events.Subscribe()
	defer cancel()

	rc := http.NewResponseController(w)
	// The stream outlives the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_ = rc.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(toEventResponse(e))
			if err != nil {
				h.logger.Error("failed to encode event", "id", e.ID, "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", e.ID, e.Type, data); err != nil {
				return
			}
			_ = rc.Flush()
		}
	}
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

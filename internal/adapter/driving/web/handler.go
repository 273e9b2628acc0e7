// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/glsidebar/internal/application"
	"github.com/ericfisherdev/glsidebar/internal/domain/model"
	"github.com/ericfisherdev/glsidebar/internal/domain/port/driven"
)

// Sidebar is the subset of the sidebar service the GUI drives.
type Sidebar interface {
	View(fallbackURL string) application.SidebarView
	SetViewMode(ctx context.Context, mode model.ViewMode) error
	Refresh(ctx context.Context) error
}

// LinkPreviewer builds tooltip previews for GitLab links.
type LinkPreviewer interface {
	Preview(ctx context.Context, href string) (application.LinkPreviewResult, error)
}

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	sidebar   Sidebar
	previews  LinkPreviewer
	gitlabURL string
	logger    *slog.Logger
	now       func() time.Time
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(sidebar Sidebar, previews LinkPreviewer, gitlabURL string, logger *slog.Logger) *Handler {
	return &Handler{
		sidebar:   sidebar,
		previews:  previews,
		gitlabURL: gitlabURL,
		logger:    logger,
		now:       time.Now,
	}
}

// Sidebar renders the full sidebar page for the active view mode.
func (h *Handler) Sidebar(w http.ResponseWriter, r *http.Request) {
	token := csrfToken(w, r)
	view := h.sidebar.View(h.gitlabURL)

	page := Layout("GitLab", SidebarPage(toSidebarViewModel(view, token, h.now())))
	h.render(w, r, page, "sidebar")
}

// SetMode handles the mode selector form and redirects back to the page.
func (h *Handler) SetMode(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	mode, err := model.ParseViewMode(r.FormValue("mode"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.sidebar.SetViewMode(r.Context(), mode); err != nil {
		h.logger.Error("failed to set view mode", "mode", mode, "error", err)
		http.Error(w, "sidebar service unavailable", http.StatusServiceUnavailable)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Refresh handles the refresh form. Fetch failures are logged; the page
// shows whatever state the refresh left behind.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}

	if err := h.sidebar.Refresh(r.Context()); err != nil && !errors.Is(err, driven.ErrNotConnected) {
		h.logger.Warn("sidebar refresh failed", "error", err)
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Tooltip renders the preview fragment for href. Links without a preview
// get 204 and no body.
func (h *Handler) Tooltip(w http.ResponseWriter, r *http.Request) {
	href := r.URL.Query().Get("href")
	if href == "" {
		http.Error(w, "missing href", http.StatusBadRequest)
		return
	}

	result, err := h.previews.Preview(r.Context(), href)
	if err != nil {
		if driven.IsTransient(err) {
			h.logger.Warn("link preview failed", "href", href, "error", err)
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if result.Preview == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.render(w, r, Tooltip(toTooltipViewModel(*result.Preview)), "tooltip")
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render "+name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

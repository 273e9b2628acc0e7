package web

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/glsidebar/internal/adapter/driving/web/viewmodel"
)

// htmlWriter writes markup and keeps the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

// text writes s HTML-escaped. Safe in element content and quoted attributes.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// url writes s as an href value, replacing unsafe schemes.
func (hw *htmlWriter) url(s string) {
	hw.text(string(templ.URL(s)))
}

func (hw *htmlWriter) component(ctx context.Context, c templ.Component) {
	if hw.err == nil {
		hw.err = c.Render(ctx, hw.w)
	}
}

// Layout wraps body in the HTML document shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		hw.text(title)
		hw.raw(`</title><link rel="stylesheet" href="/static/sidebar.css"></head><body>`)
		hw.component(ctx, body)
		hw.raw(`</body></html>`)
		return hw.err
	})
}

// SidebarPage renders the mode selector, header and item list.
func SidebarPage(v vm.SidebarViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<div class="sidebar">`)

		hw.raw(`<nav class="sidebar-modes">`)
		for _, m := range v.Modes {
			hw.raw(`<form method="post" action="/mode">`)
			csrfField(hw, v.CSRFToken)
			hw.raw(`<input type="hidden" name="mode" value="`)
			hw.text(m.Mode)
			hw.raw(`"><button type="submit" class="mode-button`)
			if m.Active {
				hw.raw(` active`)
			}
			hw.raw(`">`)
			hw.text(m.Label)
			hw.raw(`</button></form>`)
		}
		hw.raw(`</nav>`)

		hw.raw(`<header class="sidebar-header">`)
		if v.ListURL != "" {
			hw.raw(`<a class="sidebar-title" target="_blank" rel="noopener noreferrer" href="`)
			hw.url(v.ListURL)
			hw.raw(`">`)
			hw.text(v.Title)
			hw.raw(`</a>`)
		} else {
			hw.raw(`<span class="sidebar-title">`)
			hw.text(v.Title)
			hw.raw(`</span>`)
		}
		hw.raw(`<form method="post" action="/refresh">`)
		csrfField(hw, v.CSRFToken)
		hw.raw(`<button type="submit" class="refresh-button">Refresh</button></form></header>`)

		switch {
		case !v.Connected:
			hw.raw(`<p class="sidebar-disconnected">Connect your GitLab account to see your merge requests, reviews and todos.</p>`)
		case len(v.Items) == 0:
			hw.raw(`<p class="sidebar-empty">`)
			hw.text(v.EmptyLabel)
			hw.raw(`</p>`)
		default:
			hw.raw(`<ul class="sidebar-items">`)
			for _, item := range v.Items {
				hw.component(ctx, ItemCard(item))
			}
			hw.raw(`</ul>`)
		}

		hw.raw(`</div>`)
		return hw.err
	})
}

// ItemCard renders one sidebar entry.
func ItemCard(item vm.ItemViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<li class="item" data-id="`)
		hw.raw(strconv.FormatInt(item.ID, 10))
		hw.raw(`">`)

		if item.IsTodo && item.Action != "" {
			hw.raw(`<div class="item-action">`)
			hw.text(item.Action)
			hw.raw(`</div>`)
		}

		hw.raw(`<a class="item-title" target="_blank" rel="noopener noreferrer" href="`)
		hw.url(item.URL)
		hw.raw(`">`)
		hw.text(item.Title)
		hw.raw(`</a>`)

		if item.StatusClass != "" {
			hw.raw(`<span class="item-status `)
			hw.text(item.StatusClass)
			hw.raw(`" title="Pipeline `)
			hw.text(item.Status)
			hw.raw(`"></span>`)
		}

		hw.raw(`<div class="item-meta">`)
		if item.Reference != "" {
			hw.raw(`<span class="item-ref">`)
			hw.text(item.Reference)
			hw.raw(`</span>`)
		}
		if item.Author != "" {
			hw.raw(` by <span class="item-author">`)
			hw.text(item.Author)
			hw.raw(`</span>`)
		}
		if item.Age != "" {
			hw.raw(` <span class="item-age">`)
			hw.text(item.Age)
			hw.raw(`</span>`)
		}
		if item.Approvals != "" {
			hw.raw(` <span class="item-approvals">`)
			hw.text(item.Approvals)
			hw.raw(`</span>`)
		}
		hw.raw(`</div>`)

		if len(item.Labels) > 0 {
			hw.raw(`<div class="item-labels">`)
			for _, l := range item.Labels {
				hw.raw(`<span class="label">`)
				hw.text(l)
				hw.raw(`</span>`)
			}
			hw.raw(`</div>`)
		}

		if item.BodyHTML != "" {
			// BodyHTML is sanitized by RenderMarkdown.
			hw.raw(`<div class="item-body">`)
			hw.raw(item.BodyHTML)
			hw.raw(`</div>`)
		}

		hw.raw(`</li>`)
		return hw.err
	})
}

// Tooltip renders the link preview fragment.
func Tooltip(t vm.TooltipViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw(`<div class="gitlab-tooltip"><div class="tooltip-header">`)
		hw.raw(`<span class="tooltip-badge icon-`)
		hw.text(t.BadgeIcon)
		hw.raw(`"`)
		if t.BadgeColor != "" {
			hw.raw(` style="color: `)
			hw.text(t.BadgeColor)
			hw.raw(`"`)
		}
		hw.raw(`></span><a class="tooltip-repo" target="_blank" rel="noopener noreferrer" href="`)
		hw.url(t.RepoURL)
		hw.raw(`">`)
		hw.text(t.Owner + "/" + t.Repo)
		hw.raw(`</a></div>`)

		hw.raw(`<div class="tooltip-body"><h5 class="tooltip-title"><a target="_blank" rel="noopener noreferrer" href="`)
		hw.url(t.URL)
		hw.raw(`">`)
		hw.text(t.Title)
		hw.raw(`</a> <span class="tooltip-number">`)
		if t.IsMergeRequest {
			hw.raw(`!`)
		} else {
			hw.raw(`#`)
		}
		hw.raw(strconv.Itoa(t.IID))
		hw.raw(`</span></h5>`)

		if t.DescriptionHTML != "" {
			// DescriptionHTML is sanitized by RenderPreviewMarkdown.
			hw.raw(`<div class="tooltip-description">`)
			hw.raw(t.DescriptionHTML)
			hw.raw(`</div>`)
		}

		if t.IsMergeRequest && t.SourceBranch != "" {
			hw.raw(`<div class="tooltip-branches"><span class="branch">`)
			hw.text(t.TargetBranch)
			hw.raw(`</span> &larr; <span class="branch">`)
			hw.text(t.SourceBranch)
			hw.raw(`</span></div>`)
		}

		if len(t.Labels) > 0 {
			hw.raw(`<div class="tooltip-labels">`)
			for _, l := range t.Labels {
				hw.raw(`<span class="label"`)
				if l.Description != "" {
					hw.raw(` title="`)
					hw.text(l.Description)
					hw.raw(`"`)
				}
				if l.BackgroundColor != "" || l.TextColor != "" {
					hw.raw(` style="`)
					if l.BackgroundColor != "" {
						hw.raw(`background-color: `)
						hw.text(l.BackgroundColor)
						hw.raw(`;`)
					}
					if l.TextColor != "" {
						hw.raw(`color: `)
						hw.text(l.TextColor)
						hw.raw(`;`)
					}
					hw.raw(`"`)
				}
				hw.raw(`>`)
				hw.text(l.Name)
				hw.raw(`</span>`)
			}
			hw.raw(`</div>`)
		}

		if t.OpenedOn != "" {
			hw.raw(`<div class="tooltip-date">`)
			hw.text(t.OpenedOn)
			hw.raw(`</div>`)
		}

		hw.raw(`</div></div>`)
		return hw.err
	})
}

func csrfField(hw *htmlWriter, token string) {
	hw.raw(`<input type="hidden" name="` + csrfFormField + `" value="`)
	hw.text(token)
	hw.raw(`">`)
}

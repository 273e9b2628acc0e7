package web

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	vm "github.com/ericfisherdev/glsidebar/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/glsidebar/internal/application"
	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// modeLabels are the selector button captions.
var modeLabels = map[model.ViewMode]string{
	model.ViewModePRs:         "Your merge requests",
	model.ViewModeReviews:     "Reviews",
	model.ViewModeUnreads:     "Todos",
	model.ViewModeAssignments: "Assignments",
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// toSidebarViewModel converts the application view into the page view model.
func toSidebarViewModel(v application.SidebarView, csrfToken string, now time.Time) vm.SidebarViewModel {
	modes := make([]vm.ModeButtonViewModel, 0, len(model.ViewModes))
	for _, m := range model.ViewModes {
		modes = append(modes, vm.ModeButtonViewModel{
			Mode:   string(m),
			Label:  modeLabels[m],
			Active: m == v.Mode,
		})
	}

	items := make([]vm.ItemViewModel, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, toItemViewModel(item, now))
	}

	return vm.SidebarViewModel{
		Title:      v.Title,
		ListURL:    v.ListURL,
		Connected:  v.Connected,
		Username:   v.Username,
		EmptyLabel: v.EmptyLabel,
		CSRFToken:  csrfToken,
		Modes:      modes,
		Items:      items,
	}
}

func toItemViewModel(item model.RemoteItem, now time.Time) vm.ItemViewModel {
	url := item.WebURL
	if url == "" {
		url = item.TargetURL
	}

	ref := item.References
	if ref == "" && item.IID > 0 {
		ref = fmt.Sprintf("#%d", item.IID)
	}

	labels := item.Labels
	if labels == nil {
		labels = []string{}
	}

	out := vm.ItemViewModel{
		ID:        item.ID,
		Title:     item.Title,
		URL:       url,
		Reference: ref,
		Author:    item.Author,
		Age:       formatAge(now.Sub(item.UpdatedAt), item.UpdatedAt.IsZero()),
		Status:    item.Status,
		Approvals: formatApprovals(item.NumApprovers, item.TotalReviewers),
		Labels:    labels,
		IsTodo:    item.ActionName != "",
		Action:    strings.ReplaceAll(item.ActionName, "_", " "),
	}
	if item.Status != "" {
		out.StatusClass = "status-" + strings.ToLower(item.Status)
	}
	if item.Body != "" {
		out.BodyHTML = RenderMarkdown(item.Body)
	}

	return out
}

// formatApprovals renders the approval summary for items with details.
func formatApprovals(approvers, reviewers int) string {
	switch {
	case reviewers > 0:
		return fmt.Sprintf("%d/%d approved", approvers, reviewers)
	case approvers > 0:
		return fmt.Sprintf("%d approved", approvers)
	default:
		return ""
	}
}

// formatAge renders a coarse "time ago" string.
func formatAge(d time.Duration, unknown bool) string {
	if unknown {
		return ""
	}

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// toTooltipViewModel converts a preview into the tooltip view model.
func toTooltipViewModel(p model.LinkPreview) vm.TooltipViewModel {
	badge := p.Badge()

	repoURL := p.WebURL
	if i := strings.Index(repoURL, "/-/"); i > 0 {
		repoURL = repoURL[:i]
	}

	labels := make([]vm.LabelViewModel, 0, len(p.Labels))
	for _, l := range p.Labels {
		labels = append(labels, vm.LabelViewModel{
			Name:            l.Name,
			Description:     l.Description,
			BackgroundColor: safeColor(l.Color),
			TextColor:       safeColor(l.TextColor),
		})
	}

	var openedOn string
	if !p.CreatedAt.IsZero() {
		openedOn = "Opened on " + p.CreatedAt.UTC().Format("Jan 2, 2006")
	}

	return vm.TooltipViewModel{
		Owner:           p.Owner,
		Repo:            p.Repo,
		RepoURL:         repoURL,
		Title:           p.Title,
		URL:             p.WebURL,
		IID:             p.IID,
		DescriptionHTML: RenderPreviewMarkdown(p.Description),
		BadgeIcon:       badge.Icon,
		BadgeColor:      badge.Color,
		IsMergeRequest:  p.Kind == model.ReferenceKindMergeRequest,
		SourceBranch:    p.SourceBranch,
		TargetBranch:    p.TargetBranch,
		Labels:          labels,
		OpenedOn:        openedOn,
	}
}

func safeColor(c string) string {
	if hexColor.MatchString(c) {
		return c
	}
	return ""
}

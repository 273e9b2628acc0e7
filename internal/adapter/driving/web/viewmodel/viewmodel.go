// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// SidebarViewModel holds everything the sidebar page renders.
type SidebarViewModel struct {
	Title      string
	ListURL    string
	Connected  bool
	Username   string
	EmptyLabel string
	CSRFToken  string
	Modes      []ModeButtonViewModel
	Items      []ItemViewModel
}

// ModeButtonViewModel is one view mode selector button.
type ModeButtonViewModel struct {
	Mode   string
	Label  string
	Active bool
}

// ItemViewModel holds presentation-ready data for a sidebar list entry.
type ItemViewModel struct {
	ID          int64
	Title       string
	URL         string
	Reference   string
	Author      string
	Age         string
	Status      string
	StatusClass string
	Approvals   string // Empty when the item has no reviewers or approvals.
	Labels      []string
	IsTodo      bool
	Action      string
	BodyHTML    string
}

// TooltipViewModel holds presentation-ready data for a link preview.
type TooltipViewModel struct {
	Owner           string
	Repo            string
	RepoURL         string
	Title           string
	URL             string
	IID             int
	DescriptionHTML string
	BadgeIcon       string
	BadgeColor      string
	IsMergeRequest  bool
	SourceBranch    string
	TargetBranch    string
	Labels          []LabelViewModel
	OpenedOn        string
}

// LabelViewModel is a coloured label chip. Colours are validated hex values
// or empty.
type LabelViewModel struct {
	Name            string
	Description     string
	BackgroundColor string
	TextColor       string
}

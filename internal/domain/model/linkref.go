package model

// ReferenceKind is the path segment naming what a GitLab link points at.
type ReferenceKind string

const (
	ReferenceKindIssue        ReferenceKind = "issues"
	ReferenceKindMergeRequest ReferenceKind = "merge_requests"
)

// LinkReference is the structured form of a GitLab hyperlink. Owner is always
// set when the host matched (it may be empty). Repo, Kind and Number are nil
// when the link does not carry them; a non-nil pointer to "" is a present but
// empty segment.
type LinkReference struct {
	Owner  string         `json:"owner"`
	Repo   *string        `json:"repo,omitempty"`
	Kind   *ReferenceKind `json:"kind,omitempty"`
	Number *string        `json:"number,omitempty"`
}

// RepoName returns the repository segment and whether it was present.
func (r LinkReference) RepoName() (string, bool) {
	if r.Repo == nil {
		return "", false
	}
	return *r.Repo, true
}

// ReferenceKind returns the reference kind and whether it was present.
func (r LinkReference) ReferenceKind() (ReferenceKind, bool) {
	if r.Kind == nil {
		return "", false
	}
	return *r.Kind, true
}

// Identifier returns the trailing identifier and whether it was present. It
// is an opaque string; no numeric validation is applied.
func (r LinkReference) Identifier() (string, bool) {
	if r.Number == nil {
		return "", false
	}
	return *r.Number, true
}

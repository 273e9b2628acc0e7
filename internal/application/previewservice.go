package application

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// PreviewFetcher loads the data shown in a link tooltip.
type PreviewFetcher interface {
	FetchIssue(ctx context.Context, owner, repo, number string) (*model.LinkPreview, error)
	FetchMergeRequest(ctx context.Context, owner, repo, number string) (*model.LinkPreview, error)
}

// ConnectionSource reports whether the GitLab account is linked.
type ConnectionSource interface {
	Connection() model.ConnectionInfo
}

// LinkPreviewResult pairs the parsed reference with the fetched preview.
// Preview is nil when the link is not previewable.
type LinkPreviewResult struct {
	Reference model.LinkReference
	Preview   *model.LinkPreview
}

// PreviewService turns GitLab hyperlinks into tooltip previews.
type PreviewService struct {
	fetcher  PreviewFetcher
	conn     ConnectionSource
	hostname string
}

// NewPreviewService creates a PreviewService recognising links on hostname.
func NewPreviewService(fetcher PreviewFetcher, conn ConnectionSource, hostname string) *PreviewService {
	return &PreviewService{fetcher: fetcher, conn: conn, hostname: hostname}
}

// Hostname returns the GitLab host links are matched against.
func (s *PreviewService) Hostname() string {
	return s.hostname
}

// Preview parses href and fetches its issue or merge request. Nothing is
// fetched while disconnected, for foreign links, for unknown kinds or when
// the link has no repo or number.
func (s *PreviewService) Preview(ctx context.Context, href string) (LinkPreviewResult, error) {
	ref := ParseLink(href, s.hostname)
	result := LinkPreviewResult{Reference: ref}

	if !s.conn.Connection().Connected {
		return result, nil
	}

	repo, hasRepo := ref.RepoName()
	kind, hasKind := ref.ReferenceKind()
	number, hasNumber := ref.Identifier()
	if ref.Owner == "" || !hasRepo || !hasKind || !hasNumber {
		return result, nil
	}

	var (
		preview *model.LinkPreview
		err     error
	)
	switch kind {
	case model.ReferenceKindIssue:
		preview, err = s.fetcher.FetchIssue(ctx, ref.Owner, repo, number)
	case model.ReferenceKindMergeRequest:
		preview, err = s.fetcher.FetchMergeRequest(ctx, ref.Owner, repo, number)
	default:
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("fetch %s %s/%s#%s: %w", kind, ref.Owner, repo, number, err)
	}

	if preview != nil {
		preview.Owner = ref.Owner
		preview.Repo = repo
		preview.Kind = kind
	}
	result.Preview = preview

	return result, nil
}

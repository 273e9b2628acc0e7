package application

import (
	"net/url"
	"strings"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// detailMarker is the path segment GitLab places between a project path and
// a sub-resource, as in owner/repo/-/merge_requests/12.
const detailMarker = "-"

// ParseLink extracts owner, repo, kind and number from href when its host is
// exactly hostname. A foreign or unparsable link yields a reference with an
// empty Owner and nothing else. Segments missing from the path are left nil;
// kind and number are only read after the detail marker. The number is the
// literal path segment and is not validated.
func ParseLink(href, hostname string) model.LinkReference {
	if hostname == "" {
		return model.LinkReference{}
	}

	u, err := url.Parse(href)
	if err != nil || u.Host != hostname {
		return model.LinkReference{}
	}

	segments := strings.Split(strings.TrimPrefix(u.Path, "/"), "/")

	ref := model.LinkReference{Owner: segments[0]}
	if len(segments) > 1 {
		repo := segments[1]
		ref.Repo = &repo
	}
	if len(segments) > 3 && segments[2] == detailMarker {
		kind := model.ReferenceKind(segments[3])
		ref.Kind = &kind
		if len(segments) > 4 {
			number := segments[4]
			ref.Number = &number
		}
	}

	return ref
}

package driven

import (
	"context"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// GitLabClient defines the driven port for the GitLab plugin server API.
// Every method is a suspension point; implementations return *StatusError
// (or an error wrapping one) for non-2xx responses.
type GitLabClient interface {
	// FetchConnected returns the account link state and settings. reminder
	// asks the server to send the daily reminder if due.
	FetchConnected(ctx context.Context, reminder bool) (model.ConnectionInfo, error)

	// List fetches. Each returns the full list; callers replace state wholesale.

	FetchReviews(ctx context.Context) ([]model.RemoteItem, error)
	FetchYourPRs(ctx context.Context) ([]model.RemoteItem, error)
	FetchYourAssignments(ctx context.Context) ([]model.RemoteItem, error)
	FetchUnreads(ctx context.Context) ([]model.RemoteItem, error)

	// FetchPRDetails returns detail records for a batch of identities in a
	// single request.
	FetchPRDetails(ctx context.Context, ids []model.ItemIdentity) ([]model.RemoteItem, error)

	// FetchUser resolves a GitLab user id. Returns an error matching
	// ErrNotFound when the user does not exist.
	FetchUser(ctx context.Context, userID string) (model.UserProfile, error)

	// Preview fetches.

	FetchIssue(ctx context.Context, owner, repo, number string) (*model.LinkPreview, error)
	FetchMergeRequest(ctx context.Context, owner, repo, number string) (*model.LinkPreview, error)
}

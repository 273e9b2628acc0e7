package driven

import (
	"context"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

// UserProfileStore is the backing map of the user lookup cache. Entries are
// created or overwritten by the lookup service only and are never deleted;
// expiry is decided at read time.
type UserProfileStore interface {
	// Get returns the cached profile for userID, or (nil, nil) if none exists.
	Get(ctx context.Context, userID string) (*model.UserProfile, error)
	// Put stores the profile keyed by its UserID, replacing any prior entry.
	Put(ctx context.Context, profile model.UserProfile) error
}

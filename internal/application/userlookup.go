package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/glsidebar/internal/domain/model"
	"github.com/ericfisherdev/glsidebar/internal/domain/port/driven"
)

// UserRetryWindow is how long a not-found user lookup is suppressed.
const UserRetryWindow = time.Hour

// UserFetcher is the remote half of a user lookup.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) (model.UserProfile, error)
}

// UserLookupService resolves GitLab user ids through a cache with
// negative-result memoization. Resolved profiles never expire; not-found
// results are retried after UserRetryWindow; other failures are not cached.
//
// Two concurrent lookups for the same id may both fetch. Writes are
// last-write-wins overwrites, so the duplicate fetch is harmless.
type UserLookupService struct {
	store   driven.UserProfileStore
	fetcher UserFetcher
	events  driven.EventSink
	now     func() time.Time
}

// NewUserLookupService creates a UserLookupService. events may be nil.
func NewUserLookupService(store driven.UserProfileStore, fetcher UserFetcher, events driven.EventSink) *UserLookupService {
	return &UserLookupService{
		store:   store,
		fetcher: fetcher,
		events:  events,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *UserLookupService) WithClock(now func() time.Time) *UserLookupService {
	s.now = now
	return s
}

// GetUser returns the profile for userID.
//
// (nil, nil) is the empty result: returned for an empty id and while a prior
// not-found lookup is cooling down. A not-found response is cached with its
// lookup time and returned as an error matching driven.ErrNotFound.
func (s *UserLookupService) GetUser(ctx context.Context, userID string) (*model.UserProfile, error) {
	if userID == "" {
		return nil, nil
	}

	cached, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read cached user %s: %w", userID, err)
	}

	if cached != nil && cached.IsNegative() && s.now().Sub(cached.LastTry) < UserRetryWindow {
		return nil, nil
	}

	if cached != nil && cached.IsResolved() {
		return cached, nil
	}

	profile, err := s.fetcher.FetchUser(ctx, userID)
	if err != nil {
		if errors.Is(err, driven.ErrNotFound) {
			s.write(ctx, model.UserProfile{UserID: userID, LastTry: s.now()})
		}
		return nil, err
	}

	profile.UserID = userID
	profile.LastTry = time.Time{}
	s.write(ctx, profile)

	return &profile, nil
}

// write stores profile and reports the change. Store failures are logged,
// not returned; the next lookup fetches again.
func (s *UserLookupService) write(ctx context.Context, profile model.UserProfile) {
	if err := s.store.Put(ctx, profile); err != nil {
		slog.Error("cache user profile failed", "user_id", profile.UserID, "error", err)
		return
	}

	if s.events != nil {
		s.events.Publish(ctx, newEvent(model.EventReceivedGitLabUser, model.ViewModeNone, profile.UserID, 1))
	}
}

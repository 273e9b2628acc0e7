package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/glsidebar/internal/application"
	"github.com/ericfisherdev/glsidebar/internal/domain/model"
)

func TestJoinDetails_EmptyItems(t *testing.T) {
	details := []model.RemoteItem{{ID: 1, ProjectID: 1, SHA: "a", Status: "success"}}

	assert.Equal(t, []model.RemoteItem{}, application.JoinDetails(nil, details))
	assert.Equal(t, []model.RemoteItem{}, application.JoinDetails([]model.RemoteItem{}, details))
}

func TestJoinDetails_NoDetailsPassesThrough(t *testing.T) {
	items := []model.RemoteItem{
		{ID: 1, ProjectID: 10, SHA: "aaa", Title: "one", Reviewers: []string{"alice"}, TotalReviewers: 7},
		{ID: 2, ProjectID: 10, SHA: "bbb", Title: "two"},
	}

	joined := application.JoinDetails(items, nil)

	assert.Equal(t, items, joined)
}

func TestJoinDetails_OverwritesStatusAndApprovers(t *testing.T) {
	items := []model.RemoteItem{
		{ID: 1, ProjectID: 10, SHA: "aaa", Title: "one", Status: "old", Reviewers: []string{"alice", "bob"}},
	}
	details := []model.RemoteItem{
		{ID: 99, ProjectID: 10, SHA: "aaa", Title: "detail title", Status: "success", NumApprovers: 2, Reviewers: []string{"x"}},
	}

	joined := application.JoinDetails(items, details)

	require.Len(t, joined, 1)
	assert.Equal(t, int64(1), joined[0].ID)
	assert.Equal(t, "one", joined[0].Title)
	assert.Equal(t, "success", joined[0].Status)
	assert.Equal(t, 2, joined[0].NumApprovers)
	assert.Equal(t, 2, joined[0].TotalReviewers, "reviewer count comes from the summary item")
	assert.Equal(t, []string{"alice", "bob"}, joined[0].Reviewers)
}

func TestJoinDetails_MatchRequiresProjectAndSHA(t *testing.T) {
	items := []model.RemoteItem{
		{ID: 1, ProjectID: 10, SHA: "aaa"},
		{ID: 2, ProjectID: 11, SHA: "aaa"},
		{ID: 3, ProjectID: 10, SHA: "ccc"},
	}
	details := []model.RemoteItem{
		{ProjectID: 10, SHA: "aaa", Status: "failed"},
		{ProjectID: 12, SHA: "ccc", Status: "running"},
	}

	joined := application.JoinDetails(items, details)

	require.Len(t, joined, 3)
	assert.Equal(t, "failed", joined[0].Status)
	assert.Equal(t, items[1], joined[1])
	assert.Equal(t, items[2], joined[2])
}

func TestJoinDetails_PreservesOrderAndLength(t *testing.T) {
	items := []model.RemoteItem{
		{ID: 5, ProjectID: 1, SHA: "e"},
		{ID: 3, ProjectID: 1, SHA: "c"},
		{ID: 9, ProjectID: 1, SHA: "i"},
		{ID: 1, ProjectID: 1, SHA: "a"},
	}
	details := []model.RemoteItem{
		{ProjectID: 1, SHA: "a", Status: "s-a"},
		{ProjectID: 1, SHA: "i", Status: "s-i"},
	}

	joined := application.JoinDetails(items, details)

	require.Len(t, joined, len(items))
	for i := range items {
		assert.Equal(t, items[i].ID, joined[i].ID)
	}
	assert.Equal(t, "s-i", joined[2].Status)
	assert.Equal(t, "s-a", joined[3].Status)
}

func TestJoinDetails_DoesNotMutateInput(t *testing.T) {
	items := []model.RemoteItem{{ID: 1, ProjectID: 1, SHA: "a", Status: "before"}}
	details := []model.RemoteItem{{ProjectID: 1, SHA: "a", Status: "after", NumApprovers: 1}}

	_ = application.JoinDetails(items, details)

	assert.Equal(t, "before", items[0].Status)
	assert.Equal(t, 0, items[0].NumApprovers)
}

func TestDetailRequest_MapsIdentities(t *testing.T) {
	items := []model.RemoteItem{
		{ID: 1, IID: 4, ProjectID: 10, SHA: "aaa"},
		{ID: 2, IID: 8, ProjectID: 11, SHA: "bbb"},
	}

	ids := application.DetailRequest(items)

	assert.Equal(t, []model.ItemIdentity{
		{ProjectID: 10, SHA: "aaa", IID: 4},
		{ProjectID: 11, SHA: "bbb", IID: 8},
	}, ids)
}

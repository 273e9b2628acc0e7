// Package application contains use-case orchestration services.
package application

import "github.com/ericfisherdev/glsidebar/internal/domain/model"

// JoinDetails merges summary items with their detail records. The result has
// the same length and order as items. An item with a detail record matching
// its (ProjectID, SHA) takes Status and NumApprovers from the detail;
// TotalReviewers is always recomputed from the item's own Reviewers, never
// from the detail. Items without a match pass through unchanged.
func JoinDetails(items, details []model.RemoteItem) []model.RemoteItem {
	if len(items) == 0 {
		return []model.RemoteItem{}
	}

	byIdentity := make(map[detailKey]model.RemoteItem, len(details))
	for _, d := range details {
		key := keyOf(d)
		if _, seen := byIdentity[key]; !seen {
			byIdentity[key] = d
		}
	}

	joined := make([]model.RemoteItem, 0, len(items))
	for _, item := range items {
		detail, ok := byIdentity[keyOf(item)]
		if !ok {
			joined = append(joined, item)
			continue
		}

		item.Status = detail.Status
		item.NumApprovers = detail.NumApprovers
		item.TotalReviewers = len(item.Reviewers)
		joined = append(joined, item)
	}

	return joined
}

// DetailRequest maps a list to the identity batch sent to the detail endpoint.
func DetailRequest(items []model.RemoteItem) []model.ItemIdentity {
	ids := make([]model.ItemIdentity, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.Identity())
	}
	return ids
}

// detailKey is the matching part of model.ItemIdentity.
type detailKey struct {
	projectID int64
	sha       string
}

func keyOf(item model.RemoteItem) detailKey {
	return detailKey{projectID: item.ProjectID, sha: item.SHA}
}

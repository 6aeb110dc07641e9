package service

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// permissionResolver implements PermissionResolver against the group store.
type permissionResolver struct {
	groupReader GroupFeatureReader
}

// NewPermissionResolver creates a PermissionResolver backed by the given
// group store.
func NewPermissionResolver(groupReader GroupFeatureReader) PermissionResolver {
	return &permissionResolver{groupReader: groupReader}
}

// Resolve computes the effective capability set:
// (union of group capabilities, union individual allow list) minus the deny
// list, deduplicated and sorted. Group IDs that no longer resolve to a group
// are skipped. Capability keys are stored normalized, so no normalization
// happens here.
func (r *permissionResolver) Resolve(
	ctx context.Context,
	groupIDs []uuid.UUID,
	allow, deny []string,
) ([]string, error) {
	granted := make(map[string]struct{})

	if len(groupIDs) > 0 {
		featuresByGroup, err := r.groupReader.ListFeaturesByGroupIDs(ctx, groupIDs)
		if err != nil {
			return nil, err
		}
		for _, features := range featuresByGroup {
			for _, feature := range features {
				granted[feature] = struct{}{}
			}
		}
	}

	for _, feature := range allow {
		granted[feature] = struct{}{}
	}

	for _, feature := range deny {
		delete(granted, feature)
	}

	effective := make([]string, 0, len(granted))
	for feature := range granted {
		effective = append(effective, feature)
	}
	sort.Strings(effective)

	return effective, nil
}

package interfaces

import (
	"context"

	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
)

// RosterClient retrieves group membership data from the external platform
type RosterClient interface {
	// FetchRoster returns the complete current membership of the group.
	// All-or-nothing: a failure on any page discards the whole call, since
	// a partial roster would read as a mass leave to the delta engine.
	FetchRoster(ctx context.Context, groupID types.GroupID) (model.Snapshot, error)

	// FetchUsername returns the display name for a user, falling back to a
	// synthetic "User <id>" placeholder on any failure. The result is used
	// only for notification text, so degrading beats failing the cycle.
	FetchUsername(ctx context.Context, userID types.UserID) string

	// ResolveUsername resolves a username to its stable user ID, used once
	// when a tracked target is added
	ResolveUsername(ctx context.Context, username string) (types.UserID, error)
}

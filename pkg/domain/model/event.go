package model

import (
	"fmt"

	"github.com/watchman-lab/argus/pkg/domain/types"
)

// EventKind discriminates change event variants
type EventKind string

const (
	EventJoined        EventKind = "joined"
	EventLeft          EventKind = "left"
	EventRankChanged   EventKind = "rank_changed"
	EventTrackedStatus EventKind = "tracked_status"
)

// ChangeEvent is one detected roster change, or one tracked-target status
// report. Events are transient: they are rendered into a notification and
// never persisted.
type ChangeEvent struct {
	Kind   EventKind
	UserID types.UserID

	// Username is empty for EventLeft until the scheduler resolves the
	// display name (the user is no longer in the snapshot).
	Username string

	RankName    string // Joined: rank at join. RankChanged: new rank.
	OldRankName string // RankChanged only
	Present     bool   // TrackedStatus only
}

// Text renders the event as a Slack mrkdwn message
func (e ChangeEvent) Text() string {
	switch e.Kind {
	case EventJoined:
		return fmt.Sprintf(":white_check_mark: *%s* has *joined* the group with rank `%s`.", e.Username, e.RankName)
	case EventLeft:
		return fmt.Sprintf(":x: *%s* has *left* the group.", e.Username)
	case EventRankChanged:
		return fmt.Sprintf(":warning: *%s* rank changed from `%s` to `%s`.", e.Username, e.OldRankName, e.RankName)
	case EventTrackedStatus:
		if e.Present {
			return fmt.Sprintf(":eye: Tracker: Roblox user `%s` (%d) is currently in the group with rank `%s`.", e.Username, e.UserID, e.RankName)
		}
		return fmt.Sprintf(":eye: Tracker: Roblox user `%s` (%d) is *not* in the group.", e.Username, e.UserID)
	default:
		return ""
	}
}

package model

import (
	"sort"

	"github.com/watchman-lab/argus/pkg/domain/types"
)

// Diff computes the roster changes between the previous and current
// snapshots. When prevExists is false the current snapshot only establishes
// the baseline and no events are emitted, so a first poll (or a poll after
// state loss) never floods the channel with spurious joins.
//
// Rank comparison uses the numeric rank only: a rank rename without a
// numeric change is silent, and a numeric change with an unchanged display
// name still raises an event.
//
// Events are ordered: all joins, then all leaves, then all rank changes,
// ascending user ID within each class.
func Diff(prev Snapshot, curr Snapshot, prevExists bool) []ChangeEvent {
	if !prevExists {
		return nil
	}

	var joined, left, rankChanged []types.UserID

	for id := range curr {
		if _, ok := prev[id]; !ok {
			joined = append(joined, id)
		}
	}
	for id := range prev {
		if _, ok := curr[id]; !ok {
			left = append(left, id)
		}
	}
	for id, cm := range curr {
		if pm, ok := prev[id]; ok && cm.Rank != pm.Rank {
			rankChanged = append(rankChanged, id)
		}
	}

	sortUserIDs(joined)
	sortUserIDs(left)
	sortUserIDs(rankChanged)

	events := make([]ChangeEvent, 0, len(joined)+len(left)+len(rankChanged))

	for _, id := range joined {
		m := curr[id]
		events = append(events, ChangeEvent{
			Kind:     EventJoined,
			UserID:   id,
			Username: m.Username,
			RankName: m.RankName,
		})
	}

	for _, id := range left {
		// Username stays empty: the user is gone from the snapshot, the
		// scheduler resolves a display name before notifying.
		events = append(events, ChangeEvent{
			Kind:   EventLeft,
			UserID: id,
		})
	}

	for _, id := range rankChanged {
		events = append(events, ChangeEvent{
			Kind:        EventRankChanged,
			UserID:      id,
			Username:    curr[id].Username,
			RankName:    curr[id].RankName,
			OldRankName: prev[id].RankName,
		})
	}

	return events
}

// TrackStatus reports the current presence and rank of every tracked
// target. It is a standing status report, not an edge-triggered diff:
// exactly one event per target per cycle, whether or not anything changed.
func TrackStatus(curr Snapshot, targets []TrackedTarget) []ChangeEvent {
	events := make([]ChangeEvent, 0, len(targets))
	for _, t := range targets {
		ev := ChangeEvent{
			Kind:     EventTrackedStatus,
			UserID:   t.UserID,
			Username: t.Username,
		}
		if m, ok := curr[t.UserID]; ok {
			ev.Present = true
			ev.RankName = m.RankName
		}
		events = append(events, ev)
	}
	return events
}

func sortUserIDs(ids []types.UserID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

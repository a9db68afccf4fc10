package model

import (
	"time"

	"github.com/watchman-lab/argus/pkg/domain/types"
)

// Member is one entry of a group roster
type Member struct {
	Username string // Roblox username at snapshot time
	Rank     int    // Numeric rank, the authoritative ordering
	RankName string // Display label of the rank
}

// Snapshot is the full membership of a group at one instant, keyed by
// Roblox user ID. A snapshot is never mutated after the fetch that
// produced it.
type Snapshot map[types.UserID]Member

// Clone returns an independent copy of the snapshot
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	c := make(Snapshot, len(s))
	for id, m := range s {
		c[id] = m
	}
	return c
}

// PollState is the last successfully processed snapshot of a community.
// It is owned by the poll scheduler: configuration commands never touch it,
// and a failed cycle leaves it unchanged.
type PollState struct {
	Members  Snapshot
	PolledAt time.Time
}

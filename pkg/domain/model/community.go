package model

import (
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/watchman-lab/argus/pkg/domain/types"
)

// TrackedTarget is a Roblox user whose presence and rank are reported on
// every poll cycle, linked to the Slack member who requested the tracking
type TrackedTarget struct {
	UserID   types.UserID
	Username string // Roblox username as given at add time
}

// CommunityConfig is one Slack workspace's monitoring setup
type CommunityConfig struct {
	ID        types.CommunityID
	GroupID   types.GroupID   // 0 = monitoring disabled
	ChannelID types.ChannelID // "" = notifications suppressed
	Trackers  map[types.MemberID]TrackedTarget
	UpdatedAt time.Time
}

// NewCommunityConfig creates an empty configuration for a community
func NewCommunityConfig(id types.CommunityID) *CommunityConfig {
	return &CommunityConfig{
		ID:       id,
		Trackers: map[types.MemberID]TrackedTarget{},
	}
}

// Validate checks if the CommunityConfig is valid
func (c *CommunityConfig) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid community config")
	}
	if c.GroupID != 0 {
		if err := c.GroupID.Validate(); err != nil {
			return goerr.Wrap(err, "invalid community config", goerr.V("community", c.ID))
		}
	}
	for memberID, target := range c.Trackers {
		if err := memberID.Validate(); err != nil {
			return goerr.Wrap(err, "invalid tracker key", goerr.V("community", c.ID))
		}
		if err := target.UserID.Validate(); err != nil {
			return goerr.Wrap(err, "invalid tracker target", goerr.V("community", c.ID), goerr.V("member", memberID))
		}
	}
	return nil
}

// Clone returns an independent copy of the configuration
func (c *CommunityConfig) Clone() *CommunityConfig {
	clone := *c
	clone.Trackers = make(map[types.MemberID]TrackedTarget, len(c.Trackers))
	for id, t := range c.Trackers {
		clone.Trackers[id] = t
	}
	return &clone
}

// Monitorable reports whether poll cycles should run for this community.
// Both the group and the notification channel must be set.
func (c *CommunityConfig) Monitorable() bool {
	return c.GroupID.IsSet() && c.ChannelID != ""
}

// SortedTargets returns tracked targets ordered by Roblox user ID so that
// every cycle reports them in the same order
func (c *CommunityConfig) SortedTargets() []TrackedTarget {
	targets := make([]TrackedTarget, 0, len(c.Trackers))
	for _, t := range c.Trackers {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].UserID < targets[j].UserID })
	return targets
}

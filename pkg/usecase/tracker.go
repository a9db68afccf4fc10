package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
	"github.com/watchman-lab/argus/pkg/service/roblox"
)

// TrackerUseCase manages tracked targets ("snipers"). The Roblox username
// is resolved to a stable user ID exactly once, at add time: usernames can
// change, IDs cannot.
type TrackerUseCase struct {
	repo   interfaces.Repository
	roster interfaces.RosterClient
}

func NewTrackerUseCase(repo interfaces.Repository, roster interfaces.RosterClient) *TrackerUseCase {
	return &TrackerUseCase{repo: repo, roster: roster}
}

// Add starts tracking a Roblox user, linked to the given community member.
// Returns ErrUserNotFound when the username does not resolve.
func (u *TrackerUseCase) Add(ctx context.Context, id types.CommunityID, memberID types.MemberID, robloxUsername string) (*model.TrackedTarget, error) {
	if err := memberID.Validate(); err != nil {
		return nil, err
	}

	userID, err := u.roster.ResolveUsername(ctx, robloxUsername)
	if err != nil {
		if errors.Is(err, roblox.ErrUserNotFound) {
			return nil, goerr.Wrap(ErrUserNotFound, "cannot add tracker",
				goerr.V("community", id), goerr.V("username", robloxUsername))
		}
		return nil, err
	}

	cfg, err := getOrCreate(ctx, u.repo, id)
	if err != nil {
		return nil, err
	}

	target := model.TrackedTarget{UserID: userID, Username: robloxUsername}
	cfg.Trackers[memberID] = target
	cfg.UpdatedAt = time.Now().UTC()

	if err := u.repo.Community().Put(ctx, cfg); err != nil {
		return nil, err
	}
	return &target, nil
}

// Remove stops tracking the Roblox user linked to the given member
func (u *TrackerUseCase) Remove(ctx context.Context, id types.CommunityID, memberID types.MemberID) error {
	cfg, err := getOrCreate(ctx, u.repo, id)
	if err != nil {
		return err
	}

	if _, ok := cfg.Trackers[memberID]; !ok {
		return goerr.Wrap(ErrTrackerNotFound, "cannot remove tracker",
			goerr.V("community", id), goerr.V("member", memberID))
	}

	delete(cfg.Trackers, memberID)
	cfg.UpdatedAt = time.Now().UTC()
	return u.repo.Community().Put(ctx, cfg)
}

// Entry is one tracker listing row
type Entry struct {
	MemberID types.MemberID
	Target   model.TrackedTarget
}

// List returns all trackers of a community, ordered by member ID for a
// stable listing
func (u *TrackerUseCase) List(ctx context.Context, id types.CommunityID) ([]Entry, error) {
	cfg, err := getOrCreate(ctx, u.repo, id)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(cfg.Trackers))
	for memberID, target := range cfg.Trackers {
		entries = append(entries, Entry{MemberID: memberID, Target: target})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].MemberID < entries[j].MemberID })
	return entries, nil
}

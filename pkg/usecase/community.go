package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
)

// CommunityUseCase implements the monitoring configuration commands.
// Every mutation is persisted immediately: write volume is tiny and
// losing a setting costs more than a write per command.
type CommunityUseCase struct {
	repo interfaces.Repository
}

func NewCommunityUseCase(repo interfaces.Repository) *CommunityUseCase {
	return &CommunityUseCase{repo: repo}
}

// getOrCreate loads a community's configuration, starting fresh when the
// community has never issued a command
func getOrCreate(ctx context.Context, repo interfaces.Repository, id types.CommunityID) (*model.CommunityConfig, error) {
	cfg, err := repo.Community().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return model.NewCommunityConfig(id), nil
		}
		return nil, err
	}
	return cfg, nil
}

// SetGroup sets the Roblox group to monitor for a community
func (u *CommunityUseCase) SetGroup(ctx context.Context, id types.CommunityID, groupID types.GroupID) error {
	if err := groupID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid group ID")
	}

	cfg, err := getOrCreate(ctx, u.repo, id)
	if err != nil {
		return err
	}

	cfg.GroupID = groupID
	cfg.UpdatedAt = time.Now().UTC()
	return u.repo.Community().Put(ctx, cfg)
}

// ClearGroup disables monitoring for a community. The poll state is left
// in place: the scheduler owns it, and re-enabling the same group resumes
// diffing against the last committed snapshot.
func (u *CommunityUseCase) ClearGroup(ctx context.Context, id types.CommunityID) error {
	cfg, err := getOrCreate(ctx, u.repo, id)
	if err != nil {
		return err
	}
	if !cfg.GroupID.IsSet() {
		return goerr.Wrap(ErrGroupNotSet, "nothing to clear", goerr.V("community", id))
	}

	cfg.GroupID = 0
	cfg.UpdatedAt = time.Now().UTC()
	return u.repo.Community().Put(ctx, cfg)
}

// SetChannel binds notifications to the channel the command was issued in
func (u *CommunityUseCase) SetChannel(ctx context.Context, id types.CommunityID, channelID types.ChannelID) error {
	if channelID == "" {
		return goerr.New("channel ID is required", goerr.V("community", id))
	}

	cfg, err := getOrCreate(ctx, u.repo, id)
	if err != nil {
		return err
	}

	cfg.ChannelID = channelID
	cfg.UpdatedAt = time.Now().UTC()
	return u.repo.Community().Put(ctx, cfg)
}

// Status returns the current configuration of a community, an empty
// configuration when none exists yet
func (u *CommunityUseCase) Status(ctx context.Context, id types.CommunityID) (*model.CommunityConfig, error) {
	return getOrCreate(ctx, u.repo, id)
}

package interfaces

import (
	"context"

	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
)

// Repository defines the interface for data persistence
type Repository interface {
	Community() CommunityRepository
	PollState() PollStateRepository
	Close() error
}

// CommunityRepository persists per-community monitoring configuration.
// Every mutation is written through immediately; write volume is a handful
// of command invocations, so there is no buffering.
type CommunityRepository interface {
	// Get returns the configuration of one community. Backends return an
	// error wrapping their ErrNotFound sentinel when absent.
	Get(ctx context.Context, id types.CommunityID) (*model.CommunityConfig, error)

	// Put saves the configuration (upsert, full rewrite)
	Put(ctx context.Context, cfg *model.CommunityConfig) error

	// List returns all configured communities
	List(ctx context.Context) ([]*model.CommunityConfig, error)
}

// PollStateRepository persists the last successfully processed snapshot per
// community. Owned by the poll scheduler; configuration commands never
// write here.
type PollStateRepository interface {
	// Get returns the poll state of one community, or (nil, nil) when the
	// community has never completed a cycle. Absence is a defined state,
	// not an error: it means "first poll, baseline only".
	Get(ctx context.Context, id types.CommunityID) (*model.PollState, error)

	// Put atomically replaces the poll state of one community
	Put(ctx context.Context, id types.CommunityID, state *model.PollState) error

	// List returns all poll states, for export
	List(ctx context.Context) (map[types.CommunityID]*model.PollState, error)
}

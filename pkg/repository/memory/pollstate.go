package memory

import (
	"context"
	"sync"

	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
)

type pollStateRepository struct {
	mu     sync.RWMutex
	states map[types.CommunityID]*model.PollState
}

func newPollStateRepository() *pollStateRepository {
	return &pollStateRepository{
		states: make(map[types.CommunityID]*model.PollState),
	}
}

// Get retrieves the poll state of a community, (nil, nil) when absent
func (r *pollStateRepository) Get(ctx context.Context, id types.CommunityID) (*model.PollState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[id]
	if !ok {
		return nil, nil
	}

	// Return a deep copy to prevent external modifications
	return &model.PollState{
		Members:  state.Members.Clone(),
		PolledAt: state.PolledAt,
	}, nil
}

// Put atomically replaces the poll state of a community
func (r *pollStateRepository) Put(ctx context.Context, id types.CommunityID, state *model.PollState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[id] = &model.PollState{
		Members:  state.Members.Clone(),
		PolledAt: state.PolledAt,
	}
	return nil
}

// List retrieves all poll states keyed by community ID
func (r *pollStateRepository) List(ctx context.Context) (map[types.CommunityID]*model.PollState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make(map[types.CommunityID]*model.PollState, len(r.states))
	for id, state := range r.states {
		states[id] = &model.PollState{
			Members:  state.Members.Clone(),
			PolledAt: state.PolledAt,
		}
	}
	return states, nil
}

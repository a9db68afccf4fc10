package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
)

type communityRepository struct {
	mu      sync.RWMutex
	configs map[types.CommunityID]*model.CommunityConfig
}

func newCommunityRepository() *communityRepository {
	return &communityRepository{
		configs: make(map[types.CommunityID]*model.CommunityConfig),
	}
}

// Get retrieves a community configuration by ID
func (r *communityRepository) Get(ctx context.Context, id types.CommunityID) (*model.CommunityConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.configs[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "community not found", goerr.V("id", id))
	}

	// Return a deep copy to prevent external modifications
	return cfg.Clone(), nil
}

// Put saves a community configuration (upsert)
func (r *communityRepository) Put(ctx context.Context, cfg *model.CommunityConfig) error {
	if err := cfg.Validate(); err != nil {
		return goerr.Wrap(err, "invalid community config")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs[cfg.ID] = cfg.Clone()
	return nil
}

// List retrieves all community configurations
func (r *communityRepository) List(ctx context.Context) ([]*model.CommunityConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]*model.CommunityConfig, 0, len(r.configs))
	for _, cfg := range r.configs {
		configs = append(configs, cfg.Clone())
	}
	return configs, nil
}

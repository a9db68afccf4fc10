package memory

import (
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	community *communityRepository
	pollState *pollStateRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		community: newCommunityRepository(),
		pollState: newPollStateRepository(),
	}
}

func (m *Memory) Community() interfaces.CommunityRepository {
	return m.community
}

func (m *Memory) PollState() interfaces.PollStateRepository {
	return m.pollState
}

func (m *Memory) Close() error {
	return nil
}

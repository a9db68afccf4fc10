package usecase

import (
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
)

type UseCases struct {
	repo   interfaces.Repository
	roster interfaces.RosterClient

	Community *CommunityUseCase
	Tracker   *TrackerUseCase
}

func New(repo interfaces.Repository, roster interfaces.RosterClient) *UseCases {
	uc := &UseCases{
		repo:   repo,
		roster: roster,
	}

	uc.Community = NewCommunityUseCase(repo)
	uc.Tracker = NewTrackerUseCase(repo, roster)

	return uc
}

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
)

func runPollStateRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Get returns nil for a community that never polled", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		state, err := repo.PollState().Get(ctx, "T-none")
		gt.NoError(t, err).Required()
		gt.Value(t, state).Nil()
	})

	t.Run("Put then Get round-trips the snapshot", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		polledAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		state := &model.PollState{
			Members: model.Snapshot{
				1: {Username: "alice", Rank: 1, RankName: "Member"},
				2: {Username: "bob", Rank: 255, RankName: "Owner"},
			},
			PolledAt: polledAt,
		}

		gt.NoError(t, repo.PollState().Put(ctx, "T0000001", state)).Required()

		got, err := repo.PollState().Get(ctx, "T0000001")
		gt.NoError(t, err).Required()
		gt.Value(t, got).NotNil()
		gt.Value(t, len(got.Members)).Equal(2)
		gt.Value(t, got.Members[1].Username).Equal("alice")
		gt.Value(t, got.Members[2].Rank).Equal(255)
		gt.Bool(t, got.PolledAt.Equal(polledAt)).True()
	})

	t.Run("Put replaces the previous state atomically", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		first := &model.PollState{
			Members:  model.Snapshot{1: {Username: "a", Rank: 1, RankName: "Member"}},
			PolledAt: time.Now().UTC(),
		}
		gt.NoError(t, repo.PollState().Put(ctx, "T0000002", first)).Required()

		second := &model.PollState{
			Members:  model.Snapshot{2: {Username: "b", Rank: 2, RankName: "Officer"}},
			PolledAt: time.Now().UTC(),
		}
		gt.NoError(t, repo.PollState().Put(ctx, "T0000002", second)).Required()

		got, err := repo.PollState().Get(ctx, "T0000002")
		gt.NoError(t, err).Required()
		gt.Value(t, len(got.Members)).Equal(1)
		_, hasOld := got.Members[1]
		gt.Bool(t, hasOld).False()
	})

	t.Run("states are isolated per community", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.PollState().Put(ctx, "T0000003", &model.PollState{
			Members:  model.Snapshot{1: {Username: "a", Rank: 1, RankName: "Member"}},
			PolledAt: time.Now().UTC(),
		})).Required()

		state, err := repo.PollState().Get(ctx, "T0000004")
		gt.NoError(t, err).Required()
		gt.Value(t, state).Nil()
	})

	t.Run("List returns all states", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, id := range []types.CommunityID{"T0000005", "T0000006"} {
			gt.NoError(t, repo.PollState().Put(ctx, id, &model.PollState{
				Members:  model.Snapshot{},
				PolledAt: time.Now().UTC(),
			})).Required()
		}

		states, err := repo.PollState().List(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, len(states)).Equal(2)
	})

	t.Run("mutating a returned snapshot does not affect the store", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		gt.NoError(t, repo.PollState().Put(ctx, "T0000007", &model.PollState{
			Members:  model.Snapshot{1: {Username: "a", Rank: 1, RankName: "Member"}},
			PolledAt: time.Now().UTC(),
		})).Required()

		got, err := repo.PollState().Get(ctx, "T0000007")
		gt.NoError(t, err).Required()
		got.Members[99] = model.Member{Username: "intruder", Rank: 1, RankName: "Member"}

		again, err := repo.PollState().Get(ctx, "T0000007")
		gt.NoError(t, err).Required()
		gt.Value(t, len(again.Members)).Equal(1)
	})
}

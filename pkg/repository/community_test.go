package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
	"github.com/watchman-lab/argus/pkg/repository/firestore"
	"github.com/watchman-lab/argus/pkg/repository/memory"
)

func runCommunityRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Get returns not found for unknown community", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Community().Get(ctx, "T-unknown")
		gt.Value(t, err).NotNil()
		gt.Bool(t, errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)).True()
	})

	t.Run("Put then Get round-trips the configuration", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		cfg := model.NewCommunityConfig("T0000001")
		cfg.GroupID = 4487312
		cfg.ChannelID = "C0000001"
		cfg.Trackers["U0000001"] = model.TrackedTarget{UserID: 12345, Username: "builderman"}

		gt.NoError(t, repo.Community().Put(ctx, cfg)).Required()

		got, err := repo.Community().Get(ctx, "T0000001")
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(types.CommunityID("T0000001"))
		gt.Value(t, got.GroupID).Equal(types.GroupID(4487312))
		gt.Value(t, got.ChannelID).Equal(types.ChannelID("C0000001"))
		gt.Value(t, len(got.Trackers)).Equal(1)
		gt.Value(t, got.Trackers["U0000001"].UserID).Equal(types.UserID(12345))
		gt.Value(t, got.Trackers["U0000001"].Username).Equal("builderman")
	})

	t.Run("Put overwrites the whole record", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		cfg := model.NewCommunityConfig("T0000002")
		cfg.GroupID = 100
		cfg.Trackers["U0000001"] = model.TrackedTarget{UserID: 1, Username: "a"}
		gt.NoError(t, repo.Community().Put(ctx, cfg)).Required()

		cfg2 := model.NewCommunityConfig("T0000002")
		cfg2.GroupID = 200
		gt.NoError(t, repo.Community().Put(ctx, cfg2)).Required()

		got, err := repo.Community().Get(ctx, "T0000002")
		gt.NoError(t, err).Required()
		gt.Value(t, got.GroupID).Equal(types.GroupID(200))
		gt.Value(t, len(got.Trackers)).Equal(0)
	})

	t.Run("Put rejects invalid configuration", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		cfg := model.NewCommunityConfig("")
		gt.Error(t, repo.Community().Put(ctx, cfg))
	})

	t.Run("List returns all communities", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, id := range []types.CommunityID{"T0000003", "T0000004", "T0000005"} {
			gt.NoError(t, repo.Community().Put(ctx, model.NewCommunityConfig(id))).Required()
		}

		configs, err := repo.Community().List(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, len(configs)).Equal(3)
	})

	t.Run("mutating a returned config does not affect the store", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		cfg := model.NewCommunityConfig("T0000006")
		gt.NoError(t, repo.Community().Put(ctx, cfg)).Required()

		got, err := repo.Community().Get(ctx, "T0000006")
		gt.NoError(t, err).Required()
		got.Trackers["U0000009"] = model.TrackedTarget{UserID: 9, Username: "x"}

		again, err := repo.Community().Get(ctx, "T0000006")
		gt.NoError(t, err).Required()
		gt.Value(t, len(again.Trackers)).Equal(0)
	})
}

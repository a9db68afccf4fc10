package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
)

type Firestore struct {
	client    *firestore.Client
	community *communityRepository
	pollState *pollStateRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollectionPrefix namespaces all collections, used by tests to share a
// project without collisions
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.community.collectionPrefix = prefix
		f.pollState.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:    client,
		community: newCommunityRepository(client),
		pollState: newPollStateRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Community() interfaces.CommunityRepository {
	return f.community
}

func (f *Firestore) PollState() interfaces.PollStateRepository {
	return f.pollState
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

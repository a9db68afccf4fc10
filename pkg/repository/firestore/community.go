package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const communitiesCollection = "communities"

type communityRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.CommunityRepository = &communityRepository{}

func newCommunityRepository(client *firestore.Client) *communityRepository {
	return &communityRepository{client: client}
}

// communityDoc is the Firestore persistence model
type communityDoc struct {
	ID        string                `firestore:"id"`
	GroupID   int64                 `firestore:"group_id"`
	ChannelID string                `firestore:"channel_id"`
	Trackers  map[string]trackerDoc `firestore:"trackers"`
	UpdatedAt time.Time             `firestore:"updated_at"`
}

type trackerDoc struct {
	UserID   int64  `firestore:"user_id"`
	Username string `firestore:"username"`
}

func (r *communityRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + communitiesCollection)
	}
	return r.client.Collection(communitiesCollection)
}

func (r *communityRepository) toDoc(cfg *model.CommunityConfig) *communityDoc {
	trackers := make(map[string]trackerDoc, len(cfg.Trackers))
	for memberID, t := range cfg.Trackers {
		trackers[string(memberID)] = trackerDoc{
			UserID:   int64(t.UserID),
			Username: t.Username,
		}
	}
	return &communityDoc{
		ID:        string(cfg.ID),
		GroupID:   int64(cfg.GroupID),
		ChannelID: string(cfg.ChannelID),
		Trackers:  trackers,
		UpdatedAt: cfg.UpdatedAt,
	}
}

func (r *communityRepository) fromDoc(doc *communityDoc) *model.CommunityConfig {
	trackers := make(map[types.MemberID]model.TrackedTarget, len(doc.Trackers))
	for memberID, t := range doc.Trackers {
		trackers[types.MemberID(memberID)] = model.TrackedTarget{
			UserID:   types.UserID(t.UserID),
			Username: t.Username,
		}
	}
	return &model.CommunityConfig{
		ID:        types.CommunityID(doc.ID),
		GroupID:   types.GroupID(doc.GroupID),
		ChannelID: types.ChannelID(doc.ChannelID),
		Trackers:  trackers,
		UpdatedAt: doc.UpdatedAt,
	}
}

// Get retrieves a community configuration by ID
func (r *communityRepository) Get(ctx context.Context, id types.CommunityID) (*model.CommunityConfig, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "community not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get community", goerr.V("id", id))
	}

	var d communityDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal community", goerr.V("id", id))
	}

	return r.fromDoc(&d), nil
}

// Put saves a community configuration (upsert, full rewrite)
func (r *communityRepository) Put(ctx context.Context, cfg *model.CommunityConfig) error {
	if err := cfg.Validate(); err != nil {
		return goerr.Wrap(err, "invalid community config")
	}

	if _, err := r.collection().Doc(string(cfg.ID)).Set(ctx, r.toDoc(cfg)); err != nil {
		return goerr.Wrap(err, "failed to save community", goerr.V("id", cfg.ID))
	}
	return nil
}

// List retrieves all community configurations
func (r *communityRepository) List(ctx context.Context) ([]*model.CommunityConfig, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var configs []*model.CommunityConfig
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate communities")
		}

		var d communityDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal community", goerr.V("docID", doc.Ref.ID))
		}

		configs = append(configs, r.fromDoc(&d))
	}

	return configs, nil
}

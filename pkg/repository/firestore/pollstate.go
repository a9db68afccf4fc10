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

const pollStatesCollection = "poll_states"

type pollStateRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

var _ interfaces.PollStateRepository = &pollStateRepository{}

func newPollStateRepository(client *firestore.Client) *pollStateRepository {
	return &pollStateRepository{client: client}
}

// pollStateDoc is the Firestore persistence model. Member keys are decimal
// user IDs: Firestore map keys must be strings.
type pollStateDoc struct {
	Members  map[string]memberDoc `firestore:"members"`
	PolledAt time.Time            `firestore:"polled_at"`
}

type memberDoc struct {
	Username string `firestore:"username"`
	Rank     int    `firestore:"rank"`
	RankName string `firestore:"rank_name"`
}

func (r *pollStateRepository) collection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_" + pollStatesCollection)
	}
	return r.client.Collection(pollStatesCollection)
}

func (r *pollStateRepository) toDoc(state *model.PollState) *pollStateDoc {
	members := make(map[string]memberDoc, len(state.Members))
	for id, m := range state.Members {
		members[id.String()] = memberDoc{
			Username: m.Username,
			Rank:     m.Rank,
			RankName: m.RankName,
		}
	}
	return &pollStateDoc{
		Members:  members,
		PolledAt: state.PolledAt,
	}
}

func (r *pollStateRepository) fromDoc(doc *pollStateDoc) (*model.PollState, error) {
	members := make(model.Snapshot, len(doc.Members))
	for key, m := range doc.Members {
		id, err := types.ParseUserID(key)
		if err != nil {
			return nil, goerr.Wrap(err, "corrupt poll state member key", goerr.V("key", key))
		}
		members[id] = model.Member{
			Username: m.Username,
			Rank:     m.Rank,
			RankName: m.RankName,
		}
	}
	return &model.PollState{
		Members:  members,
		PolledAt: doc.PolledAt,
	}, nil
}

// Get retrieves the poll state of a community. Absence is not an error:
// it means the community has never completed a cycle.
func (r *pollStateRepository) Get(ctx context.Context, id types.CommunityID) (*model.PollState, error) {
	doc, err := r.collection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get poll state", goerr.V("id", id))
	}

	var d pollStateDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal poll state", goerr.V("id", id))
	}

	return r.fromDoc(&d)
}

// Put atomically replaces the poll state of a community
func (r *pollStateRepository) Put(ctx context.Context, id types.CommunityID, state *model.PollState) error {
	if _, err := r.collection().Doc(string(id)).Set(ctx, r.toDoc(state)); err != nil {
		return goerr.Wrap(err, "failed to save poll state", goerr.V("id", id))
	}
	return nil
}

// List retrieves all poll states keyed by community ID
func (r *pollStateRepository) List(ctx context.Context) (map[types.CommunityID]*model.PollState, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	states := make(map[types.CommunityID]*model.PollState)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate poll states")
		}

		var d pollStateDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal poll state", goerr.V("docID", doc.Ref.ID))
		}

		state, err := r.fromDoc(&d)
		if err != nil {
			return nil, err
		}
		states[types.CommunityID(doc.Ref.ID)] = state
	}

	return states, nil
}

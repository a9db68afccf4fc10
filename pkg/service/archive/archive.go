package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
)

// Archive writes committed poll snapshots to a Cloud Storage bucket so an
// operator can restore or inspect history. The live system never reads
// these objects.
type Archive struct {
	client *storage.Client
	bucket string
}

// New creates a snapshot archive writing to the given bucket
func New(ctx context.Context, bucket string) (*Archive, error) {
	if bucket == "" {
		return nil, goerr.New("archive bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}

	return &Archive{client: client, bucket: bucket}, nil
}

// object is the archived JSON layout
type object struct {
	Community string                  `json:"community"`
	PolledAt  string                  `json:"polled_at"`
	Members   map[string]objectMember `json:"members"`
}

type objectMember struct {
	Username string `json:"username"`
	Rank     int    `json:"rank"`
	RankName string `json:"rank_name"`
}

// Save writes one snapshot as
// snapshots/<community>/<RFC3339 polled-at>.json
func (a *Archive) Save(ctx context.Context, id types.CommunityID, state *model.PollState) error {
	obj := object{
		Community: string(id),
		PolledAt:  state.PolledAt.UTC().Format("2006-01-02T15:04:05Z"),
		Members:   make(map[string]objectMember, len(state.Members)),
	}
	for userID, m := range state.Members {
		obj.Members[userID.String()] = objectMember{
			Username: m.Username,
			Rank:     m.Rank,
			RankName: m.RankName,
		}
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal snapshot", goerr.V("community", id))
	}

	name := fmt.Sprintf("snapshots/%s/%s.json", id, obj.PolledAt)
	w := a.client.Bucket(a.bucket).Object(name).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write snapshot object",
			goerr.V("bucket", a.bucket), goerr.V("object", name))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize snapshot object",
			goerr.V("bucket", a.bucket), goerr.V("object", name))
	}

	return nil
}

// Close releases the storage client
func (a *Archive) Close() error {
	return a.client.Close()
}

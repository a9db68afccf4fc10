package cli

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/watchman-lab/argus/pkg/cli/config"
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
	"github.com/watchman-lab/argus/pkg/utils/logging"
	"github.com/watchman-lab/argus/pkg/utils/safe"
)

// exportDoc is the JSON layout written by the export command
type exportDoc struct {
	ExportedAt  string                 `json:"exported_at"`
	Communities []exportCommunity      `json:"communities"`
	PollStates  map[string]exportState `json:"poll_states"`
}

type exportCommunity struct {
	ID        string                   `json:"id"`
	GroupID   int64                    `json:"group_id,omitempty"`
	ChannelID string                   `json:"channel_id,omitempty"`
	Trackers  map[string]exportTracker `json:"trackers,omitempty"`
	UpdatedAt time.Time                `json:"updated_at"`
}

type exportTracker struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

type exportState struct {
	PolledAt time.Time               `json:"polled_at"`
	Members  map[string]exportMember `json:"members"`
}

type exportMember struct {
	Username string `json:"username"`
	Rank     int    `json:"rank"`
	RankName string `json:"rank_name"`
}

func cmdExport() *cli.Command {
	var repoCfg config.Repository
	var output string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file path ('-' for stdout)",
			Value:       "-",
			Destination: &output,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Export all communities and poll states as JSON",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			doc, err := buildExportDoc(ctx, repo)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to marshal export document")
			}
			data = append(data, '\n')

			if output == "-" {
				safe.Write(ctx, os.Stdout, data)
				return nil
			}

			if err := os.WriteFile(output, data, 0600); err != nil {
				return goerr.Wrap(err, "failed to write export file", goerr.V("path", output))
			}
			logging.Default().Info("Export completed",
				"path", output,
				"communities", len(doc.Communities))
			return nil
		},
	}
}

func buildExportDoc(ctx context.Context, repo interfaces.Repository) (*exportDoc, error) {
	configs, err := repo.Community().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list communities")
	}

	states, err := repo.PollState().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list poll states")
	}

	doc := &exportDoc{
		ExportedAt:  time.Now().UTC().Format(time.RFC3339),
		Communities: make([]exportCommunity, 0, len(configs)),
		PollStates:  make(map[string]exportState, len(states)),
	}

	for _, cfg := range configs {
		out := exportCommunity{
			ID:        cfg.ID.String(),
			GroupID:   int64(cfg.GroupID),
			ChannelID: cfg.ChannelID.String(),
			UpdatedAt: cfg.UpdatedAt,
		}
		if len(cfg.Trackers) > 0 {
			out.Trackers = make(map[string]exportTracker, len(cfg.Trackers))
			for memberID, target := range cfg.Trackers {
				out.Trackers[memberID.String()] = exportTracker{
					UserID:   int64(target.UserID),
					Username: target.Username,
				}
			}
		}
		doc.Communities = append(doc.Communities, out)
	}

	for id, state := range states {
		out := exportState{
			PolledAt: state.PolledAt,
			Members:  make(map[string]exportMember, len(state.Members)),
		}
		for userID, m := range state.Members {
			out.Members[userID.String()] = exportMember{
				Username: m.Username,
				Rank:     m.Rank,
				RankName: m.RankName,
			}
		}
		doc.PollStates[id.String()] = out
	}

	return doc, nil
}

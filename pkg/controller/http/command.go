package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/watchman-lab/argus/pkg/domain/types"
	"github.com/watchman-lab/argus/pkg/usecase"
	"github.com/watchman-lab/argus/pkg/utils/async"
	"github.com/watchman-lab/argus/pkg/utils/errutil"
	"github.com/watchman-lab/argus/pkg/utils/safe"
)

const commandUsage = "Usage:\n" +
	"• `/argus setgroup <group-id>` — monitor a Roblox group\n" +
	"• `/argus cleargroup` — stop monitoring\n" +
	"• `/argus setchannel` — send notifications to this channel\n" +
	"• `/argus status` — show current configuration\n" +
	"• `/argus sniper add [@member] <roblox-username>` — track a Roblox user\n" +
	"• `/argus sniper remove [@member]` — stop tracking\n" +
	"• `/argus sniper list` — list all tracked users\n" +
	"• `/argus say <text>` — repeat text in this channel"

// commandReply is the delayed response to a slash command. Replies are
// ephemeral unless the command is explicitly a channel broadcast.
type commandReply struct {
	text      string
	inChannel bool
}

func ephemeral(text string) commandReply {
	return commandReply{text: text}
}

// SlackCommandHandler handles the /argus slash command
type SlackCommandHandler struct {
	uc         *usecase.UseCases
	httpClient *http.Client
}

type CommandOption func(*SlackCommandHandler)

// WithResponseClient overrides the HTTP client used to deliver delayed
// responses to Slack's response_url
func WithResponseClient(client *http.Client) CommandOption {
	return func(h *SlackCommandHandler) {
		h.httpClient = client
	}
}

func NewSlackCommandHandler(uc *usecase.UseCases, opts ...CommandOption) *SlackCommandHandler {
	h := &SlackCommandHandler{
		uc:         uc,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *SlackCommandHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cmd, err := slack.SlashCommandParse(r)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slash command"), http.StatusBadRequest)
		return
	}

	// Ack within Slack's 3-second window. The actual work may hit the
	// Roblox API, so the reply goes through response_url instead.
	w.WriteHeader(http.StatusOK)

	async.Dispatch(ctx, func(ctx context.Context) error {
		reply := h.runCommand(ctx, &cmd)
		return h.respond(ctx, cmd.ResponseURL, reply)
	})
}

// runCommand executes a slash command and returns the user-facing reply
func (h *SlackCommandHandler) runCommand(ctx context.Context, cmd *slack.SlashCommand) commandReply {
	communityID := types.CommunityID(cmd.TeamID)
	memberID := types.MemberID(cmd.UserID)
	args := strings.Fields(cmd.Text)

	if len(args) == 0 {
		return ephemeral(commandUsage)
	}

	switch args[0] {
	case "setgroup":
		if len(args) != 2 {
			return ephemeral("Usage: `/argus setgroup <group-id>`")
		}
		groupID, err := types.ParseGroupID(args[1])
		if err != nil || groupID.Validate() != nil {
			return ephemeral(fmt.Sprintf("`%s` is not a valid group ID.", args[1]))
		}
		if err := h.uc.Community.SetGroup(ctx, communityID, groupID); err != nil {
			return h.fail(ctx, err)
		}
		return ephemeral(fmt.Sprintf("Now monitoring group `%s`.", groupID))

	case "cleargroup":
		if err := h.uc.Community.ClearGroup(ctx, communityID); err != nil {
			if errors.Is(err, usecase.ErrGroupNotSet) {
				return ephemeral("No group is configured.")
			}
			return h.fail(ctx, err)
		}
		return ephemeral("Group monitoring stopped.")

	case "setchannel":
		if err := h.uc.Community.SetChannel(ctx, communityID, types.ChannelID(cmd.ChannelID)); err != nil {
			return h.fail(ctx, err)
		}
		return ephemeral(fmt.Sprintf("Notifications will be sent to <#%s>.", cmd.ChannelID))

	case "status":
		cfg, err := h.uc.Community.Status(ctx, communityID)
		if err != nil {
			return h.fail(ctx, err)
		}
		var b strings.Builder
		if cfg.GroupID.IsSet() {
			fmt.Fprintf(&b, "Group: `%s`\n", cfg.GroupID)
		} else {
			b.WriteString("Group: not set\n")
		}
		if cfg.ChannelID != "" {
			fmt.Fprintf(&b, "Channel: <#%s>\n", cfg.ChannelID)
		} else {
			b.WriteString("Channel: not set\n")
		}
		fmt.Fprintf(&b, "Trackers: %d", len(cfg.Trackers))
		return ephemeral(b.String())

	case "sniper":
		return h.runSniper(ctx, communityID, memberID, args[1:])

	case "say":
		text := strings.TrimSpace(strings.TrimPrefix(cmd.Text, "say"))
		if text == "" {
			return ephemeral("Usage: `/argus say <text>`")
		}
		return commandReply{text: text, inChannel: true}

	case "help":
		return ephemeral(commandUsage)

	default:
		return ephemeral(fmt.Sprintf("Unknown command `%s`.\n%s", args[0], commandUsage))
	}
}

func (h *SlackCommandHandler) runSniper(ctx context.Context, communityID types.CommunityID, memberID types.MemberID, args []string) commandReply {
	if len(args) == 0 {
		return ephemeral("Usage: `/argus sniper add [@member] <roblox-username>` | `remove [@member]` | `list`")
	}

	switch args[0] {
	case "add":
		// `sniper add [@member] <roblox-username>`; the member defaults to
		// the issuer
		var username string
		switch len(args) {
		case 2:
			username = args[1]
		case 3:
			memberID = parseMemberArg(args[1])
			username = args[2]
		default:
			return ephemeral("Usage: `/argus sniper add [@member] <roblox-username>`")
		}
		target, err := h.uc.Tracker.Add(ctx, communityID, memberID, username)
		if err != nil {
			if errors.Is(err, usecase.ErrUserNotFound) {
				return ephemeral(fmt.Sprintf("Roblox user `%s` was not found.", username))
			}
			return h.fail(ctx, err)
		}
		return ephemeral(fmt.Sprintf("Now tracking `%s` (%d) for <@%s>.", target.Username, target.UserID, memberID))

	case "remove":
		if len(args) == 2 {
			memberID = parseMemberArg(args[1])
		}
		if err := h.uc.Tracker.Remove(ctx, communityID, memberID); err != nil {
			if errors.Is(err, usecase.ErrTrackerNotFound) {
				return ephemeral(fmt.Sprintf("No tracker for <@%s>.", memberID))
			}
			return h.fail(ctx, err)
		}
		return ephemeral("Tracker removed.")

	case "list":
		entries, err := h.uc.Tracker.List(ctx, communityID)
		if err != nil {
			return h.fail(ctx, err)
		}
		if len(entries) == 0 {
			return ephemeral("No tracked users.")
		}
		var b strings.Builder
		b.WriteString("Tracked users:\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "• <@%s> → `%s` (%d)\n", e.MemberID, e.Target.Username, e.Target.UserID)
		}
		return ephemeral(strings.TrimRight(b.String(), "\n"))

	default:
		return ephemeral(fmt.Sprintf("Unknown sniper command `%s`.", args[0]))
	}
}

// parseMemberArg extracts the user ID from a Slack mention token, which
// arrives as <@U123ABC> or <@U123ABC|display-name>. A bare ID passes
// through unchanged.
func parseMemberArg(arg string) types.MemberID {
	s := strings.TrimSuffix(strings.TrimPrefix(arg, "<@"), ">")
	if i := strings.IndexByte(s, '|'); i >= 0 {
		s = s[:i]
	}
	return types.MemberID(s)
}

// fail reports an internal error and returns a generic user-facing message
func (h *SlackCommandHandler) fail(ctx context.Context, err error) commandReply {
	errutil.Handle(ctx, err, "slash command failed")
	return ephemeral("Something went wrong, please try again.")
}

// respond delivers the command result to Slack's response_url
func (h *SlackCommandHandler) respond(ctx context.Context, responseURL string, reply commandReply) error {
	responseType := "ephemeral"
	if reply.inChannel {
		responseType = "in_channel"
	}
	payload := map[string]string{
		"response_type": responseType,
		"text":          reply.text,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal command response")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, responseURL, bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "failed to build response request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to deliver command response")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status from response_url",
			goerr.V("status", resp.StatusCode), goerr.V("url", responseURL))
	}
	return nil
}

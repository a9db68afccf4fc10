package slack

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
	"github.com/watchman-lab/argus/pkg/domain/types"
)

// client implements interfaces.Notifier over the Slack Web API
type client struct {
	api *slack.Client
}

var _ interfaces.Notifier = &client{}

// New creates a new Slack notifier with the provided bot token
func New(token string) (interfaces.Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}

	return &client{api: slack.New(token)}, nil
}

// Post sends a message to the channel. The caller treats failures as
// fire-and-forget: log and move on.
func (c *client) Post(ctx context.Context, channelID types.ChannelID, text string) error {
	_, _, err := c.api.PostMessageContext(ctx, string(channelID),
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post message", goerr.V("channel_id", channelID))
	}
	return nil
}

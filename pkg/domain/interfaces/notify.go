package interfaces

import (
	"context"

	"github.com/watchman-lab/argus/pkg/domain/types"
)

// Notifier delivers notification text to a channel. Fire-and-forget:
// callers log delivery failures and move on.
type Notifier interface {
	Post(ctx context.Context, channelID types.ChannelID, text string) error
}

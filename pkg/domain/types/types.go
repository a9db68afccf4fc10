package types

import (
	"strconv"

	"github.com/m-mizutani/goerr/v2"
)

// CommunityID identifies a Slack workspace (team) that has its own
// monitoring configuration
type CommunityID string

// Validate checks if the CommunityID is valid
func (c CommunityID) Validate() error {
	if c == "" {
		return goerr.New("community ID cannot be empty")
	}
	return nil
}

// String returns the string representation of CommunityID
func (c CommunityID) String() string {
	return string(c)
}

// ChannelID identifies the Slack channel that receives notifications
type ChannelID string

// String returns the string representation of ChannelID
func (c ChannelID) String() string {
	return string(c)
}

// MemberID identifies a Slack user within a community. Tracked targets are
// keyed by the Slack user they are linked to.
type MemberID string

// Validate checks if the MemberID is valid
func (m MemberID) Validate() error {
	if m == "" {
		return goerr.New("member ID cannot be empty")
	}
	return nil
}

// String returns the string representation of MemberID
func (m MemberID) String() string {
	return string(m)
}

// GroupID identifies a Roblox group
type GroupID int64

// Validate checks if the GroupID is valid
func (g GroupID) Validate() error {
	if g <= 0 {
		return goerr.New("group ID must be positive", goerr.V("id", int64(g)))
	}
	return nil
}

// IsSet reports whether a group has been configured
func (g GroupID) IsSet() bool {
	return g > 0
}

// String returns the decimal representation of GroupID
func (g GroupID) String() string {
	return strconv.FormatInt(int64(g), 10)
}

// ParseGroupID parses a decimal group ID string
func ParseGroupID(s string) (GroupID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid group ID", goerr.V("value", s))
	}
	return GroupID(v), nil
}

// UserID identifies a Roblox user
type UserID int64

// Validate checks if the UserID is valid
func (u UserID) Validate() error {
	if u <= 0 {
		return goerr.New("user ID must be positive", goerr.V("id", int64(u)))
	}
	return nil
}

// String returns the decimal representation of UserID
func (u UserID) String() string {
	return strconv.FormatInt(int64(u), 10)
}

// ParseUserID parses a decimal user ID string
func ParseUserID(s string) (UserID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid user ID", goerr.V("value", s))
	}
	return UserID(v), nil
}

package roblox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/watchman-lab/argus/pkg/domain/interfaces"
	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
	"github.com/watchman-lab/argus/pkg/utils/logging"
	"github.com/watchman-lab/argus/pkg/utils/safe"
)

const (
	defaultGroupsBaseURL = "https://groups.roblox.com"
	defaultUsersBaseURL  = "https://users.roblox.com"
	defaultLegacyBaseURL = "https://api.roblox.com"

	// defaultPageSize is the maximum the groups API accepts per page
	defaultPageSize = 100

	// defaultMaxPages is a fail-safe against a misbehaving cursor: 1000
	// pages of 100 covers any realistic group
	defaultMaxPages = 1000
)

var (
	ErrFetch              = goerr.New("roster fetch failed")
	ErrPaginationOverflow = goerr.New("roster pagination exceeded page limit")
	ErrUserNotFound       = goerr.New("user not found")
)

// Client talks to the Roblox web APIs
type Client struct {
	http          *http.Client
	groupsBaseURL string
	usersBaseURL  string
	legacyBaseURL string
	pageSize      int
	maxPages      int
}

var _ interfaces.RosterClient = &Client{}

// Option is a functional option for client configuration
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithGroupsBaseURL overrides the groups API endpoint
func WithGroupsBaseURL(u string) Option {
	return func(c *Client) {
		c.groupsBaseURL = u
	}
}

// WithUsersBaseURL overrides the users API endpoint
func WithUsersBaseURL(u string) Option {
	return func(c *Client) {
		c.usersBaseURL = u
	}
}

// WithLegacyBaseURL overrides the legacy username-lookup endpoint
func WithLegacyBaseURL(u string) Option {
	return func(c *Client) {
		c.legacyBaseURL = u
	}
}

// WithPageSize sets the roster page size
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// WithMaxPages sets the pagination fail-safe limit
func WithMaxPages(n int) Option {
	return func(c *Client) {
		c.maxPages = n
	}
}

// New creates a Roblox API client
func New(opts ...Option) *Client {
	c := &Client{
		http:          &http.Client{Timeout: 30 * time.Second},
		groupsBaseURL: defaultGroupsBaseURL,
		usersBaseURL:  defaultUsersBaseURL,
		legacyBaseURL: defaultLegacyBaseURL,
		pageSize:      defaultPageSize,
		maxPages:      defaultMaxPages,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRoster retrieves the complete membership of a group, following the
// server cursor until exhausted. All-or-nothing: any page failure discards
// the pages already fetched, since a partial roster would read as a mass
// leave to the delta engine.
func (c *Client) FetchRoster(ctx context.Context, groupID types.GroupID) (model.Snapshot, error) {
	snapshot := make(model.Snapshot)
	cursor := ""

	for page := 0; ; page++ {
		if page >= c.maxPages {
			return nil, goerr.Wrap(ErrPaginationOverflow, "giving up on roster fetch",
				goerr.V("group_id", groupID), goerr.V("max_pages", c.maxPages))
		}

		reqURL := fmt.Sprintf("%s/v1/groups/%d/users?limit=%d", c.groupsBaseURL, groupID, c.pageSize)
		if cursor != "" {
			reqURL += "&cursor=" + url.QueryEscape(cursor)
		}

		var resp groupUsersResponse
		if err := c.getJSON(ctx, reqURL, &resp); err != nil {
			return nil, goerr.Wrap(err, "failed to fetch roster page",
				goerr.V("group_id", groupID), goerr.V("page", page))
		}

		for _, entry := range resp.Data {
			// Duplicate IDs across pages: last seen wins
			snapshot[types.UserID(entry.User.UserID)] = model.Member{
				Username: entry.User.Name,
				Rank:     entry.Role.Rank,
				RankName: entry.Role.Name,
			}
		}

		if resp.NextPageCursor == "" {
			return snapshot, nil
		}
		cursor = resp.NextPageCursor
	}
}

// FetchUsername returns the display name of a user. On any failure it
// returns a "User <id>" placeholder: the name only decorates a leave
// notification, so degrading beats failing the cycle.
func (c *Client) FetchUsername(ctx context.Context, userID types.UserID) string {
	reqURL := fmt.Sprintf("%s/v1/users/%d", c.usersBaseURL, userID)

	var resp userResponse
	if err := c.getJSON(ctx, reqURL, &resp); err != nil || resp.Name == "" {
		logging.From(ctx).Warn("username lookup failed, using placeholder",
			"user_id", userID, "error", err)
		return fmt.Sprintf("User %d", userID)
	}
	return resp.Name
}

// ResolveUsername resolves a Roblox username to its stable user ID.
// Returns ErrUserNotFound when the name does not resolve or resolves to
// ID 0.
func (c *Client) ResolveUsername(ctx context.Context, username string) (types.UserID, error) {
	reqURL := fmt.Sprintf("%s/users/get-by-username?username=%s", c.legacyBaseURL, url.QueryEscape(username))

	var resp legacyUserLookup
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return 0, goerr.Wrap(ErrUserNotFound, "username lookup failed",
			goerr.V("username", username))
	}
	if resp.ID == 0 {
		return 0, goerr.Wrap(ErrUserNotFound, "username did not resolve",
			goerr.V("username", username))
	}

	return types.UserID(resp.ID), nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("url", reqURL))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return goerr.Wrap(ErrFetch, "request failed", goerr.V("url", reqURL), goerr.V("cause", err.Error()))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.Wrap(ErrFetch, "unexpected status",
			goerr.V("url", reqURL), goerr.V("status", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(ErrFetch, "failed to decode response",
			goerr.V("url", reqURL), goerr.V("cause", err.Error()))
	}

	return nil
}

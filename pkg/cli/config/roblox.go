package config

import (
	"github.com/urfave/cli/v3"
	"github.com/watchman-lab/argus/pkg/service/roblox"
)

// Roblox holds CLI flags for the Roblox API client. The base URL overrides
// exist for testing against a stub server.
type Roblox struct {
	groupsBaseURL string
	usersBaseURL  string
	legacyBaseURL string
	pageSize      int
	maxPages      int
}

func (x *Roblox) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "roblox-groups-url",
			Usage:       "Override the Roblox groups API base URL",
			Category:    "Roblox",
			Sources:     cli.EnvVars("ARGUS_ROBLOX_GROUPS_URL"),
			Destination: &x.groupsBaseURL,
		},
		&cli.StringFlag{
			Name:        "roblox-users-url",
			Usage:       "Override the Roblox users API base URL",
			Category:    "Roblox",
			Sources:     cli.EnvVars("ARGUS_ROBLOX_USERS_URL"),
			Destination: &x.usersBaseURL,
		},
		&cli.StringFlag{
			Name:        "roblox-legacy-url",
			Usage:       "Override the Roblox legacy API base URL",
			Category:    "Roblox",
			Sources:     cli.EnvVars("ARGUS_ROBLOX_LEGACY_URL"),
			Destination: &x.legacyBaseURL,
		},
		&cli.IntFlag{
			Name:        "roblox-page-size",
			Usage:       "Roster page size (max 100)",
			Category:    "Roblox",
			Sources:     cli.EnvVars("ARGUS_ROBLOX_PAGE_SIZE"),
			Destination: &x.pageSize,
		},
		&cli.IntFlag{
			Name:        "roblox-max-pages",
			Usage:       "Pagination fail-safe limit per roster fetch",
			Category:    "Roblox",
			Sources:     cli.EnvVars("ARGUS_ROBLOX_MAX_PAGES"),
			Destination: &x.maxPages,
		},
	}
}

// Configure creates the Roblox API client
func (x *Roblox) Configure() *roblox.Client {
	var opts []roblox.Option
	if x.groupsBaseURL != "" {
		opts = append(opts, roblox.WithGroupsBaseURL(x.groupsBaseURL))
	}
	if x.usersBaseURL != "" {
		opts = append(opts, roblox.WithUsersBaseURL(x.usersBaseURL))
	}
	if x.legacyBaseURL != "" {
		opts = append(opts, roblox.WithLegacyBaseURL(x.legacyBaseURL))
	}
	if x.pageSize > 0 {
		opts = append(opts, roblox.WithPageSize(x.pageSize))
	}
	if x.maxPages > 0 {
		opts = append(opts, roblox.WithMaxPages(x.maxPages))
	}
	return roblox.New(opts...)
}

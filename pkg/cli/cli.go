package cli

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/watchman-lab/argus/pkg/cli/config"
	"github.com/watchman-lab/argus/pkg/utils/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var sentryDSN string
	var closer func()

	flags := loggerCfg.Flags()
	flags = append(flags, &cli.StringFlag{
		Name:        "sentry-dsn",
		Usage:       "Sentry DSN for error reporting (disabled when empty)",
		Sources:     cli.EnvVars("ARGUS_SENTRY_DSN"),
		Destination: &sentryDSN,
	})

	app := &cli.Command{
		Name:    "argus",
		Usage:   "Argus Roblox group roster watcher for Slack",
		Version: version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			if sentryDSN != "" {
				if err := sentry.Init(sentry.ClientOptions{
					Dsn:     sentryDSN,
					Release: version,
				}); err != nil {
					return ctx, goerr.Wrap(err, "failed to initialize sentry")
				}
				logging.Default().Info("Sentry error reporting enabled")
			}

			logging.Default().Info("Starting argus", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if sentryDSN != "" {
				sentry.Flush(2 * time.Second)
			}
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdMigrate(),
			cmdValidate(),
			cmdExport(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

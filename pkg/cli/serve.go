package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/watchman-lab/argus/pkg/cli/config"
	httpctrl "github.com/watchman-lab/argus/pkg/controller/http"
	"github.com/watchman-lab/argus/pkg/service/archive"
	"github.com/watchman-lab/argus/pkg/service/monitor"
	"github.com/watchman-lab/argus/pkg/usecase"
	"github.com/watchman-lab/argus/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var slackCfg config.Slack
	var robloxCfg config.Roblox
	var monitorCfg config.Monitor

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ARGUS_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, robloxCfg.Flags()...)
	flags = append(flags, monitorCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the roster monitor and HTTP server",
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

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure slack notifier")
			}

			roster := robloxCfg.Configure()
			uc := usecase.New(repo, roster)

			tuning, monOpts, err := monitorCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load monitor tuning")
			}

			if tuning.Archive.Bucket != "" {
				arc, err := archive.New(ctx, tuning.Archive.Bucket)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize snapshot archive")
				}
				defer func() {
					if err := arc.Close(); err != nil {
						logging.Default().Error("failed to close archive client", "error", err.Error())
					}
				}()
				monOpts = append(monOpts, monitor.WithArchiver(arc))
				logging.Default().Info("Snapshot archive enabled", "bucket", tuning.Archive.Bucket)
			}

			mon := monitor.New(repo, roster, notifier, monOpts...)
			mon.Start(ctx)

			var httpOpts []httpctrl.Options
			if slackCfg.IsWebhookConfigured() {
				secret := slackCfg.SigningSecret()
				httpOpts = append(httpOpts,
					httpctrl.WithSlackCommand(httpctrl.NewSlackCommandHandler(uc), secret),
					httpctrl.WithSlackEvent(httpctrl.NewSlackEventHandler(notifier), secret),
				)
				logging.Default().Info("Slack webhook endpoints enabled")
			} else {
				logging.Default().Warn("Slack signing secret not configured, slash commands disabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				mon.Stop()
				return err

			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop polling first so no cycle commits mid-shutdown
				mon.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

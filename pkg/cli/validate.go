package cli

import (
	"context"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/watchman-lab/argus/pkg/cli/config"
)

func cmdValidate() *cli.Command {
	var monitorCfg config.Monitor

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the monitor tuning file",
		Flags:   monitorCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			path := monitorCfg.TuningPath()
			if path == "" {
				return goerr.New("monitor-config is required")
			}

			tuning, err := config.LoadTuning(path)
			if err != nil {
				color.New(color.FgRed, color.Bold).Printf("✗ %s is invalid\n", path)
				return err
			}

			color.New(color.FgGreen, color.Bold).Printf("✓ %s is valid\n", path)
			color.New(color.FgWhite).Printf("  interval: %ds\n", tuning.IntervalSeconds)
			color.New(color.FgWhite).Printf("  concurrency: %d\n", tuning.Concurrency)
			if tuning.Archive.Bucket != "" {
				color.New(color.FgWhite).Printf("  archive bucket: %s\n", tuning.Archive.Bucket)
			} else {
				color.New(color.FgHiBlack).Println("  archive: disabled")
			}

			return nil
		},
	}
}

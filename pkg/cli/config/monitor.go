package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
	"github.com/watchman-lab/argus/pkg/service/monitor"
)

// Tuning is the optional TOML file that tunes the polling scheduler.
// All fields have sensible defaults; the file exists so operators can
// adjust pacing without a redeploy.
type Tuning struct {
	IntervalSeconds int     `toml:"interval_seconds"`
	Concurrency     int     `toml:"concurrency"`
	Archive         Archive `toml:"archive"`
}

// Archive configures the optional snapshot archive
type Archive struct {
	Bucket string `toml:"bucket"`
}

// Validate checks if the Tuning is valid
func (t *Tuning) Validate() error {
	if t.IntervalSeconds < 10 {
		return goerr.Wrap(ErrInvalidConfig, "interval_seconds must be at least 10",
			goerr.V("interval_seconds", t.IntervalSeconds))
	}
	if t.Concurrency < 1 || t.Concurrency > 64 {
		return goerr.Wrap(ErrInvalidConfig, "concurrency must be between 1 and 64",
			goerr.V("concurrency", t.Concurrency))
	}
	return nil
}

// DefaultTuning returns the tuning used when no file is given
func DefaultTuning() *Tuning {
	return &Tuning{
		IntervalSeconds: 60,
		Concurrency:     4,
	}
}

// LoadTuning loads scheduler tuning from a TOML file
func LoadTuning(path string) (*Tuning, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "tuning file not found", goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read tuning file", goerr.V("path", path))
	}

	tuning := DefaultTuning()
	if err := toml.Unmarshal(data, tuning); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML tuning file", goerr.V("path", path))
	}

	if err := tuning.Validate(); err != nil {
		return nil, goerr.Wrap(err, "tuning validation failed", goerr.V("path", path))
	}

	return tuning, nil
}

// Monitor holds CLI flags for the polling scheduler
type Monitor struct {
	tuningPath string
}

func (m *Monitor) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "monitor-config",
			Usage:       "Path to a TOML file tuning the polling scheduler",
			Category:    "Monitor",
			Sources:     cli.EnvVars("ARGUS_MONITOR_CONFIG"),
			Destination: &m.tuningPath,
		},
	}
}

// TuningPath returns the configured tuning file path
func (m *Monitor) TuningPath() string {
	return m.tuningPath
}

// Configure loads the tuning file (or the defaults) and converts it into
// scheduler options
func (m *Monitor) Configure() (*Tuning, []monitor.Option, error) {
	tuning := DefaultTuning()
	if m.tuningPath != "" {
		loaded, err := LoadTuning(m.tuningPath)
		if err != nil {
			return nil, nil, err
		}
		tuning = loaded
	}

	opts := []monitor.Option{
		monitor.WithInterval(time.Duration(tuning.IntervalSeconds) * time.Second),
		monitor.WithConcurrency(tuning.Concurrency),
	}
	return tuning, opts, nil
}

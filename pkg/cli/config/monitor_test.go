package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/watchman-lab/argus/pkg/cli/config"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.toml")
	gt.NoError(t, os.WriteFile(path, []byte(body), 0600)).Required()
	return path
}

func TestLoadTuning(t *testing.T) {
	path := writeTuning(t, `
interval_seconds = 120
concurrency = 8

[archive]
bucket = "argus-snapshots"
`)

	tuning := gt.R1(config.LoadTuning(path)).NoError(t)
	gt.Value(t, tuning.IntervalSeconds).Equal(120)
	gt.Value(t, tuning.Concurrency).Equal(8)
	gt.Value(t, tuning.Archive.Bucket).Equal("argus-snapshots")
}

func TestLoadTuningDefaults(t *testing.T) {
	// Fields missing from the file keep their defaults
	path := writeTuning(t, `interval_seconds = 30`)

	tuning := gt.R1(config.LoadTuning(path)).NoError(t)
	gt.Value(t, tuning.IntervalSeconds).Equal(30)
	gt.Value(t, tuning.Concurrency).Equal(4)
	gt.Value(t, tuning.Archive.Bucket).Equal("")
}

func TestLoadTuningMissingFile(t *testing.T) {
	_, err := config.LoadTuning(filepath.Join(t.TempDir(), "no-such.toml"))
	gt.Error(t, err).Is(config.ErrConfigNotFound)
}

func TestLoadTuningInvalid(t *testing.T) {
	cases := map[string]string{
		"interval too small":    `interval_seconds = 5`,
		"zero concurrency":      `concurrency = 0`,
		"excessive concurrency": `concurrency = 100`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeTuning(t, body)
			_, err := config.LoadTuning(path)
			gt.Error(t, err).Is(config.ErrInvalidConfig)
		})
	}
}

func TestLoadTuningBadTOML(t *testing.T) {
	path := writeTuning(t, `interval_seconds = "sixty"`)
	_, err := config.LoadTuning(path)
	gt.Error(t, err)
}

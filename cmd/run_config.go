package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/rollup/rollup"
)

// RunConfig represents a YAML run configuration file.
// Unknown keys are rejected by KnownFields(true) strict parsing so typos fail loudly.
type RunConfig struct {
	TraceList  string `yaml:"tlist"`
	ExpFile    string `yaml:"exp"`
	MetricFile string `yaml:"mfile"`
	Extension  string `yaml:"ext"`
	Threads    int    `yaml:"threads"`
	LogDir     string `yaml:"log_dir"`
}

// loadRunConfig parses a run configuration file.
// Uses strict field checking.
func loadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return &cfg, nil
}

// resolveConfig builds the rollup configuration from flags and the optional
// run config file. A flag overrides the file only when set explicitly
// (cmd.Flags().Changed); otherwise the file value wins over the flag default.
func resolveConfig(cmd *cobra.Command) (rollup.Config, error) {
	cfg := rollup.Config{
		TraceFile:  traceListPath,
		ExpFile:    expFilePath,
		MetricFile: metricFilePath,
		Options: rollup.Options{
			Extension: logExtension,
			LogDir:    logDir,
			Workers:   numThreads,
		},
	}

	if runConfigPath != "" {
		file, err := loadRunConfig(runConfigPath)
		if err != nil {
			return rollup.Config{}, err
		}
		flags := cmd.Flags()
		overlay := func(flag string, dst *string, val string) {
			if val != "" && !flags.Changed(flag) {
				*dst = val
			}
		}
		overlay("tlist", &cfg.TraceFile, file.TraceList)
		overlay("exp", &cfg.ExpFile, file.ExpFile)
		overlay("mfile", &cfg.MetricFile, file.MetricFile)
		overlay("ext", &cfg.Extension, file.Extension)
		overlay("log-dir", &cfg.LogDir, file.LogDir)
		if file.Threads != 0 && !flags.Changed("threads") {
			cfg.Workers = file.Threads
		}
	}

	var missing []error
	if cfg.TraceFile == "" {
		missing = append(missing, errors.New("trace list (--tlist) is required"))
	}
	if cfg.ExpFile == "" {
		missing = append(missing, errors.New("experiment file (--exp) is required"))
	}
	if cfg.MetricFile == "" {
		missing = append(missing, errors.New("metric file (--mfile) is required"))
	}
	if err := errors.Join(missing...); err != nil {
		return rollup.Config{}, err
	}
	return cfg, nil
}

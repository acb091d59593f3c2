package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/inference-sim/rollup/rollup"
)

// HomeEnvVar must name the installation root before any rollup runs.
const HomeEnvVar = "PYTHIA_HOME"

var (
	// CLI flags for the rollup run
	traceListPath  string // Trace list file
	expFilePath    string // Experiment definition file
	metricFilePath string // Metric definition file
	logExtension   string // Log file extension (out, stats, ...)
	logDir         string // Directory holding <trace>_<exp>.<ext> logs
	numThreads     int    // Worker pool size; <= 0 uses all CPUs
	runConfigPath  string // Optional YAML run configuration
	logLevel       string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Summarize experiment metrics across traces into a CSV matrix",
}

// runCmd computes the rollup using parameters from CLI flags and the optional run config
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Roll up per-run logs into CSV on stdout",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if err := checkHome(); err != nil {
			logrus.Fatalf("%v", err)
		}

		cfg, err := resolveConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid run configuration: %v", err)
		}

		if err := runRollup(cmd.Context(), cfg, os.Stdout); err != nil {
			logrus.Fatalf("Rollup failed: %v", err)
		}
		logrus.Info("Rollup complete.")
	},
}

// checkHome verifies the installation root variable is set.
func checkHome() error {
	if _, ok := os.LookupEnv(HomeEnvVar); !ok {
		return fmt.Errorf("$%s env variable is not defined.\nHave you sourced setvars.sh?", HomeEnvVar)
	}
	return nil
}

func runRollup(ctx context.Context, cfg rollup.Config, out io.Writer) error {
	logrus.Infof("Rolling up tlist=%s exp=%s mfile=%s ext=%s", cfg.TraceFile, cfg.ExpFile, cfg.MetricFile, cfg.Extension)
	return rollup.Run(ctx, cfg, out)
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerRunFlags binds the run flags to their package-level variables,
// resetting each variable to its default.
func registerRunFlags(fs *pflag.FlagSet) {
	fs.StringVar(&traceListPath, "tlist", "", "Trace list file")
	fs.StringVar(&expFilePath, "exp", "", "Experiment definition file")
	fs.StringVar(&metricFilePath, "mfile", "", "Metric definition file")
	fs.StringVar(&logExtension, "ext", rollup.DefaultExtension, "Log file extension (stats selects key=value logs)")
	fs.StringVar(&logDir, "log-dir", ".", "Directory containing <trace>_<exp>.<ext> log files")
	fs.IntVarP(&numThreads, "threads", "t", 0, "Number of worker threads (<= 0 uses all CPUs)")
	fs.StringVar(&runConfigPath, "config", "", "Optional YAML run configuration; explicit flags override it")
	fs.StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	registerRunFlags(runCmd.Flags())

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sensormock",
	Short: "sensormock simulates a streaming telemetry device over HTTP",
	Long: `sensormock is a mock HTTP server that behaves like a telemetry device.

It streams synthetic sensor readings as newline-delimited JSON, serves
single-shot snapshots, and accepts client JSON for logging and echo. Readings
can optionally be mirrored to MQTT and Kafka.

Running sensormock without a command is the same as 'sensormock serve'.`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Execute()
}

// Execute runs the root command and exits with status 1 on error.
func Execute() {
	rootCmd.SetArgs(defaultToServe(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// defaultToServe routes a bare invocation, or one starting with a flag, to
// the serve command.
func defaultToServe(args []string) []string {
	if len(args) == 0 {
		return []string{"serve"}
	}
	first := args[0]
	if !strings.HasPrefix(first, "-") {
		return args
	}
	switch first {
	case "-h", "--help", "--version":
		return args
	}
	return append([]string{"serve"}, args...)
}

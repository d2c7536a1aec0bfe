package cmd

import (
	"errors"
	"os"

	"goldenapi/internal/config"
	"goldenapi/internal/harness"
	"goldenapi/internal/request"
	"goldenapi/internal/snapshot"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeFailures indicates that test cases failed comparison.
	ExitCodeFailures = 1
	// ExitCodeSetup indicates a configuration or setup error.
	ExitCodeSetup = 2
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "goldenapi",
	Short: "Golden-file testing for metadata-described APIs",
	Long: `goldenapi enumerates the read operations of an API described by a
metadata descriptor, synthesizes requests across periods and formats,
normalizes the responses and compares them against stored baselines.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "goldenapi version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitCodeSetup
	}

	var storeErr *snapshot.StoreUnwritableError
	if errors.As(err, &storeErr) {
		return ExitCodeSetup
	}

	var coverageErr *request.InsufficientCoverageError
	if errors.As(err, &coverageErr) {
		return ExitCodeSetup
	}

	var probeErr *request.ProbeError
	if errors.As(err, &probeErr) {
		return ExitCodeSetup
	}

	var failures *harness.FailuresError
	if errors.As(err, &failures) {
		return ExitCodeFailures
	}

	var missing *snapshot.MissingBaselinesError
	if errors.As(err, &missing) {
		return ExitCodeFailures
	}

	var mismatches *snapshot.ComparisonFailures
	if errors.As(err, &mismatches) {
		return ExitCodeFailures
	}

	// Flag and argument errors
	return ExitCodeSetup
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}

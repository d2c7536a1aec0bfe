package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goldenapi/internal/api"
	"goldenapi/internal/config"
	"goldenapi/internal/dispatch"
	"goldenapi/internal/env"
	"goldenapi/internal/harness"
	"goldenapi/internal/registry"
	"goldenapi/internal/snapshot"
	"goldenapi/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	testSuitePath  string
	testDescriptor string
	testStorePath  string
	testBaseURL    string
	testToken      string
	testFixtures   string
	testCase       string
	testTimeout    time.Duration
	testVerbose    bool
	testDebug      bool
	testQuiet      bool
	testNoColor    bool
	testLogFormat  string
	testLogLevel   string
	testReportPath string
	testWatch      bool
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run golden-file suites against an API",
	Long: `The test command runs every case of the given suites. Each case enumerates
the selected API operations, synthesizes one request per operation, period
and format, executes it, normalizes the response and compares it with the
baseline stored under <store>/expected.

Missing baselines are written from the produced output and reported as
failures, so the first run of a new case fails once. Check the files under
<store>/processed and rerun, or promote them with 'goldenapi promote'.

Responses come either from a live endpoint (--base-url) or from recorded
fixtures (--fixtures).

Example usage:
  goldenapi test --suite suites/ --descriptor api.yaml --store store --base-url http://localhost
  goldenapi test --suite suites/visits.yaml --descriptor api.yaml --store store --fixtures testdata/fixtures
  goldenapi test ... --case lastN --verbose
  goldenapi test ... --report reports/run.json
  goldenapi test ... --watch

Exit codes: 0 when every case passed, 1 when cases failed, 2 on
configuration or setup errors.`,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().StringVar(&testSuitePath, "suite", "", "Suite file or directory of suite files")
	testCmd.Flags().StringVar(&testDescriptor, "descriptor", "", "API descriptor file")
	testCmd.Flags().StringVar(&testStorePath, "store", "store", "Directory holding processed/ and expected/")

	// Response source
	testCmd.Flags().StringVar(&testBaseURL, "base-url", "", "Base URL of the API under test")
	testCmd.Flags().StringVar(&testToken, "token", "", "token_auth sent with every request")
	testCmd.Flags().StringVar(&testFixtures, "fixtures", "", "Directory of recorded responses to replay")

	testCmd.Flags().StringVar(&testCase, "case", "", "Run only the case (or suite) with this name")
	testCmd.Flags().DurationVar(&testTimeout, "timeout", 30*time.Minute, "Overall run timeout")

	// Output and debugging
	testCmd.Flags().BoolVar(&testVerbose, "verbose", false, "Enable verbose test output")
	testCmd.Flags().BoolVar(&testDebug, "debug", false, "Enable debug logging and per-request output")
	testCmd.Flags().BoolVar(&testQuiet, "quiet", false, "Only print failures and a one-line summary")
	testCmd.Flags().BoolVar(&testNoColor, "no-color", false, "Disable colored table output")
	testCmd.Flags().StringVar(&testLogFormat, "log-format", string(logging.FormatText), "Log format (text, json)")
	testCmd.Flags().StringVar(&testLogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides --verbose and --debug")
	testCmd.Flags().StringVar(&testReportPath, "report", "", "Path to save a JSON report")
	testCmd.Flags().BoolVar(&testWatch, "watch", false, "Rerun when suite or descriptor files change")

	_ = testCmd.MarkFlagRequired("suite")
	_ = testCmd.MarkFlagRequired("descriptor")
	testCmd.MarkFlagsMutuallyExclusive("base-url", "fixtures")
	testCmd.MarkFlagsOneRequired("base-url", "fixtures")
	testCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	testCmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if testLogFormat != string(logging.FormatText) && testLogFormat != string(logging.FormatJSON) {
			return fmt.Errorf("invalid log format '%s', must be 'text' or 'json'", testLogFormat)
		}
		if testLogLevel != "" {
			if _, err := logging.ParseLevel(testLogLevel); err != nil {
				return err
			}
		}
		return nil
	}
}

func runTest(cmd *cobra.Command, args []string) error {
	initLogging(cmd.ErrOrStderr(), testLogLevel, testVerbose, testDebug, logging.Format(testLogFormat))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "\nReceived interrupt signal, stopping...")
			cancel()
		case <-ctx.Done():
		}
	}()

	run := func() error {
		runCtx, runCancel := context.WithTimeout(ctx, testTimeout)
		defer runCancel()
		return runSuites(runCtx, cmd.OutOrStdout())
	}

	if !testWatch {
		return run()
	}
	return watchAndRerun(ctx, cmd.OutOrStdout(), []string{testSuitePath, testDescriptor}, run)
}

// runSuites loads everything from disk and runs the suites once.
func runSuites(ctx context.Context, out io.Writer) error {
	suites, err := config.LoadSuites(testSuitePath)
	if err != nil {
		return err
	}
	reg, err := registry.LoadFile(testDescriptor)
	if err != nil {
		return err
	}
	executor, target, err := newExecutor()
	if err != nil {
		return err
	}
	store, err := snapshot.NewStore(testStorePath)
	if err != nil {
		return err
	}

	h := harness.New(reg, executor, store,
		harness.WithLogger(harness.NewWriterLogger(out, os.Stderr, testVerbose, testDebug)),
	)
	runCfg := harness.RunConfiguration{
		SuitePath:  testSuitePath,
		Descriptor: testDescriptor,
		Store:      store.Root(),
		Target:     target,
		Case:       testCase,
		Timeout:    testTimeout,
		ReportPath: testReportPath,
	}
	opts := []harness.RunnerOption{harness.WithMode(env.FromEnvironment())}
	if testCase != "" {
		opts = append(opts, harness.WithCaseFilter(testCase))
	}

	var result *harness.SuiteResult
	if testQuiet {
		result = runQuiet(ctx, out, h, runCfg, suites, opts)
	} else {
		reporter := harness.NewTestReporter(harness.ReporterOptions{
			Verbose:    testVerbose,
			Debug:      testDebug,
			Color:      !testNoColor,
			ReportPath: testReportPath,
			Output:     out,
		})
		result = harness.NewRunner(h, reporter, opts...).Run(ctx, runCfg, suites)
	}

	if result.TotalCases == 0 {
		fmt.Fprintf(out, "⚠️  No cases matched in %s\n", testSuitePath)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run aborted: %w", err)
	}
	return result.Err()
}

// runQuiet collects results behind a spinner and prints only the outcome.
func runQuiet(ctx context.Context, out io.Writer, h *harness.Harness, runCfg harness.RunConfiguration, suites []config.Suite, opts []harness.RunnerOption) *harness.SuiteResult {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = os.Stderr
	s.Suffix = " Running golden-file suites..."
	s.Start()

	result := harness.NewRunner(h, harness.NewStructuredReporter(), opts...).Run(ctx, runCfg, suites)
	s.Stop()

	quiet := harness.NewQuietReporter(out)
	for _, c := range result.CaseResults {
		quiet.ReportCaseResult(c)
	}
	quiet.ReportSuiteResult(*result)

	if testReportPath != "" {
		if err := harness.SaveReport(testReportPath, *result); err != nil {
			logging.Error("Test", err, "Failed to save report to %s", testReportPath)
		}
	}
	return result
}

func newExecutor() (api.Executor, string, error) {
	if testFixtures != "" {
		executor, err := dispatch.NewReplayExecutor(testFixtures)
		if err != nil {
			return nil, "", &config.ConfigurationError{Key: "fixtures", Message: err.Error()}
		}
		return executor, testFixtures, nil
	}

	var opts []dispatch.HTTPOption
	if testToken != "" {
		opts = append(opts, dispatch.WithTokenAuth(testToken))
	}
	return dispatch.NewHTTPExecutor(testBaseURL, opts...), testBaseURL, nil
}

// initLogging picks the level from --log-level when set, else from
// --verbose and --debug. The level name was validated in PreRunE.
func initLogging(out io.Writer, levelName string, verbose, debug bool, format logging.Format) {
	level := logging.LevelWarn
	if verbose {
		level = logging.LevelInfo
	}
	if debug {
		level = logging.LevelDebug
	}
	if levelName != "" {
		if parsed, err := logging.ParseLevel(levelName); err == nil {
			level = parsed
		}
	}
	logging.Init(level, format, out)
}

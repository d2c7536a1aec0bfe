package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"goldenapi/internal/config"
	"goldenapi/internal/harness"
	"goldenapi/internal/snapshot"
	"goldenapi/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTestFlags points the test command at the repository testdata and
// restores the previous flag values afterwards.
func useTestFlags(t *testing.T) {
	t.Helper()
	saved := []interface{}{testSuitePath, testDescriptor, testStorePath, testBaseURL, testFixtures, testCase, testTimeout, testVerbose, testDebug, testQuiet, testNoColor, testReportPath}
	t.Cleanup(func() {
		testSuitePath = saved[0].(string)
		testDescriptor = saved[1].(string)
		testStorePath = saved[2].(string)
		testBaseURL = saved[3].(string)
		testFixtures = saved[4].(string)
		testCase = saved[5].(string)
		testTimeout = saved[6].(time.Duration)
		testVerbose = saved[7].(bool)
		testDebug = saved[8].(bool)
		testQuiet = saved[9].(bool)
		testNoColor = saved[10].(bool)
		testReportPath = saved[11].(string)
	})

	t.Setenv("CI", "")
	t.Setenv("TRAVIS", "")
	testSuitePath = filepath.Join("..", "testdata", "suites")
	testDescriptor = filepath.Join("..", "testdata", "api.yaml")
	testFixtures = filepath.Join("..", "testdata", "fixtures")
	testBaseURL = ""
	testStorePath = t.TempDir()
	testCase = "day-week"
	testTimeout = time.Minute
	testVerbose = false
	testDebug = false
	testQuiet = false
	testNoColor = true
	testReportPath = ""
}

func TestRunSuites_BootstrapThenPass(t *testing.T) {
	useTestFlags(t)
	testReportPath = filepath.Join(t.TempDir(), "report.json")

	var out bytes.Buffer
	err := runSuites(context.Background(), &out)
	require.Error(t, err)
	assert.Equal(t, ExitCodeFailures, getExitCode(err))
	assert.Contains(t, out.String(), "💔 Some tests failed")

	baselines, err := os.ReadDir(filepath.Join(testStorePath, snapshot.ExpectedDir))
	require.NoError(t, err)
	assert.Len(t, baselines, 4)

	out.Reset()
	require.NoError(t, runSuites(context.Background(), &out))
	assert.Contains(t, out.String(), "🎉 All tests passed!")
	assert.FileExists(t, testReportPath)
}

func TestRunSuites_Quiet(t *testing.T) {
	useTestFlags(t)
	testQuiet = true
	testReportPath = filepath.Join(t.TempDir(), "quiet.json")

	var out bytes.Buffer
	err := runSuites(context.Background(), &out)
	var failures *harness.FailuresError
	require.True(t, errors.As(err, &failures))
	assert.Contains(t, out.String(), "❌ OneVisitorTwoVisits/day-week: Could not find expected API output")
	assert.FileExists(t, testReportPath)
}

func TestRunSuites_InvalidSuite(t *testing.T) {
	useTestFlags(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(`
name: Bad
cases:
  - api: all
    options:
      idSite: 1
      date: "2010-03-06"
      periodz: day
`), 0o644))
	testSuitePath = dir

	err := runSuites(context.Background(), &bytes.Buffer{})
	var cfgErr *config.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "periodz", cfgErr.Key)
	assert.Equal(t, ExitCodeSetup, getExitCode(err))
}

func TestRunSuites_MissingFixturesDirectory(t *testing.T) {
	useTestFlags(t)
	testFixtures = filepath.Join(t.TempDir(), "nope")

	err := runSuites(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, ExitCodeSetup, getExitCode(err))
}

func TestInitLogging_LevelFlag(t *testing.T) {
	var buf bytes.Buffer
	initLogging(&buf, "error", true, true, logging.FormatText)
	logging.Warn("Test", "hidden warning")
	logging.Error("Test", errors.New("boom"), "visible error")
	assert.NotContains(t, buf.String(), "hidden warning")
	assert.Contains(t, buf.String(), "visible error")

	buf.Reset()
	initLogging(&buf, "", true, false, logging.FormatText)
	logging.Info("Test", "verbose info")
	logging.Debug("Test", "hidden debug")
	assert.Contains(t, buf.String(), "verbose info")
	assert.NotContains(t, buf.String(), "hidden debug")
}

func TestTestCommand_RejectsUnknownLogLevel(t *testing.T) {
	saved := testLogLevel
	t.Cleanup(func() { testLogLevel = saved })

	testLogLevel = "loud"
	assert.Error(t, testCmd.PreRunE(testCmd, nil))

	testLogLevel = "debug"
	assert.NoError(t, testCmd.PreRunE(testCmd, nil))
}

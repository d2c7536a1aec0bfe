package harness

import (
	"fmt"
	"io"
	"os"
)

// writerLogger implements TestLogger for CLI mode
type writerLogger struct {
	out     io.Writer
	errOut  io.Writer
	verbose bool
	debug   bool
}

// NewStdoutLogger creates a logger that outputs to stdout/stderr
func NewStdoutLogger(verbose, debug bool) TestLogger {
	return NewWriterLogger(os.Stdout, os.Stderr, verbose, debug)
}

// NewWriterLogger creates a logger over explicit writers.
func NewWriterLogger(out, errOut io.Writer, verbose, debug bool) TestLogger {
	return &writerLogger{out: out, errOut: errOut, verbose: verbose, debug: debug}
}

func (l *writerLogger) Debug(format string, args ...interface{}) {
	if l.debug {
		fmt.Fprintf(l.out, format, args...)
	}
}

func (l *writerLogger) Info(format string, args ...interface{}) {
	if l.verbose || l.debug {
		fmt.Fprintf(l.out, format, args...)
	}
}

func (l *writerLogger) Error(format string, args ...interface{}) {
	fmt.Fprintf(l.errOut, format, args...)
}

func (l *writerLogger) IsDebugEnabled() bool {
	return l.debug
}

func (l *writerLogger) IsVerboseEnabled() bool {
	return l.verbose
}

// silentLogger suppresses all output
type silentLogger struct{}

// NewSilentLogger creates a logger that suppresses all output, used by
// library callers and tests.
func NewSilentLogger() TestLogger {
	return silentLogger{}
}

func (silentLogger) Debug(format string, args ...interface{}) {}

func (silentLogger) Info(format string, args ...interface{}) {}

func (silentLogger) Error(format string, args ...interface{}) {}

func (silentLogger) IsDebugEnabled() bool { return false }

func (silentLogger) IsVerboseEnabled() bool { return false }

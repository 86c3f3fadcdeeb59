package logging

import "os"

// zapDefaultSink names the log output writer in one place, apart from the
// AtomicLevel plumbing in logging.go.
func zapDefaultSink() *os.File {
	return os.Stderr
}

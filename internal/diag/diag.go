// Package diag provides lightweight, opt-in diagnostic logging for the
// compiler. Output is suppressed entirely unless a writer is configured,
// either via SetOutput or the DEBUG environment variable combined with
// InitLogFile. This mirrors the corpus's own convention of a small
// mutex-guarded writer rather than a structured logging library — no
// repository in the example corpus imports one.
package diag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EnableDebug can be overridden at build time:
// go build -ldflags "-X github.com/allenanswerzq/llmcc/internal/diag.EnableDebug=true"
var EnableDebug = "false"

var (
	mu     sync.Mutex
	output io.Writer
	file   *os.File
)

// SetOutput sets the writer diagnostics are sent to. Pass nil to
// disable output entirely.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// InitLogFile opens a timestamped log file under the OS temp directory
// and routes diagnostics to it. Returns the path, or an error if the
// file could not be created. Call Close when done.
func InitLogFile() (string, error) {
	mu.Lock()
	defer mu.Unlock()

	dir := filepath.Join(os.TempDir(), "llmcc-diag")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("diag: create log dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("compile-%s.log", time.Now().Format("2006-01-02T150405")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("diag: open log file: %w", err)
	}

	file = f
	output = f
	return path, nil
}

// Close closes the log file opened by InitLogFile, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	output = nil
	return err
}

// Enabled reports whether diagnostic output is currently configured,
// either via the build flag or the DEBUG environment variable.
func Enabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Stage logs the wall time a compile stage took, tagged with its name.
// Used by internal/compiler to record per-stage timing.
func Stage(name string, d time.Duration) {
	Log("stage", "%s took %s", name, d)
}

// Log writes a tagged diagnostic line if output is configured and
// enabled.
func Log(component, format string, args ...any) {
	if !Enabled() {
		return
	}
	w := writer()
	if w == nil {
		return
	}
	fmt.Fprintf(w, "[%s] "+format+"\n", append([]any{component}, args...)...)
}

package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Options configures the progress reporter.
type Options struct {
	// Output is where to write progress output.
	// Default: os.Stdout
	Output io.Writer

	// Quiet suppresses per-chunk progress lines. Skip, completion, and
	// warning lines are still printed.
	Quiet bool
}

// Reporter serializes console output from concurrent transfers.
//
// Every line a transfer prints goes through one Reporter, so output from
// different tasks never interleaves mid-line. Progress updates for a task
// overwrite in place; any full line terminates the in-flight progress line
// first.
type Reporter struct {
	opts Options

	mu      sync.Mutex
	midline bool
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	return &Reporter{opts: opts}
}

// Progress updates the single-line progress display for a task.
// total may be negative when the remote size is unknown.
func (r *Reporter) Progress(name string, downloaded, total int64) {
	if r.opts.Quiet {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if total > 0 {
		pct := float64(downloaded) / float64(total) * 100
		fmt.Fprintf(r.opts.Output, "\r[%s] %6.2f%% (%s / %s)",
			name, pct, FormatBytes(downloaded), FormatBytes(total))
	} else {
		fmt.Fprintf(r.opts.Output, "\r[%s] %s", name, FormatBytes(downloaded))
	}
	r.midline = true
}

// Skip prints a notice that an existing target file was left in place.
func (r *Reporter) Skip(name, path string) {
	r.printf("[%s] Skipping (exists): %s\n", name, path)
}

// Done prints a completion line with the final path.
func (r *Reporter) Done(name, path string) {
	r.printf("[%s] Done → %s\n", name, path)
}

// Warn prints a warning line for a task.
func (r *Reporter) Warn(name, msg string) {
	r.printf("[%s] WARNING: %s\n", name, msg)
}

// Info prints an informational line for a task.
func (r *Reporter) Info(name, msg string) {
	r.printf("[%s] %s\n", name, msg)
}

// printf writes a full line, terminating any in-flight progress line.
func (r *Reporter) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.midline {
		fmt.Fprintln(r.opts.Output)
		r.midline = false
	}
	fmt.Fprintf(r.opts.Output, format, args...)
}

// FormatBytes formats a byte count as a human-readable string.
func FormatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.1fTB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.1fGB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.1fMB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.1fKB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%dB", b)
	}
}

// ParseBytes parses a human-readable byte string (e.g., "64KB").
func ParseBytes(s string) (int64, error) {
	var multiplier int64 = 1

	switch {
	case hasSuffix(s, "TB"):
		multiplier = 1024 * 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "KB"):
		multiplier = 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	if _, err := fmt.Sscanf(s, "%f", &value); err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

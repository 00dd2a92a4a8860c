package downloader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	hoardhttp "github.com/lovrom/hoard/internal/http"
	"github.com/lovrom/hoard/internal/progress"
)

// DefaultChunkSize is the streaming chunk size between progress updates.
const DefaultChunkSize = 64 * 1024

// Task describes one resource transfer.
type Task struct {
	Name         string
	URL          string
	Subdirectory string
	Force        bool
	Unzip        bool
}

// Options configures transfers.
type Options struct {
	// Jobs is the worker pool size. Zero selects the default policy:
	// 1 for a single task, 4 otherwise.
	Jobs int

	// ChunkSize is the streaming chunk size. Default: DefaultChunkSize.
	ChunkSize int64

	// Reporter receives all console output from transfers.
	Reporter *progress.Reporter

	// Client issues the HTTP requests.
	Client *hoardhttp.Client
}

// Run executes all tasks on a bounded worker pool and returns the first
// failure observed.
//
// A failing task does not cancel its siblings: every submitted task runs to
// completion before Run returns, so no file is abandoned mid-write by a
// neighbor's fault. Interrupts arrive through ctx and stop each transfer at
// its next chunk boundary.
func Run(ctx context.Context, tasks []Task, opts Options) error {
	jobs := opts.Jobs
	if jobs <= 0 {
		if len(tasks) == 1 {
			jobs = 1
		} else {
			jobs = 4
		}
	}

	// Deliberately not errgroup.WithContext: the first failure must not
	// interrupt in-flight transfers.
	var g errgroup.Group
	g.SetLimit(jobs)

	for _, task := range tasks {
		task := task
		g.Go(func() error {
			_, err := Fetch(ctx, task, opts)
			return err
		})
	}

	return g.Wait()
}

// Fetch runs one transfer and returns the path it produced.
//
// The target filename comes from the response (Content-Disposition, then URL
// path, then a fixed fallback). If the target already exists and the task is
// not forced, the transfer is skipped and the existing path returned. A
// fault mid-stream leaves the partial file in place.
func Fetch(ctx context.Context, task Task, opts Options) (string, error) {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	if err := os.MkdirAll(task.Subdirectory, 0755); err != nil {
		return "", fmt.Errorf("create destination %s: %w", task.Subdirectory, err)
	}

	resp, err := opts.Client.Get(ctx, task.URL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", task.Name, err)
	}
	defer resp.Body.Close()

	target := filepath.Join(task.Subdirectory, resp.Filename(task.URL))

	if _, err := os.Stat(target); err == nil && !task.Force {
		opts.Reporter.Skip(task.Name, target)
		return target, nil
	}

	if err := stream(ctx, task.Name, resp, target, chunkSize, opts.Reporter); err != nil {
		return "", err
	}
	opts.Reporter.Done(task.Name, target)

	if task.Unzip {
		return extract(task.Name, target, task.Subdirectory, opts.Reporter)
	}

	return target, nil
}

// stream copies the response body to target in fixed-size chunks, emitting a
// progress update after each chunk. Partial output is never cleaned up.
func stream(ctx context.Context, name string, resp *hoardhttp.Response, target string, chunkSize int64, reporter *progress.Reporter) error {
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	buf := make([]byte, chunkSize)
	var downloaded int64

	for {
		if err := ctx.Err(); err != nil {
			out.Close()
			return fmt.Errorf("transfer %s interrupted: %w", name, err)
		}

		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				return fmt.Errorf("write %s: %w", target, writeErr)
			}
			downloaded += int64(n)
			reporter.Progress(name, downloaded, resp.ContentLength)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			return fmt.Errorf("read %s: %w", name, readErr)
		}
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", target, err)
	}
	return nil
}

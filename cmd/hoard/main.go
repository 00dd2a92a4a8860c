package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/lovrom/hoard/internal/config"
	"github.com/lovrom/hoard/internal/index"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitTransferError = 1
	ExitInvalidArgs   = 2
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
})

var configPath string

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	// Interrupts cancel the context; transfers stop at their next chunk
	// boundary and partial files stay on disk.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := &cobra.Command{
		Use:   "hoard",
		Short: "Download manager for named remote resources",
		Long: `Hoard keeps a registry of named remote resources (URL, destination
directory, optional unzip), groups of names, and per-host bearer tokens,
and downloads resources concurrently by name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	root.AddCommand(
		tokenCmd(),
		groupCmd(),
		dlCmd(),
		listCmd(),
		versionCmd(),
	)

	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error(err.Error())
		return exitCode(err)
	}
	return ExitSuccess
}

// usageError marks configuration-level failures (bad flag combinations,
// unknown names, invalid config) distinct from transfer faults.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exitCode maps an error to the process exit status. Cyclic group
// references and usage errors are configuration errors; everything else is
// a transfer or storage fault.
func exitCode(err error) int {
	var ue *usageError
	var ce *index.CycleError
	if errors.As(err, &ue) || errors.As(err, &ce) {
		return ExitInvalidArgs
	}
	return ExitTransferError
}

// loadConfig resolves defaults, then the config file (--config or the
// default location when present), then environment overrides.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			candidate := filepath.Join(home, ".hoard", "config.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.LoadFromFile(path)
		if err != nil {
			return config.Config{}, err
		}
	}
	if err := cfg.LoadFromEnv(); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

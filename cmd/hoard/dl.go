package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lovrom/hoard/internal/downloader"
	hoardhttp "github.com/lovrom/hoard/internal/http"
	"github.com/lovrom/hoard/internal/index"
	"github.com/lovrom/hoard/internal/progress"
	"github.com/lovrom/hoard/internal/store"
)

func dlCmd() *cobra.Command {
	var (
		rawURL string
		subdir string
		jobs   int
		force  bool
		unzip  bool
	)

	cmd := &cobra.Command{
		Use:   "dl <name>... [-u URL -d DIR] [-j N] [-f] [-z]",
		Short: "Download one or more named resources or groups",
		Long: `Download resources by name. Group names expand recursively into their
member resources, deduplicated in first-seen order.

With -u and -d, exactly one name is registered ad hoc (stored in the
index) and fetched immediately; -j is not allowed in that mode.

Examples:
  hoard dl llama-7b
  hoard dl everything -j 8
  hoard dl weights -u https://example.com/weights.zip -d /models -z`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return &usageError{err: err}
			}

			st, err := store.Open(ctx, cfg.StoreURL)
			if err != nil {
				return err
			}
			defer st.Close()

			ix, err := st.LoadIndex(ctx)
			if err != nil {
				return err
			}
			tokens, err := st.LoadTokens(ctx)
			if err != nil {
				return err
			}

			names, err := ix.Expand(index.Dedup(args), func(group string, members []string) {
				logger.Info("group expanded", "group", group, "members", strings.Join(members, " "))
			})
			if err != nil {
				return err
			}

			jobsSet := cmd.Flags().Changed("jobs")

			opts := downloader.Options{
				ChunkSize: cfg.ChunkSize,
				Reporter:  progress.NewReporter(progress.Options{Quiet: cfg.Quiet}),
				Client:    hoardhttp.NewClient(hoardhttp.DefaultOptions(), tokens),
			}

			// Ad-hoc single-resource registration and fetch.
			if rawURL != "" || subdir != "" {
				if err := validateAdhoc(names, rawURL, subdir, jobsSet); err != nil {
					return err
				}
				name := names[0]

				// The registration sticks even when the download
				// below fails.
				ix.SetModel(name, index.Resource{
					URL:          rawURL,
					Subdirectory: subdir,
					Unzip:        unzip,
				})
				if err := st.SaveIndex(ctx, ix); err != nil {
					return err
				}

				_, err := downloader.Fetch(ctx, downloader.Task{
					Name:         name,
					URL:          rawURL,
					Subdirectory: subdir,
					Force:        force,
					Unzip:        unzip,
				}, opts)
				return err
			}

			// Indexed downloads, possibly many.
			tasks := make([]downloader.Task, 0, len(names))
			for _, name := range names {
				m, ok := ix.Models[name]
				if !ok {
					return usageErrorf("no entry for model %q", name)
				}
				tasks = append(tasks, downloader.Task{
					Name:         name,
					URL:          m.URL,
					Subdirectory: m.Subdirectory,
					Force:        force,
					Unzip:        m.Unzip,
				})
			}

			if jobsSet {
				opts.Jobs = jobs
			} else {
				opts.Jobs = cfg.Jobs
			}

			return downloader.Run(ctx, tasks, opts)
		},
	}

	cmd.Flags().StringVarP(&rawURL, "url", "u", "", "Register and fetch from this URL (requires -d)")
	cmd.Flags().StringVarP(&subdir, "subdirectory", "d", "", "Destination directory for -u")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Number of parallel downloads")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing files")
	cmd.Flags().BoolVarP(&unzip, "unzip", "z", false, "Unzip the downloaded zip file in place")

	return cmd
}

// validateAdhoc checks the flag contract of the single-resource mode.
func validateAdhoc(names []string, rawURL, subdir string, jobsSet bool) error {
	if len(names) != 1 {
		return usageErrorf("-u / -d require exactly one model name")
	}
	if rawURL == "" || subdir == "" {
		return usageErrorf("-u and -d must be used together")
	}
	if jobsSet {
		return usageErrorf("-j cannot be used with -u / -d")
	}
	return nil
}

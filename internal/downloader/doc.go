// Package downloader executes resource transfers on a bounded worker pool.
//
// Each transfer streams one URL to disk in fixed-size chunks, reporting
// progress through a shared progress.Reporter, with an idempotent skip when
// the target file already exists and optional zip extraction afterwards.
//
// # Usage
//
//	err := downloader.Run(ctx, tasks, downloader.Options{
//	    Jobs:     4,
//	    Reporter: reporter,
//	    Client:   client,
//	})
//
// # Failure policy
//
// The first task failure is reported by Run, but in-flight transfers are
// never cancelled by a sibling's fault; the pool drains completely before
// Run returns. There are no retries, and partial output files from a failed
// or interrupted transfer are left on disk.
package downloader

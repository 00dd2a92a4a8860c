// Package progress provides serialized console output for concurrent transfers.
//
// All progress, skip, completion, and warning lines from every transfer pass
// through a single Reporter guarded by a mutex, so lines from different tasks
// never interleave mid-line.
//
// # Usage
//
//	reporter := progress.NewReporter(progress.Options{})
//
//	// From any worker:
//	reporter.Progress("weights", downloaded, total)
//	reporter.Done("weights", "/models/weights.bin")
//
// # Output Format
//
//	[weights]  45.20% (1.1MB / 2.5MB)
//	[weights] Done → /models/weights.bin
//	[data] Skipping (exists): /data/corpus.zip
package progress

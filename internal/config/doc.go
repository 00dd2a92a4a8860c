// Package config defines configuration structures for the hoard CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (HOARD_ prefix)
//   - YAML configuration file
//
// # Structure
//
//	type Config struct {
//	    StoreURL  string
//	    Jobs      int
//	    ChunkSize int64
//	    Quiet     bool
//	}
package config

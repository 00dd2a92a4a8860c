// Package index defines the registry of named resources and groups.
//
// A resource maps a short name to a URL, a destination subdirectory, and an
// unzip flag. A group is an ordered list of resource or group names expanded
// recursively at download time.
//
// # Usage
//
//	ix := index.New()
//	ix.SetModel("weights", index.Resource{URL: url, Subdirectory: dir})
//	ix.SaveGroup("all", []string{"weights"})
//
//	leaves, err := ix.Expand([]string{"all"}, nil)
//
// Expansion is depth-first and left to right, deduplicates leaves by first
// appearance, and fails with *CycleError on cyclic group references.
package index

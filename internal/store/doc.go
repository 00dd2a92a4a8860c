// Package store persists the resource index and token table.
//
// Both documents live as whole JSON documents in a gocloud.dev blob bucket,
// by default a file:// bucket in the user's home directory. Tests use mem://
// buckets; a shared s3:// bucket works but carries no locking, so concurrent
// writers are last-writer-wins.
//
// # Documents
//
//	index.json   {"models": {"<name>": {"url", "subdirectory", "unzip"}},
//	              "groups": {"<name>": ["<member>", ...]}}
//	tokens.json  {"<hostname>": "<token>"}
package store

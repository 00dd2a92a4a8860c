package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/lovrom/hoard/internal/index"
)

// Document keys inside the bucket.
const (
	indexKey  = "index.json"
	tokensKey = "tokens.json"
)

// Tokens maps hostnames to bearer tokens. Lookup is exact-match only; no
// wildcard or suffix matching.
type Tokens map[string]string

// Lookup returns the token registered for hostname.
func (t Tokens) Lookup(hostname string) (string, bool) {
	token, ok := t[hostname]
	return token, ok
}

// Store persists the index and token documents as whole JSON documents in a
// blob bucket. Documents are loaded once, mutated in memory, and written back
// with a full overwrite; concurrent processes sharing the same bucket are
// last-writer-wins and unsupported.
type Store struct {
	bucket *blob.Bucket
}

// Open opens the bucket at the given gocloud URL (file://, mem://, s3://...).
func Open(ctx context.Context, url string) (*Store, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("open store bucket: %w", err)
	}
	return &Store{bucket: bucket}, nil
}

// NewWithBucket wraps an already-open bucket. The caller retains ownership
// of the bucket.
func NewWithBucket(bucket *blob.Bucket) *Store {
	return &Store{bucket: bucket}
}

// Close releases the underlying bucket.
func (s *Store) Close() error {
	return s.bucket.Close()
}

// LoadIndex reads the index document. A missing document yields an empty
// index.
func (s *Store) LoadIndex(ctx context.Context) (*index.Index, error) {
	ix := index.New()
	if err := s.load(ctx, indexKey, ix); err != nil {
		return nil, err
	}
	// Documents written by hand may omit either table.
	if ix.Models == nil {
		ix.Models = make(map[string]index.Resource)
	}
	if ix.Groups == nil {
		ix.Groups = make(map[string][]string)
	}
	return ix, nil
}

// SaveIndex overwrites the index document.
func (s *Store) SaveIndex(ctx context.Context, ix *index.Index) error {
	return s.save(ctx, indexKey, ix)
}

// LoadTokens reads the token document. A missing document yields an empty
// table.
func (s *Store) LoadTokens(ctx context.Context) (Tokens, error) {
	tokens := make(Tokens)
	if err := s.load(ctx, tokensKey, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// SaveTokens overwrites the token document.
func (s *Store) SaveTokens(ctx context.Context, tokens Tokens) error {
	return s.save(ctx, tokensKey, tokens)
}

func (s *Store) load(ctx context.Context, key string, v any) error {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.bucket.WriteAll(ctx, key, data, nil); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func isNotFound(err error) bool {
	return gcerrors.Code(err) == gcerrors.NotFound
}

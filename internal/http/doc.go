// Package http provides the authenticated HTTP client used for transfers.
//
// This package handles:
//   - Per-host bearer token injection (Authorization header)
//   - Dropping the Authorization header on host-changing redirects
//   - Output filename derivation (Content-Disposition, URL path, fallback)
//
// # Usage
//
//	client := http.NewClient(http.DefaultOptions(), tokens)
//
//	resp, err := client.Get(ctx, url)
//	defer resp.Body.Close()
//	name := resp.Filename(url)
//
// There is no retry logic and no default timeout; a request fault is fatal
// for the transfer that issued it.
package http

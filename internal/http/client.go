package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Common errors.
var (
	ErrNotFound     = errors.New("http: resource not found")
	ErrForbidden    = errors.New("http: access forbidden")
	ErrUnauthorized = errors.New("http: unauthorized")
	ErrServerError  = errors.New("http: server error")
)

// DefaultFilename is used when neither the response headers nor the URL path
// yield a usable filename.
const DefaultFilename = "downloaded.file"

// Options configures the HTTP client.
type Options struct {
	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 8
	MaxIdleConnsPerHost int

	// Timeout for individual requests. Zero means no timeout; large
	// transfers run as long as they need to.
	Timeout time.Duration
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxIdleConnsPerHost: 8,
	}
}

// Credentials resolves a bearer token for a hostname.
type Credentials interface {
	Lookup(hostname string) (string, bool)
}

// Response wraps a successful GET response.
type Response struct {
	Body          io.ReadCloser
	ContentLength int64 // -1 when unknown

	header http.Header
}

// Client issues authenticated GET requests for resource transfers.
//
// When a bearer token is registered for a URL's hostname it is attached as an
// Authorization header. The header is not forwarded across a redirect that
// changes the target host, so tokens never leak to other domains.
type Client struct {
	client *http.Client
	creds  Credentials
}

// NewClient creates a new HTTP client. creds may be nil when no tokens are
// registered.
func NewClient(opts Options, creds Credentials) *Client {
	transport := &http.Transport{
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("http: too many redirects")
				}
				// Bearer tokens stay on the host they were issued for.
				if req.URL.Host != via[0].URL.Host {
					req.Header.Del("Authorization")
				}
				return nil
			},
		},
		creds: creds,
	}
}

// Get issues a single GET request. No retries: a fault here is fatal for the
// transfer.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if c.creds != nil {
		if token, ok := c.creds.Lookup(req.URL.Hostname()); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if err := checkStatusCode(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}

	return &Response{
		Body:          resp.Body,
		ContentLength: resp.ContentLength,
		header:        resp.Header,
	}, nil
}

// Filename derives the output filename for this response.
//
// Precedence: the filename parameter of a Content-Disposition header, then
// the last path segment of the request URL, then DefaultFilename.
func (r *Response) Filename(rawURL string) string {
	if name := dispositionFilename(r.header.Get("Content-Disposition")); name != "" {
		return name
	}

	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "." && base != "/" {
			return base
		}
	}

	return DefaultFilename
}

// dispositionFilename extracts the filename parameter from a
// Content-Disposition header value.
func dispositionFilename(cd string) string {
	if cd == "" {
		return ""
	}

	if _, params, err := mime.ParseMediaType(cd); err == nil {
		if name := params["filename"]; name != "" {
			// Drop any directory components a hostile server sends.
			return filepath.Base(name)
		}
	}

	// Tolerate malformed headers the way browsers do: scan for a
	// filename= parameter, case-insensitively, stripping quotes.
	for _, part := range strings.Split(cd, ";") {
		part = strings.TrimSpace(part)
		if len(part) >= len("filename=") && strings.EqualFold(part[:len("filename=")], "filename=") {
			name := strings.Trim(part[len("filename="):], `"`)
			if name != "" {
				return filepath.Base(name)
			}
		}
	}

	return ""
}

// checkStatusCode returns an appropriate error for non-success status codes.
func checkStatusCode(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code >= 500:
		return fmt.Errorf("%w: %d", ErrServerError, code)
	default:
		return fmt.Errorf("unexpected status code: %d", code)
	}
}

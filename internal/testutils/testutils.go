// Package testutils provides shared test infrastructure.
package testutils

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// TestFile defines a file served by the test HTTP server.
type TestFile struct {
	// Name is the URL path (without leading slash).
	Name string

	// Data is the file content.
	Data []byte

	// Disposition, if set, is sent as the Content-Disposition header.
	Disposition string

	// NoLength suppresses the Content-Length header so the download has
	// an unknown total size.
	NoLength bool
}

// GenerateTestData generates deterministic test data of the given size.
func GenerateTestData(t *testing.T, size int64) []byte {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 256)
	}
	return data
}

// StartFileServer starts an HTTP server serving the given files.
//
// When token is non-empty, every request must carry a matching bearer
// Authorization header or receives 401.
func StartFileServer(t *testing.T, files []TestFile, token string) *httptest.Server {
	t.Helper()

	byPath := make(map[string]TestFile)
	for _, f := range files {
		byPath["/"+f.Name] = f
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		f, ok := byPath[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}

		if f.Disposition != "" {
			w.Header().Set("Content-Disposition", f.Disposition)
		}
		if f.NoLength {
			// Flush forces chunked transfer encoding.
			w.WriteHeader(http.StatusOK)
			if fl, ok := w.(http.Flusher); ok {
				fl.Flush()
			}
			w.Write(f.Data)
			return
		}

		w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
		w.Write(f.Data)
	}))
}

// ZipArchive builds an in-memory zip archive from name -> content pairs.
func ZipArchive(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create zip entry %s: %v", name, err)
		}
		if _, err := w.Write(content); err != nil {
			t.Fatalf("write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip writer: %v", err)
	}
	return buf.Bytes()
}

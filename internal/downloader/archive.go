package downloader

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lovrom/hoard/internal/progress"
)

// extract unpacks a downloaded zip archive into destDir and removes the
// archive on success.
//
// A file that is not a valid zip archive is a warning, not an error: the
// file stays in place and its path is returned.
func extract(name, archivePath, destDir string, reporter *progress.Reporter) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		reporter.Warn(name, fmt.Sprintf("file is not a valid zip: %s", archivePath))
		return archivePath, nil
	}

	reporter.Info(name, fmt.Sprintf("Unzipping %s ...", archivePath))

	for _, f := range zr.File {
		if err := extractEntry(f, destDir); err != nil {
			zr.Close()
			return "", fmt.Errorf("unzip %s: %w", archivePath, err)
		}
	}
	zr.Close()

	if err := os.Remove(archivePath); err != nil {
		return "", fmt.Errorf("remove archive %s: %w", archivePath, err)
	}

	reporter.Info(name, fmt.Sprintf("Unzipped and removed %s", archivePath))
	return destDir, nil
}

func extractEntry(f *zip.File, destDir string) error {
	target := filepath.Join(destDir, f.Name)

	// Reject entries that would escape the destination directory.
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("illegal entry path %q", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

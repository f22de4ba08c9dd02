// Package platform delivers rendered results to the host system:
// export files into a directory on disk, text onto the system
// clipboard.
package platform

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
)

// Output writes exports and clipboard text. It satisfies the viewer's
// OutputService port.
type Output struct {
	exportDir string
	logger    *slog.Logger
}

// NewOutput returns an Output writing files into exportDir. An empty
// exportDir falls back to the user's Downloads directory when it
// exists, the working directory otherwise.
func NewOutput(exportDir string, logger *slog.Logger) *Output {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Output{exportDir: exportDir, logger: logger}
}

// Dir returns the directory exports land in.
func (o *Output) Dir() string {
	if o.exportDir != "" {
		return o.exportDir
	}
	return defaultExportDir()
}

// Download writes data under filename in the export directory. An
// existing file is never overwritten: collisions get a numbered
// suffix before the extension, query_results_2024-06-01 (2).csv.
func (o *Output) Download(data []byte, filename, mimeType string) error {
	dir := o.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory %s: %w", dir, err)
	}

	path := uniquePath(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	o.logger.Debug("wrote export", "path", path, "bytes", len(data), "type", mimeType)
	return nil
}

// WriteClipboard puts text on the system clipboard.
func (o *Output) WriteClipboard(text string) error {
	return clipboard.WriteAll(text)
}

func uniquePath(dir, filename string) string {
	path := filepath.Join(dir, filename)
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	for n := 2; ; n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if _, err := os.Stat(path); err != nil {
			return path
		}
	}
}

func defaultExportDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	downloads := filepath.Join(home, "Downloads")
	if info, err := os.Stat(downloads); err == nil && info.IsDir() {
		return downloads
	}
	return "."
}

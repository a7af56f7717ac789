package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FileExporter writes the website artifacts. Writes are whole-file
// replacements: a crash mid-run leaves the previous artifact intact, and no
// partial file is ever served.
type FileExporter struct {
	dir string
	log *slog.Logger
}

// NewFileExporter builds an exporter rooted at dir, creating it if needed.
func NewFileExporter(dir string, log *slog.Logger) (*FileExporter, error) {
	if log == nil {
		log = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create export dir %s: %w", dir, err)
	}
	return &FileExporter{dir: dir, log: log}, nil
}

// Dir returns the export root.
func (e *FileExporter) Dir() string {
	return e.dir
}

// WriteText writes a plain-text artifact, such as the Markdown run report.
func (e *FileExporter) WriteText(name, content string) error {
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	e.log.Info("artifact written", "file", path, "bytes", len(content))
	return nil
}

// WriteJSON pretty-prints doc to name under the export root.
func (e *FileExporter) WriteJSON(name string, doc interface{}) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal %s: %w", name, err)
	}
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	e.log.Info("artifact written", "file", path, "bytes", len(data))
	return nil
}

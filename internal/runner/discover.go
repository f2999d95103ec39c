package runner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hetulpatel/appealdigest/internal/pipeline"
)

// ErrInputDirCreated is returned by Discover when the input directory did not
// exist; it has been created and the operator should add PDFs and run again.
var ErrInputDirCreated = errors.New("runner: input directory created")

// Discover lists the PDF files directly under dir (not recursive), sorted by name.
// Hidden files and directories are skipped.
func Discover(dir string) ([]pipeline.Document, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("runner: input dir is required")
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("runner: create input dir: %w", err)
		}
		return nil, ErrInputDirCreated
	}
	if err != nil {
		return nil, fmt.Errorf("runner: read input dir: %w", err)
	}

	var docs []pipeline.Document
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			continue
		}
		docs = append(docs, pipeline.Document{Path: filepath.Join(dir, name)})
	}
	return docs, nil
}

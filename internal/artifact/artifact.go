// Package artifact names and writes the per-phase analysis text files.
//
// File names follow {key}_{timestamp}.txt for the initial phase and
// {key}_improved_{timestamp}.txt for the improved phase, where timestamp is
// YYYYMMDD_HHMMSS captured once per document run.
package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// TimestampLayout formats run timestamps as YYYYMMDD_HHMMSS.
const TimestampLayout = "20060102_150405"

const fallbackKey = "document"

// ErrExists is returned instead of overwriting an existing artifact.
var ErrExists = errors.New("artifact: file already exists")

// Phase identifies which analysis pass produced an artifact.
type Phase string

const (
	PhaseInitial  Phase = "initial"
	PhaseImproved Phase = "improved"
)

// Artifact describes one written file.
type Artifact struct {
	Key       string
	Phase     Phase
	Timestamp string
	Path      string
	Bytes     int
}

var unsafeChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\s]+`)

// Sanitize makes name safe for use as a single path element.
func Sanitize(name string) string {
	name = unsafeChars.ReplaceAllString(strings.TrimSpace(name), "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return fallbackKey
	}
	return name
}

// NamingKey returns the process identifier when present, otherwise the sanitized
// stem of the source file name (caso.pdf -> caso).
func NamingKey(identifier, sourcePath string) string {
	if identifier = strings.TrimSpace(identifier); identifier != "" {
		return identifier
	}
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return Sanitize(stem)
}

// Timestamp formats t with TimestampLayout in local time.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FileName builds the artifact file name for key, phase and timestamp.
func FileName(key string, phase Phase, timestamp string) string {
	if phase == PhaseImproved {
		return fmt.Sprintf("%s_improved_%s.txt", key, timestamp)
	}
	return fmt.Sprintf("%s_%s.txt", key, timestamp)
}

// Writer persists artifacts under a single output directory.
type Writer struct {
	dir string
}

// NewWriter creates dir if needed and returns a writer for it.
func NewWriter(dir string) (*Writer, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("artifact: output dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: ensure output dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores content as UTF-8 text. Existing files are never replaced.
func (w *Writer) Write(key string, phase Phase, content, timestamp string) (Artifact, error) {
	if w == nil {
		return Artifact{}, fmt.Errorf("artifact: writer is nil")
	}
	key = Sanitize(key)
	name := FileName(key, phase, timestamp)
	path := filepath.Join(w.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return Artifact{}, fmt.Errorf("%w: %s", ErrExists, path)
		}
		return Artifact{}, fmt.Errorf("artifact: create %s: %w", path, err)
	}
	n, err := f.WriteString(content)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return Artifact{}, fmt.Errorf("artifact: write %s: %w", path, err)
	}

	return Artifact{
		Key:       key,
		Phase:     phase,
		Timestamp: timestamp,
		Path:      path,
		Bytes:     n,
	}, nil
}

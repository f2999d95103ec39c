package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"
)

const defaultCommandTimeout = 25 * time.Second

// CommandExtractor converts a PDF to text via the pdftotext CLI (poppler).
type CommandExtractor struct {
	binary  string
	timeout time.Duration
}

// NewCommandExtractor returns an extractor using the pdftotext CLI.
func NewCommandExtractor(bin string) *CommandExtractor {
	if bin == "" {
		bin = os.Getenv("PDFTOTEXT_BIN")
	}
	if bin == "" {
		bin = "pdftotext"
	}
	return &CommandExtractor{
		binary:  bin,
		timeout: defaultCommandTimeout,
	}
}

// Extract runs pdftotext on path and returns the produced text.
func (e *CommandExtractor) Extract(ctx context.Context, path string) (string, error) {
	if e == nil {
		return "", fmt.Errorf("extract: command extractor is nil")
	}
	if path == "" {
		return "", ErrEmptyPath
	}
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("extract: %w", err)
	}

	tmpTxtFile, err := os.CreateTemp("", "recurso-*.txt")
	if err != nil {
		return "", err
	}
	tmpTxt := tmpTxtFile.Name()
	tmpTxtFile.Close()
	defer os.Remove(tmpTxt)

	cmdCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, e.binary, "-layout", "-enc", "UTF-8", path, tmpTxt)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("extract: pdftotext failed: %w (%s)", err, string(out))
	}

	data, err := os.ReadFile(tmpTxt)
	if err != nil {
		return "", err
	}
	return ensureText(string(data))
}

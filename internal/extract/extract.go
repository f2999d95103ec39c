// Package extract turns PDF files into plain text.
package extract

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrEmptyPath is returned when no file path is given.
	ErrEmptyPath = errors.New("extract: empty pdf path")
	// ErrNoText is returned when a PDF parses but yields no text (scanned images, blank pages).
	ErrNoText = errors.New("extract: no text content found in pdf")
	// ErrInvalidPDF is returned by Preflight for corrupt, encrypted or unsupported files.
	ErrInvalidPDF = errors.New("extract: invalid pdf")
)

// TextExtractor returns the full plain text of a PDF on disk.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

func ensureText(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

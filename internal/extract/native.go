package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativeExtractor reads PDFs in-process with ledongthuc/pdf.
type NativeExtractor struct {
	// MaxPages limits extraction to the first N pages (0 for all).
	MaxPages int
}

// NewNativeExtractor returns an extractor reading at most maxPages pages (0 = all).
func NewNativeExtractor(maxPages int) *NativeExtractor {
	if maxPages < 0 {
		maxPages = 0
	}
	return &NativeExtractor{MaxPages: maxPages}
}

// Extract concatenates the plain text of every page in order.
func (e *NativeExtractor) Extract(ctx context.Context, path string) (text string, err error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	// the parser panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("extract: parse %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("extract: open %s: %w", path, err)
	}
	defer f.Close()

	total := r.NumPage()
	if e.MaxPages > 0 && e.MaxPages < total {
		total = e.MaxPages
	}

	var b strings.Builder
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extract: page %d: %w", i, err)
		}
		b.WriteString(pageText)
	}
	return ensureText(b.String())
}

package extract

import (
	"context"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Preflight validates a PDF with pdfcpu before handing it to the wrapped extractor,
// so corrupt or encrypted files fail with ErrInvalidPDF instead of a parser error.
type Preflight struct {
	next TextExtractor
	conf *model.Configuration
}

// NewPreflight wraps next with pdfcpu validation.
func NewPreflight(next TextExtractor) *Preflight {
	api.DisableConfigDir()
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Preflight{next: next, conf: conf}
}

func (p *Preflight) Extract(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	if err := api.ValidateFile(path, p.conf); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidPDF, path, err)
	}
	return p.next.Extract(ctx, path)
}

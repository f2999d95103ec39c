// Package llm holds the text-completion clients used for the two analysis passes.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Completer sends one prompt to the named model and returns the generated text.
type Completer interface {
	Complete(ctx context.Context, prompt, model string) (string, error)
}

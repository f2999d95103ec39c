// Package runner drives the pipeline over a batch of documents, strictly one
// at a time, and hands every outcome to the configured reporters.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hetulpatel/appealdigest/internal/logging"
	"github.com/hetulpatel/appealdigest/internal/pipeline"
)

// Processor runs one document.
type Processor interface {
	Process(ctx context.Context, doc pipeline.Document) pipeline.Outcome
}

// Reporter receives every outcome. Errors are logged and never stop the batch.
type Reporter interface {
	Report(ctx context.Context, runID string, out pipeline.Outcome) error
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(ctx context.Context, runID string, out pipeline.Outcome) error

func (f ReporterFunc) Report(ctx context.Context, runID string, out pipeline.Outcome) error {
	return f(ctx, runID, out)
}

// Summary aggregates one batch.
type Summary struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	Total          int
	Succeeded      int
	ImprovedFailed int
	Failed         int
	PersistFailed  int
	// Interrupted is set when the context was cancelled before every document ran.
	Interrupted bool
	Outcomes    []pipeline.Outcome
}

func (s *Summary) add(out pipeline.Outcome) {
	s.Outcomes = append(s.Outcomes, out)
	switch out.Kind {
	case pipeline.KindSuccess:
		s.Succeeded++
	case pipeline.KindImprovedFailure:
		s.ImprovedFailed++
	default:
		s.Failed++
	}
	if !out.Persisted() {
		s.PersistFailed++
	}
}

// Runner processes documents sequentially.
type Runner struct {
	processor Processor
	reporters []Reporter
	newRunID  func() string
}

// New returns a runner; nil reporters are ignored.
func New(processor Processor, reporters ...Reporter) *Runner {
	r := &Runner{processor: processor, newRunID: uuid.NewString}
	for _, rep := range reporters {
		if rep != nil {
			r.reporters = append(r.reporters, rep)
		}
	}
	return r
}

// Run processes docs in order. A document's failure never stops the batch;
// only context cancellation ends it early, and only between documents.
// A cancellation seen at any point marks the summary as interrupted.
func (r *Runner) Run(ctx context.Context, docs []pipeline.Document) Summary {
	summary := Summary{
		RunID:     r.newRunID(),
		StartedAt: time.Now(),
		Total:     len(docs),
	}
	logging.Infof("[runner] run %s: %d PDF file(s)", summary.RunID, len(docs))

	for i, doc := range docs {
		if ctx.Err() != nil {
			summary.Interrupted = true
			logging.Errorf("[runner] run %s interrupted after %d of %d documents", summary.RunID, i, len(docs))
			break
		}
		logging.Infof("[runner] processing %s (%d/%d)", doc.Name(), i+1, len(docs))
		out := r.process(ctx, doc)
		summary.add(out)
		// sinks still record the document that was in flight when the run was cancelled
		r.report(context.WithoutCancel(ctx), summary.RunID, out)
	}
	if !summary.Interrupted && ctx.Err() != nil {
		summary.Interrupted = true
		logging.Errorf("[runner] run %s interrupted during the last document", summary.RunID)
	}

	summary.FinishedAt = time.Now()
	return summary
}

func (r *Runner) process(ctx context.Context, doc pipeline.Document) (out pipeline.Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Errorf("[runner] %s: panic: %v", doc.Name(), rec)
			out = pipeline.Outcome{
				Document:   doc,
				Kind:       pipeline.KindPartialFailure,
				Cause:      fmt.Errorf("runner: panic while processing %s: %v", doc.Name(), rec),
				FinishedAt: time.Now(),
			}
		}
	}()
	return r.processor.Process(ctx, doc)
}

func (r *Runner) report(ctx context.Context, runID string, out pipeline.Outcome) {
	for _, rep := range r.reporters {
		if err := rep.Report(ctx, runID, out); err != nil {
			logging.Errorf("[runner] %s: reporter error: %v", out.Document.Name(), err)
		}
	}
}

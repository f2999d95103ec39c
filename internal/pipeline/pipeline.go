// Package pipeline runs one legal PDF through extraction, process-number
// detection, a first-pass summary, a refinement pass and persistence.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hetulpatel/appealdigest/internal/artifact"
	"github.com/hetulpatel/appealdigest/internal/extract"
	"github.com/hetulpatel/appealdigest/internal/llm"
	"github.com/hetulpatel/appealdigest/internal/logging"
	"github.com/hetulpatel/appealdigest/internal/procnum"
)

// ResultWriter persists one analysis text.
type ResultWriter interface {
	Write(key string, phase artifact.Phase, content, timestamp string) (artifact.Artifact, error)
}

// Models names the model used for each pass.
type Models struct {
	Initial  string
	Improved string
}

// Config controls the pipeline behavior.
type Config struct {
	Extractor extract.TextExtractor
	Client    llm.Completer
	Writer    ResultWriter
	Models    Models
	Prompts   Prompts
	// Provider is only used in console banners.
	Provider string
	// Echo, when set, receives every AI response between banners.
	Echo io.Writer
	Now  func() time.Time
}

// Pipeline processes documents one at a time. It holds no per-document state.
type Pipeline struct {
	extractor extract.TextExtractor
	client    llm.Completer
	writer    ResultWriter
	models    Models
	prompts   Prompts
	provider  string
	echo      io.Writer
	now       func() time.Time
}

// New validates cfg and builds a pipeline.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("pipeline: extractor is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("pipeline: llm client is required")
	}
	if cfg.Writer == nil {
		return nil, fmt.Errorf("pipeline: result writer is required")
	}
	if strings.TrimSpace(cfg.Models.Initial) == "" || strings.TrimSpace(cfg.Models.Improved) == "" {
		return nil, fmt.Errorf("pipeline: both initial and improved models are required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	provider := cfg.Provider
	if provider == "" {
		provider = "AI"
	}
	return &Pipeline{
		extractor: cfg.Extractor,
		client:    cfg.Client,
		writer:    cfg.Writer,
		models:    cfg.Models,
		prompts:   cfg.Prompts.withDefaults(),
		provider:  provider,
		echo:      cfg.Echo,
		now:       now,
	}, nil
}

// Process runs every stage for doc. It never panics on collaborator failures;
// the returned Outcome says how far the document got.
func (p *Pipeline) Process(ctx context.Context, doc Document) Outcome {
	started := p.now()
	out := Outcome{
		Document:  doc,
		Timestamp: artifact.Timestamp(started),
		StartedAt: started,
	}
	name := doc.Name()

	text, err := p.extractor.Extract(ctx, doc.Path)
	if err != nil {
		logging.Errorf("[pipeline] %s: extraction failed: %v", name, err)
		return p.fail(out, StageExtraction, err)
	}
	out.TextLength = len(text)
	logging.Infof("[pipeline] %s: extracted %d characters", name, len(text))

	if id, ok := procnum.Detect(text); ok {
		out.Identifier = id
		out.Cited = citedNumbers(text, id)
		logging.Infof("[pipeline] %s: process number %s", name, id)
		if len(out.Cited) > 0 {
			logging.Infof("[pipeline] %s: also cites %s", name, strings.Join(out.Cited, ", "))
		}
	} else {
		logging.Infof("[pipeline] %s: no process number found, using file name", name)
	}
	out.NamingKey = artifact.NamingKey(out.Identifier, doc.Path)

	p.banner(fmt.Sprintf("Stage 1: Generating initial response with %s", p.provider))
	initial, err := p.complete(ctx, BuildPrompt(p.prompts.Initial, text), p.models.Initial)
	if err != nil {
		logging.Errorf("[pipeline] %s: initial analysis (%s) failed [%s]: %v", name, p.models.Initial, llm.Classify(err), err)
		return p.fail(out, StageInitialAnalysis, err)
	}
	out.Initial = initial
	p.show(initial)
	p.persist(&out, artifact.PhaseInitial, initial)

	p.banner(fmt.Sprintf("Stage 2: Reviewing and improving the response with %s", p.provider))
	improved, err := p.complete(ctx, BuildPrompt(p.prompts.Improved, initial), p.models.Improved)
	if err != nil {
		logging.Errorf("[pipeline] %s: improved analysis (%s) failed [%s]: %v", name, p.models.Improved, llm.Classify(err), err)
		out.Kind = KindImprovedFailure
		out.Stage = StageImprovedAnalysis
		out.Cause = &StageError{Stage: StageImprovedAnalysis, Err: err}
		out.FinishedAt = p.now()
		return out
	}
	out.Improved = improved
	p.show(improved)
	p.persist(&out, artifact.PhaseImproved, improved)

	out.Kind = KindSuccess
	out.FinishedAt = p.now()
	return out
}

// citedNumbers returns the distinct process numbers in text other than id, in order.
func citedNumbers(text, id string) []string {
	seen := map[string]bool{id: true}
	var cited []string
	for _, n := range procnum.FindAll(text) {
		if !seen[n] {
			seen[n] = true
			cited = append(cited, n)
		}
	}
	return cited
}

func (p *Pipeline) complete(ctx context.Context, prompt, model string) (string, error) {
	text, err := p.client.Complete(ctx, prompt, model)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func (p *Pipeline) fail(out Outcome, stage Stage, err error) Outcome {
	out.Kind = KindPartialFailure
	out.Stage = stage
	out.Cause = &StageError{Stage: stage, Err: err}
	out.FinishedAt = p.now()
	return out
}

// persist writes one artifact; a failure is recorded and does not stop the run.
func (p *Pipeline) persist(out *Outcome, phase artifact.Phase, content string) {
	a, err := p.writer.Write(out.NamingKey, phase, content, out.Timestamp)
	if err != nil {
		logging.Errorf("[pipeline] %s: write %s artifact: %v", out.Document.Name(), phase, err)
		out.PersistErrors = append(out.PersistErrors, &StageError{Stage: StagePersistence, Err: err})
		return
	}
	out.Artifacts = append(out.Artifacts, a)
	logging.Infof("[pipeline] %s: %s response saved to %s", out.Document.Name(), phase, a.Path)
}

var rule = strings.Repeat("=", 80)

func (p *Pipeline) banner(title string) {
	if p.echo == nil {
		return
	}
	fmt.Fprintf(p.echo, "\n%s\n%s\n%s\n\n", rule, title, rule)
}

func (p *Pipeline) show(text string) {
	if p.echo == nil {
		return
	}
	fmt.Fprintf(p.echo, "%s\n\n%s\n\n", text, rule)
}

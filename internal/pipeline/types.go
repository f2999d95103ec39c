package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hetulpatel/appealdigest/internal/artifact"
)

// Stage names a step of the per-document pipeline.
type Stage string

const (
	StageExtraction       Stage = "extraction"
	StageInitialAnalysis  Stage = "initial_analysis"
	StageImprovedAnalysis Stage = "improved_analysis"
	StagePersistence      Stage = "persistence"
)

// Sentinel errors per failure domain.
var (
	ErrExtraction       = errors.New("pipeline: text extraction failed")
	ErrInitialAnalysis  = errors.New("pipeline: initial analysis failed")
	ErrImprovedAnalysis = errors.New("pipeline: improved analysis failed")
	ErrPersistence      = errors.New("pipeline: persistence failed")
)

// StageError ties a collaborator error to the stage that produced it.
// errors.Is matches both the stage sentinel and the wrapped cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() []error {
	return []error{sentinelFor(e.Stage), e.Err}
}

func sentinelFor(stage Stage) error {
	switch stage {
	case StageExtraction:
		return ErrExtraction
	case StageInitialAnalysis:
		return ErrInitialAnalysis
	case StageImprovedAnalysis:
		return ErrImprovedAnalysis
	default:
		return ErrPersistence
	}
}

// Kind is the overall result of one document run.
type Kind string

const (
	// KindSuccess: both analyses were produced.
	KindSuccess Kind = "success"
	// KindPartialFailure: extraction or the initial analysis failed; nothing was written.
	KindPartialFailure Kind = "partial_failure"
	// KindImprovedFailure: the initial analysis was produced and persisted, the improved one was not.
	KindImprovedFailure Kind = "improved_failure"
)

// Document is a source PDF on disk.
type Document struct {
	Path string
}

// Name returns the file's base name.
func (d Document) Name() string {
	return filepath.Base(d.Path)
}

// Outcome reports what happened to one document.
type Outcome struct {
	Document   Document
	Kind       Kind
	Stage      Stage // failing stage, empty on success
	Cause      error // *StageError, nil on success
	Identifier string
	// Cited lists the other process numbers referenced in the text.
	Cited      []string
	NamingKey  string
	Timestamp  string
	TextLength int
	Initial    string
	Improved   string

	Artifacts     []artifact.Artifact
	PersistErrors []error

	StartedAt  time.Time
	FinishedAt time.Time
}

// Succeeded reports whether both analyses were produced.
func (o Outcome) Succeeded() bool {
	return o.Kind == KindSuccess
}

// Persisted reports whether every produced analysis reached disk.
func (o Outcome) Persisted() bool {
	return len(o.PersistErrors) == 0
}

// ArtifactPath returns the path written for phase, or "".
func (o Outcome) ArtifactPath(phase artifact.Phase) string {
	for _, a := range o.Artifacts {
		if a.Phase == phase {
			return a.Path
		}
	}
	return ""
}

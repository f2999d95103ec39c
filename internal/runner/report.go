package runner

import (
	"context"
	"strings"

	"github.com/hetulpatel/appealdigest/internal/artifact"
	"github.com/hetulpatel/appealdigest/internal/logging"
	"github.com/hetulpatel/appealdigest/internal/pipeline"
)

// Status is the operator-facing label of an outcome.
func Status(out pipeline.Outcome) string {
	var label string
	switch out.Kind {
	case pipeline.KindSuccess:
		label = "success"
	case pipeline.KindImprovedFailure:
		label = "partial success (initial only)"
	default:
		label = "failure"
	}
	if !out.Persisted() {
		label += ", persisted with errors"
	}
	return label
}

// LogReporter writes one line per document to the package logger.
type LogReporter struct{}

func (LogReporter) Report(ctx context.Context, runID string, out pipeline.Outcome) error {
	name := out.Document.Name()
	switch out.Kind {
	case pipeline.KindSuccess:
		logging.Infof("[runner] %s: %s -> %s", name, Status(out), joinPaths(out))
	case pipeline.KindImprovedFailure:
		logging.Warnf("[runner] %s: %s -> %s (improved: %v)", name, Status(out), joinPaths(out), out.Cause)
	default:
		if out.Stage == "" {
			logging.Errorf("[runner] %s: %s: %v", name, Status(out), out.Cause)
			break
		}
		logging.Errorf("[runner] %s: %s at %s: %v", name, Status(out), out.Stage, out.Cause)
	}
	for _, err := range out.PersistErrors {
		logging.Errorf("[runner] %s: %v", name, err)
	}
	return nil
}

func joinPaths(out pipeline.Outcome) string {
	var paths []string
	for _, phase := range []artifact.Phase{artifact.PhaseInitial, artifact.PhaseImproved} {
		if p := out.ArtifactPath(phase); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return "(nothing written)"
	}
	return strings.Join(paths, ", ")
}

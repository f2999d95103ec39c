package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hetulpatel/appealdigest/internal/artifact"
	"github.com/hetulpatel/appealdigest/internal/hashutil"
	"github.com/hetulpatel/appealdigest/internal/pipeline"
)

// OutcomeEvent is the payload published once per processed document.
type OutcomeEvent struct {
	// EventID is stable for a run and source path, so consumers can drop redeliveries.
	EventID       string    `json:"event_id"`
	RunID         string    `json:"run_id"`
	Document      string    `json:"document"`
	SourcePath    string    `json:"source_path"`
	NamingKey     string    `json:"naming_key,omitempty"`
	ProcessNumber string    `json:"process_number,omitempty"`
	Cited         []string  `json:"cited,omitempty"`
	Outcome       string    `json:"outcome"`
	FailedStage   string    `json:"failed_stage,omitempty"`
	Error         string    `json:"error,omitempty"`
	InitialPath   string    `json:"initial_path,omitempty"`
	ImprovedPath  string    `json:"improved_path,omitempty"`
	PersistErrors []string  `json:"persist_errors,omitempty"`
	Timestamp     string    `json:"timestamp,omitempty"`
	PublishedAt   time.Time `json:"published_at"`
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// BuildMessage encodes one outcome. The key is the naming key, falling back to the file name.
func BuildMessage(runID string, out pipeline.Outcome, now time.Time) (kafka.Message, error) {
	ev := OutcomeEvent{
		EventID:       hashutil.HashStrings(runID, out.Document.Path),
		RunID:         runID,
		Document:      out.Document.Name(),
		SourcePath:    out.Document.Path,
		NamingKey:     out.NamingKey,
		ProcessNumber: out.Identifier,
		Cited:         out.Cited,
		Outcome:       string(out.Kind),
		FailedStage:   string(out.Stage),
		InitialPath:   out.ArtifactPath(artifact.PhaseInitial),
		ImprovedPath:  out.ArtifactPath(artifact.PhaseImproved),
		Timestamp:     out.Timestamp,
		PublishedAt:   now.UTC(),
	}
	if out.Cause != nil {
		ev.Error = out.Cause.Error()
	}
	for _, err := range out.PersistErrors {
		ev.PersistErrors = append(ev.PersistErrors, err.Error())
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal outcome %s: %w", ev.Document, err)
	}
	key := out.NamingKey
	if key == "" {
		key = ev.Document
	}
	return kafka.Message{Key: []byte(key), Value: payload}, nil
}

// Publisher sends outcome events to a topic.
type Publisher struct {
	writer MessageWriter
	now    func() time.Time
}

func NewPublisher(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer, now: time.Now}
}

// Report implements runner.Reporter.
func (p *Publisher) Report(ctx context.Context, runID string, out pipeline.Outcome) error {
	if p == nil || p.writer == nil {
		return nil
	}
	msg, err := BuildMessage(runID, out, p.now())
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hetulpatel/appealdigest/internal/artifact"
	"github.com/hetulpatel/appealdigest/internal/pipeline"
)

func TestNewRedisStatusCacheDefaults(t *testing.T) {
	if _, err := NewRedisStatusCache("", "", 0, 0, ""); err == nil {
		t.Fatal("expected error for empty addr")
	}
	c, err := NewRedisStatusCache("localhost:6379", "", 0, 0, "")
	if err != nil {
		t.Fatalf("NewRedisStatusCache: %v", err)
	}
	defer c.Close()
	rc := c.(*redisStatusCache)
	if rc.ttl != 720*time.Hour {
		t.Errorf("ttl = %v", rc.ttl)
	}
	if got := rc.key("1234567-89.2023.8.26.0100"); got != "appeal_status:1234567-89.2023.8.26.0100" {
		t.Errorf("key = %q", got)
	}
}

func TestReportSkipsOutcomesWithoutKey(t *testing.T) {
	// no server behind the client; Report must return before dialing
	c, err := NewRedisStatusCache("127.0.0.1:1", "", 0, time.Minute, "t")
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()
	if err := c.Report(context.Background(), "run", pipeline.Outcome{}); err != nil {
		t.Errorf("Report = %v", err)
	}
}

func TestNilCacheIsNoop(t *testing.T) {
	var c *redisStatusCache
	if _, ok, err := c.Get(context.Background(), "k"); ok || err != nil {
		t.Errorf("Get = %v, %v", ok, err)
	}
	if err := c.Set(context.Background(), "k", Status{}); err != nil {
		t.Errorf("Set = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
}

func TestNewStatus(t *testing.T) {
	finished := time.Date(2024, 1, 1, 12, 0, 5, 0, time.FixedZone("BRT", -3*3600))
	out := pipeline.Outcome{
		Document:   pipeline.Document{Path: "/docs/recurso.pdf"},
		Kind:       pipeline.KindImprovedFailure,
		Stage:      pipeline.StageImprovedAnalysis,
		Cause:      &pipeline.StageError{Stage: pipeline.StageImprovedAnalysis, Err: errors.New("timeout")},
		Identifier: "1234567-89.2023.8.26.0100",
		NamingKey:  "1234567-89.2023.8.26.0100",
		Timestamp:  "20240101_120000",
		Artifacts:  []artifact.Artifact{{Phase: artifact.PhaseInitial, Path: "/r/i.txt"}},
		FinishedAt: finished,
	}
	st := NewStatus("run-9", out)
	if st.Document != "recurso.pdf" || st.Outcome != "improved_failure" || st.FailedStage != "improved_analysis" {
		t.Errorf("status = %+v", st)
	}
	if st.InitialPath != "/r/i.txt" || st.ImprovedPath != "" {
		t.Errorf("paths = %q / %q", st.InitialPath, st.ImprovedPath)
	}
	if st.Error != "improved_analysis: timeout" {
		t.Errorf("error = %q", st.Error)
	}
	if st.UpdatedAt.Location() != time.UTC || !st.UpdatedAt.Equal(finished) {
		t.Errorf("updated_at = %v", st.UpdatedAt)
	}
}

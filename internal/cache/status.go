package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hetulpatel/appealdigest/internal/artifact"
	"github.com/hetulpatel/appealdigest/internal/pipeline"
)

// Status is the latest known state of one document, keyed by naming key.
type Status struct {
	RunID         string    `json:"run_id"`
	Document      string    `json:"document"`
	ProcessNumber string    `json:"process_number,omitempty"`
	Outcome       string    `json:"outcome"`
	FailedStage   string    `json:"failed_stage,omitempty"`
	Error         string    `json:"error,omitempty"`
	InitialPath   string    `json:"initial_path,omitempty"`
	ImprovedPath  string    `json:"improved_path,omitempty"`
	Timestamp     string    `json:"timestamp"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewStatus flattens an outcome.
func NewStatus(runID string, out pipeline.Outcome) Status {
	st := Status{
		RunID:         runID,
		Document:      out.Document.Name(),
		ProcessNumber: out.Identifier,
		Outcome:       string(out.Kind),
		FailedStage:   string(out.Stage),
		InitialPath:   out.ArtifactPath(artifact.PhaseInitial),
		ImprovedPath:  out.ArtifactPath(artifact.PhaseImproved),
		Timestamp:     out.Timestamp,
		UpdatedAt:     out.FinishedAt.UTC(),
	}
	if out.Cause != nil {
		st.Error = out.Cause.Error()
	}
	return st
}

// StatusCache stores the last outcome per document.
type StatusCache interface {
	Get(ctx context.Context, key string) (Status, bool, error)
	Set(ctx context.Context, key string, st Status) error
	Report(ctx context.Context, runID string, out pipeline.Outcome) error
	Close() error
}

type redisStatusCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisStatusCache(addr, password string, db int, ttl time.Duration, prefix string) (StatusCache, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	if ttl <= 0 {
		ttl = 720 * time.Hour
	}
	if prefix == "" {
		prefix = "appeal_status"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &redisStatusCache{client: client, ttl: ttl, prefix: prefix}, nil
}

// Ping checks connectivity.
func Ping(ctx context.Context, c StatusCache) error {
	rc, ok := c.(*redisStatusCache)
	if !ok || rc == nil || rc.client == nil {
		return nil
	}
	return rc.client.Ping(ctx).Err()
}

func (c *redisStatusCache) key(k string) string {
	return fmt.Sprintf("%s:%s", c.prefix, k)
}

func (c *redisStatusCache) Get(ctx context.Context, key string) (Status, bool, error) {
	if c == nil || c.client == nil {
		return Status{}, false, nil
	}
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return Status{}, false, nil
	}
	if err != nil {
		return Status{}, false, err
	}
	var st Status
	if err := json.Unmarshal(val, &st); err != nil {
		return Status{}, false, fmt.Errorf("decode status %s: %w", key, err)
	}
	return st, true, nil
}

func (c *redisStatusCache) Set(ctx context.Context, key string, st Status) error {
	if c == nil || c.client == nil {
		return nil
	}
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode status %s: %w", key, err)
	}
	return c.client.Set(ctx, c.key(key), payload, c.ttl).Err()
}

// Report stores the outcome under its naming key. Outcomes without one
// (the document never got that far) are skipped.
func (c *redisStatusCache) Report(ctx context.Context, runID string, out pipeline.Outcome) error {
	if out.NamingKey == "" {
		return nil
	}
	return c.Set(ctx, out.NamingKey, NewStatus(runID, out))
}

func (c *redisStatusCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

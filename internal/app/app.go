// Package app wires configuration, clients and sinks into one batch run.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hetulpatel/appealdigest/internal/artifact"
	"github.com/hetulpatel/appealdigest/internal/cache"
	"github.com/hetulpatel/appealdigest/internal/config"
	"github.com/hetulpatel/appealdigest/internal/export"
	"github.com/hetulpatel/appealdigest/internal/extract"
	"github.com/hetulpatel/appealdigest/internal/kafka"
	"github.com/hetulpatel/appealdigest/internal/llm"
	"github.com/hetulpatel/appealdigest/internal/logging"
	"github.com/hetulpatel/appealdigest/internal/pipeline"
	"github.com/hetulpatel/appealdigest/internal/queue"
	"github.com/hetulpatel/appealdigest/internal/runner"
	"github.com/hetulpatel/appealdigest/internal/storage/sqlite"
)

// App runs one batch over the configured input directory.
type App struct {
	cfg config.Config
	out io.Writer

	newExtractor func(cfg config.Config) extract.TextExtractor
	newClient    func(ctx context.Context, cfg config.Config) (llm.Completer, func() error, error)
}

// New returns an App writing console output to out (os.Stdout when nil).
func New(cfg config.Config, out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	return &App{
		cfg:          cfg,
		out:          out,
		newExtractor: buildExtractor,
		newClient:    buildClient,
	}
}

// Main is the shared entry point of the provider binaries.
func Main(ctx context.Context, provider config.Provider) error {
	logging.InitFromEnv()
	defer logging.Sync()

	cfg, err := config.Load(provider)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	_, err = New(cfg, os.Stdout).Run(ctx)
	return err
}

// Run discovers the input PDFs and processes them one at a time.
// A missing input directory or an empty one ends the run without error.
func (a *App) Run(ctx context.Context) (runner.Summary, error) {
	docs, err := runner.Discover(a.cfg.DocsDir)
	if errors.Is(err, runner.ErrInputDirCreated) {
		fmt.Fprintf(a.out, "Directory '%s' created. Please add PDF files to it and run again.\n", a.cfg.DocsDir)
		return runner.Summary{}, nil
	}
	if err != nil {
		return runner.Summary{}, err
	}
	if len(docs) == 0 {
		fmt.Fprintf(a.out, "No PDF files found in '%s'.\n", a.cfg.DocsDir)
		return runner.Summary{}, nil
	}

	writer, err := artifact.NewWriter(a.cfg.ResponsesDir)
	if err != nil {
		return runner.Summary{}, err
	}
	client, closeClient, err := a.newClient(ctx, a.cfg)
	if err != nil {
		return runner.Summary{}, err
	}
	defer closeClient()

	pcfg := pipeline.Config{
		Extractor: a.newExtractor(a.cfg),
		Client:    client,
		Writer:    writer,
		Models:    a.cfg.Models(),
		Prompts:   a.cfg.Prompts,
		Provider:  a.cfg.Provider.DisplayName(),
	}
	if a.cfg.Echo {
		pcfg.Echo = a.out
	}
	p, err := pipeline.New(pcfg)
	if err != nil {
		return runner.Summary{}, err
	}

	reporters, closeSinks := a.buildReporters(ctx)
	defer closeSinks()

	fmt.Fprintf(a.out, "Found %d PDF file(s) in '%s'.\n", len(docs), a.cfg.DocsDir)
	summary := runner.New(p, reporters...).Run(ctx, docs)

	if a.cfg.SummaryXLSX != "" {
		if err := export.WriteSummary(a.cfg.SummaryXLSX, summary); err != nil {
			logging.Errorf("[app] write summary %s: %v", a.cfg.SummaryXLSX, err)
		} else {
			logging.Infof("[app] summary written to %s", a.cfg.SummaryXLSX)
		}
	}

	printSummary(a.out, summary)
	if summary.Interrupted {
		return summary, fmt.Errorf("app: run interrupted: %w", context.Cause(ctx))
	}
	return summary, nil
}

func buildExtractor(cfg config.Config) extract.TextExtractor {
	var ex extract.TextExtractor
	switch cfg.Extractor {
	case config.ExtractorPdftotext:
		ex = extract.NewCommandExtractor(cfg.PdftotextBin)
	default:
		ex = extract.NewNativeExtractor(cfg.MaxPages)
	}
	if cfg.Preflight {
		ex = extract.NewPreflight(ex)
	}
	return ex
}

func buildClient(ctx context.Context, cfg config.Config) (llm.Completer, func() error, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		client, err := llm.NewGemini(ctx, cfg.Gemini)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	default:
		client, err := llm.NewOpenAI(cfg.OpenAI)
		if err != nil {
			return nil, nil, err
		}
		return client, func() error { return nil }, nil
	}
}

// buildReporters always logs; the other sinks are added only when configured.
// A sink that cannot be reached is skipped with an error log.
func (a *App) buildReporters(ctx context.Context) ([]runner.Reporter, func()) {
	reporters := []runner.Reporter{runner.LogReporter{}}
	var closers []func() error

	if a.cfg.SQLitePath != "" {
		store, err := sqlite.Open(ctx, a.cfg.SQLitePath)
		if err != nil {
			logging.Errorf("[ledger] open %s: %v", a.cfg.SQLitePath, err)
		} else {
			logging.Infof("[ledger] recording runs in %s", store.Path())
			reporters = append(reporters, store)
			closers = append(closers, store.Close)
		}
	}

	if a.cfg.RedisAddr != "" {
		status, err := cache.NewRedisStatusCache(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB, a.cfg.StatusTTL, "")
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = cache.Ping(pingCtx, status)
			cancel()
			if err != nil {
				status.Close()
			}
		}
		if err != nil {
			logging.Errorf("[status] redis %s: %v", a.cfg.RedisAddr, err)
		} else {
			reporters = append(reporters, status)
			closers = append(closers, status.Close)
		}
	}

	if len(a.cfg.KafkaBrokers) > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		err := kafka.WaitForBroker(waitCtx, a.cfg.KafkaBrokers)
		if err == nil {
			err = kafka.EnsureTopic(waitCtx, a.cfg.KafkaBrokers, a.cfg.OutcomesTopic)
		}
		cancel()
		if err != nil {
			logging.Errorf("[events] kafka %v: %v", a.cfg.KafkaBrokers, err)
		} else {
			writer := kafka.NewWriter(a.cfg.KafkaBrokers, a.cfg.OutcomesTopic)
			logging.Infof("[events] publishing outcomes to %s", a.cfg.OutcomesTopic)
			reporters = append(reporters, queue.NewPublisher(writer))
			closers = append(closers, writer.Close)
		}
	}

	return reporters, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logging.Errorf("[app] close sink: %v", err)
			}
		}
	}
}

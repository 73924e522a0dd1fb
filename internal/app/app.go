package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsRadar/internal/config"
	"NewsRadar/internal/infrastructure/browser"
	"NewsRadar/internal/infrastructure/extract"
	"NewsRadar/internal/infrastructure/llm"
	"NewsRadar/internal/infrastructure/scheduler"
	"NewsRadar/internal/infrastructure/sheetstore"
	"NewsRadar/internal/infrastructure/telegram"
	"NewsRadar/internal/logging"
	"NewsRadar/internal/ports"
	"NewsRadar/internal/source"
	"NewsRadar/internal/timeparse"
	"NewsRadar/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	fetcher  *browser.Fetcher
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance: storage client, browser,
// extractor registry, optional classifier and notifier, and the pipeline.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	if cfg.SpreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is not configured")
	}

	credentials, err := cfg.Sheets.ResolveCredentials()
	if err != nil {
		return nil, fmt.Errorf("resolve sheets credentials: %w", err)
	}

	store, err := sheetstore.New(ctx, cfg.SpreadsheetID, credentials,
		cfg.Sheets.MaxAttempts, baseLogger.With("component", "sheets"))
	if err != nil {
		return nil, fmt.Errorf("create sheet store: %w", err)
	}

	registry := source.NewRegistry()
	registry.Register(extract.NewGoogleExtractor())
	registry.Register(extract.NewYahooExtractor())
	registry.Register(extract.NewMSNExtractor(timeparse.NewHeadResolver(nil)))

	fetcher, err := browser.New(cfg.Fetcher.HeadlessEnabled(), baseLogger.With("component", "fetcher"))
	if err != nil {
		return nil, fmt.Errorf("start browser fetcher: %w", err)
	}

	var classifier ports.Classifier
	if cfg.Classifier.APIKey != "" {
		classifier = llm.NewClient(cfg.Classifier)
	} else {
		baseLogger.Info("classification disabled: no API key configured")
	}

	var notifier ports.Notifier
	if cfg.Notifications.Telegram.BotToken != "" && cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Fetcher:              fetcher,
		Registry:             registry,
		Store:                store,
		Classifier:           classifier,
		Notifier:             notifier,
		Logger:               baseLogger.With("component", "pipeline"),
		Keyword:              cfg.Keyword,
		Sources:              cfg.Sources,
		BatchSize:            cfg.Classifier.BatchSize,
		ReverifyBeforeAppend: cfg.Sheets.ReverifyBeforeAppend,
	})

	return &Application{cfg: cfg, logger: baseLogger, fetcher: fetcher, pipeline: pipeline}, nil
}

// Run executes the pipeline once, or on a ticker when an interval is
// configured, and releases the browser afterwards.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		if err := a.fetcher.Close(); err != nil {
			a.logger.Warn("close fetcher", "error", err)
		}
	}()

	interval := time.Duration(a.cfg.Scheduler.IntervalHours) * time.Hour
	if interval <= 0 {
		return a.pipeline.Run(ctx)
	}

	sched := usecase.NewScheduler(scheduler.NewIntervalScheduler(interval), a.pipeline)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

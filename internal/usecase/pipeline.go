package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"NewsRadar/internal/config"
	"NewsRadar/internal/domain"
	"NewsRadar/internal/ports"
	"NewsRadar/internal/source"
	"NewsRadar/internal/timeparse"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Fetcher              ports.Fetcher
	Registry             *source.Registry
	Store                ports.SheetStore
	Classifier           ports.Classifier
	Notifier             ports.Notifier
	Logger               *slog.Logger
	Keyword              string
	Sources              []config.SourceConfig
	BatchSize            int
	ReverifyBeforeAppend bool
	Now                  func() time.Time
}

// Pipeline runs the scrape-dedup-append-classify workflow across sources.
type Pipeline struct {
	fetcher              ports.Fetcher
	registry             *source.Registry
	store                ports.SheetStore
	classifier           ports.Classifier
	notifier             ports.Notifier
	logger               *slog.Logger
	keyword              string
	sources              []config.SourceConfig
	batchSize            int
	reverifyBeforeAppend bool
	now                  func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	batchSize := deps.BatchSize
	if batchSize <= 0 {
		batchSize = 40
	}

	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().In(timeparse.JST) }
	}

	return &Pipeline{
		fetcher:              deps.Fetcher,
		registry:             deps.Registry,
		store:                deps.Store,
		classifier:           deps.Classifier,
		notifier:             deps.Notifier,
		logger:               logger,
		keyword:              deps.Keyword,
		sources:              deps.Sources,
		batchSize:            batchSize,
		reverifyBeforeAppend: deps.ReverifyBeforeAppend,
		now:                  now,
	}
}

// sourceReport carries per-source progress counts for logs and the summary.
type sourceReport struct {
	Name       string
	Extracted  int
	Appended   int
	Classified int
}

// Run processes every configured source in order. A failure in one source
// never blocks the others. The returned error joins storage failures only:
// those are the one condition that must fail the process loudly, since an
// ambiguous append state would poison future dedup runs. Fetch, extraction
// and classification problems degrade and are logged.
func (p *Pipeline) Run(ctx context.Context) error {
	var (
		failures []error
		reports  []sourceReport
	)

	for _, src := range p.sources {
		report, err := p.runSource(ctx, src)
		reports = append(reports, report)
		if err != nil {
			p.logger.Error("source pipeline failed", "source", src.Name, "error", err)
			failures = append(failures, fmt.Errorf("source %s: %w", src.Name, err))
		}
	}

	p.publishSummary(ctx, reports)

	return errors.Join(failures...)
}

// runSource executes fetch → extract → append → classify for one source.
// The returned error is non-nil only for storage failures; anything earlier
// is logged here and ends the source's run quietly.
func (p *Pipeline) runSource(ctx context.Context, src config.SourceConfig) (sourceReport, error) {
	report := sourceReport{Name: src.Name}
	logger := p.logger.With("source", src.Name)

	extractor, err := p.registry.Resolve(src.Name)
	if err != nil {
		logger.Error("no extractor for source", "error", err)
		return report, nil
	}

	markup, err := p.fetcher.Fetch(ctx, source.BuildFetchRequest(src, p.keyword))
	if err != nil {
		logger.Error("fetch failed", "error", err)
		return report, nil
	}

	records, issues, err := extractor.Extract(markup, p.now())
	if err != nil {
		logger.Error("extraction failed", "error", err)
		return report, nil
	}
	report.Extracted = len(records)
	logger.Info("extracted articles", "count", len(records), "skipped", len(issues))
	if len(issues) > 0 {
		logger.Debug("extraction issues", "detail", issueSummary(issues))
	}

	indices, err := p.appendNew(ctx, src.Worksheet, records)
	if err != nil {
		return report, err
	}
	report.Appended = len(indices)
	if len(indices) == 0 {
		logger.Info("no new rows to append")
		return report, nil
	}
	logger.Info("appended new rows", "count", len(indices), "first_row", indices[0])

	classified, err := p.classifyRows(ctx, src.Worksheet, indices)
	if err != nil {
		return report, err
	}
	report.Classified = classified
	logger.Info("classified rows", "count", classified)

	return report, nil
}

func (p *Pipeline) publishSummary(ctx context.Context, reports []sourceReport) {
	if p.notifier == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ニュース収集結果（%s）\n", p.keyword))
	for _, r := range reports {
		sb.WriteString(fmt.Sprintf("%s: 取得%d件 / 追記%d件 / 分類%d件\n",
			r.Name, r.Extracted, r.Appended, r.Classified))
	}

	if err := p.notifier.PublishSummary(ctx, sb.String()); err != nil {
		p.logger.Warn("summary notification failed", "error", err)
	}
}

func issueSummary(issues []domain.ExtractionError) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, issue.Error())
	}
	return strings.Join(parts, "; ")
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/dafibh/tally/tally-backend/internal/export"
	"github.com/rs/zerolog"
)

// ArchiveWorker periodically archives every report to object storage
type ArchiveWorker struct {
	exportService *ExportService
	logger        zerolog.Logger
	interval      time.Duration
	format        export.Format
	stopCh        chan struct{}
	doneCh        chan struct{}
	mu            sync.Mutex
	running       bool
}

// ArchiveWorkerConfig holds configuration for the archive worker
type ArchiveWorkerConfig struct {
	Interval time.Duration
	Format   export.Format
}

// DefaultArchiveWorkerConfig archives PDFs once a day
func DefaultArchiveWorkerConfig() ArchiveWorkerConfig {
	return ArchiveWorkerConfig{
		Interval: 24 * time.Hour,
		Format:   export.FormatPDF,
	}
}

// ArchiveRunResult summarizes one archive pass
type ArchiveRunResult struct {
	Archived []ArchivedReport
	Failed   int
}

// NewArchiveWorker creates a new archive worker
func NewArchiveWorker(exportService *ExportService, logger zerolog.Logger, config ArchiveWorkerConfig) *ArchiveWorker {
	defaults := DefaultArchiveWorkerConfig()
	if config.Interval <= 0 {
		config.Interval = defaults.Interval
	}
	if config.Format == "" {
		config.Format = defaults.Format
	}

	return &ArchiveWorker{
		exportService: exportService,
		logger:        logger.With().Str("component", "archive_worker").Logger(),
		interval:      config.Interval,
		format:        config.Format,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start begins archiving in the background
func (w *ArchiveWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().
		Dur("interval", w.interval).
		Str("format", string(w.format)).
		Msg("Starting archive worker")

	go w.run(ctx)
}

// Stop waits for the current pass to finish and stops the worker
func (w *ArchiveWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping archive worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Archive worker stopped")
}

func (w *ArchiveWorker) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.ArchiveAll(ctx)
		}
	}
}

// ArchiveAll archives each report once. A failing report does not stop the others.
func (w *ArchiveWorker) ArchiveAll(ctx context.Context) ArchiveRunResult {
	var result ArchiveRunResult
	startTime := time.Now()

	for _, kind := range []domain.ReportKind{domain.ReportAccountBalances, domain.ReportBalanceSheet, domain.ReportIncomeStatement} {
		if ctx.Err() != nil {
			break
		}
		archived, err := w.exportService.Archive(ctx, kind, w.format)
		if err != nil {
			w.logger.Error().
				Err(err).
				Str("report", string(kind)).
				Msg("Failed to archive report")
			result.Failed++
			continue
		}
		result.Archived = append(result.Archived, *archived)
	}

	w.logger.Info().
		Int("archived", len(result.Archived)).
		Int("failed", result.Failed).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed report archive")
	return result
}

// IsRunning returns whether the worker is currently running
func (w *ArchiveWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

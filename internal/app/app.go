package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"WpJekyllExport/internal/classify"
	"WpJekyllExport/internal/config"
	"WpJekyllExport/internal/convert"
	"WpJekyllExport/internal/infrastructure/download"
	"WpJekyllExport/internal/infrastructure/scrape"
	"WpJekyllExport/internal/logging"
	"WpJekyllExport/internal/ports"
	"WpJekyllExport/internal/usecase"
	"WpJekyllExport/internal/wxr"
)

// Application wires configuration to the conversion pipeline.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := convert.NewRegistry()
	registry.Register(convert.HTML{})
	registry.Register(convert.NewMarkdown())
	converter, err := registry.Resolve(cfg.TargetFormat)
	if err != nil {
		return nil, err
	}

	classifier, err := classify.New(cfg, scrape.New(), baseLogger.With("component", "classifier"))
	if err != nil {
		return nil, fmt.Errorf("build classifier: %w", err)
	}

	parser := wxr.NewParser(
		cfg.DateFormat,
		cfg.TaxonomyFilterSet(),
		cfg.Taxonomies.EntryFilter,
		baseLogger.With("component", "parser"),
	)

	var downloader ports.Downloader
	if cfg.DownloadImages {
		downloader = download.New(nil)
	}

	pipeline := usecase.New(usecase.Deps{
		Parser:     parser,
		Classifier: classifier,
		Converter:  converter,
		Downloader: downloader,
		Config:     cfg,
		Logger:     baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, logger: baseLogger, pipeline: pipeline}, nil
}

// Run converts every export document matching <wp_exports>/*.xml. A failing
// file is logged and the remaining files are still processed.
func (a *Application) Run(ctx context.Context) error {
	pattern := filepath.Join(a.cfg.WpExports, "*.xml")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return fmt.Errorf("glob exports: %w", err)
	}
	if len(files) == 0 {
		a.logger.Warn("no export files found", "pattern", pattern)
		return nil
	}

	var failed int
	for _, file := range files {
		a.logger.Info("reading export", "file", file)
		if err := a.pipeline.ProcessFile(ctx, file); err != nil {
			a.logger.Error("convert export", "file", file, "error", err)
			failed++
		}
	}

	if failed == len(files) {
		return fmt.Errorf("all %d export files failed", failed)
	}
	return nil
}

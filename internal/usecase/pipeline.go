package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"WpJekyllExport/internal/classify"
	"WpJekyllExport/internal/config"
	"WpJekyllExport/internal/convert"
	"WpJekyllExport/internal/jekyll"
	"WpJekyllExport/internal/ports"
	"WpJekyllExport/internal/resolve"
	"WpJekyllExport/internal/wxr"
)

// Deps wires all collaborators into the conversion pipeline.
type Deps struct {
	Parser     *wxr.Parser
	Classifier *classify.Classifier
	Converter  convert.Converter
	Downloader ports.Downloader
	Config     config.Config
	Logger     *slog.Logger
}

// Pipeline implements the export-conversion workflow: parse, classify,
// resolve, emit. Identifier and attachment state is fresh per export file.
type Pipeline struct {
	parser     *wxr.Parser
	classifier *classify.Classifier
	converter  convert.Converter
	downloader ports.Downloader
	cfg        config.Config
	logger     *slog.Logger
}

// New constructs the orchestration component.
func New(deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		parser:     deps.Parser,
		classifier: deps.Classifier,
		converter:  deps.Converter,
		downloader: deps.Downloader,
		cfg:        deps.Config,
		logger:     logger,
	}
}

// ProcessFile converts one export document end to end. A malformed document
// is an error for this file only.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open export %s: %w", path, err)
	}
	defer f.Close()

	export, err := p.parser.Parse(f)
	if err != nil {
		return fmt.Errorf("parse export %s: %w", path, err)
	}

	return p.Process(ctx, export)
}

// Process runs classification, resolution, and emission for a fully parsed
// export. Parsing completes before any path resolution starts, so page
// parent chains always see the whole item set. Per-item failures are logged
// and do not stop the run.
func (p *Pipeline) Process(ctx context.Context, export *wxr.Result) error {
	blogDir := resolve.BlogDir(p.cfg.BuildDir, export.Header.Link)
	uids := resolve.NewUIDTable(p.cfg.DateFormat, p.cfg.UIDWpIDPrefix, p.logger)
	paths := resolve.NewPaths(blogDir, p.cfg.TargetFormat, uids, p.cfg.ItemTypeFilterSet(), p.logger)

	writer := jekyll.NewWriter(jekyll.Config{
		BlogDir:    blogDir,
		BaseLink:   export.Header.Link,
		DateFormat: p.cfg.DateFormat,
		Converter:  p.converter,
		Downloads:  p.cfg.DownloadImages,
		Downloader: p.downloader,
		Registry:   resolve.NewAttachmentRegistry(),
		Logger:     p.logger,
	})

	var written, skipped, failed int
	for _, item := range export.Items {
		if p.classifier.Skip(item) {
			skipped++
			continue
		}

		p.classifier.Enrich(item)

		keep, err := paths.Resolve(item, export.Items)
		if err != nil {
			p.logger.Error("resolve item path", "title", item.Title, "error", err)
			failed++
			continue
		}
		if !keep {
			skipped++
			continue
		}

		p.logger.Debug("writing item", "title", item.Title, "path", item.Path)
		if err := writer.Write(item, p.classifier.MapTaxonomies(item)); err != nil {
			p.logger.Error("write item", "title", item.Title, "error", err)
			failed++
			continue
		}

		writer.DownloadImages(ctx, item)
		written++
	}

	p.logger.Info("export converted",
		"link", export.Header.Link,
		"written", written,
		"skipped", skipped,
		"failed", failed,
	)
	return nil
}

package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/partflow/internal/classification"
	"github.com/Veraticus/partflow/internal/model"
	"github.com/Veraticus/partflow/internal/normalize"
	"github.com/Veraticus/partflow/internal/storage"
)

// Options configures a Pipeline.
type Options struct {
	Now       func() time.Time
	SourceDir string
	Currency  string
	Workers   int
	DryRun    bool
}

// Observer receives progress events. Calls are serialized by the pipeline.
type Observer interface {
	FilesDiscovered(n int)
	FileProcessed(file FileStats)
	BatchesPlanned(n int)
	BatchApplied(result storage.BatchResult)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) FilesDiscovered(int)               {}
func (NopObserver) FileProcessed(FileStats)           {}
func (NopObserver) BatchesPlanned(int)                {}
func (NopObserver) BatchApplied(storage.BatchResult) {}

// Pipeline runs one ingestion over a source directory.
type Pipeline struct {
	classifier *classification.Classifier
	normalizer *normalize.Normalizer
	writer     *storage.CatalogWriter
	observer   Observer
	opts       Options
	mu         sync.Mutex
}

// New creates a pipeline. writer may be nil for dry runs.
func New(classifier *classification.Classifier, normalizer *normalize.Normalizer, writer *storage.CatalogWriter, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Currency == "" {
		opts.Currency = storage.DefaultCurrency
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if writer == nil {
		opts.DryRun = true
	}

	return &Pipeline{
		classifier: classifier,
		normalizer: normalizer,
		writer:     writer,
		observer:   NopObserver{},
		opts:       opts,
	}
}

// SetObserver installs a progress observer.
func (p *Pipeline) SetObserver(observer Observer) {
	if observer == nil {
		observer = NopObserver{}
	}
	p.observer = observer
}

type fileResult struct {
	stats      *Stats
	candidates []model.Component
}

// Run processes every source file and persists the accepted components.
// Bad files and records are skipped and counted. The returned error is
// non-nil only when the source directory is missing or ctx ends; a partial
// report is still returned in the latter case.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		ID:        uuid.NewString(),
		Source:    p.opts.SourceDir,
		StartedAt: p.opts.Now(),
		DryRun:    p.opts.DryRun,
		Stats:     NewStats(),
	}

	files, err := Discover(p.opts.SourceDir)
	if err != nil {
		return nil, err
	}

	slog.Info("Starting ingestion run",
		"run_id", report.ID,
		"source", p.opts.SourceDir,
		"files", len(files),
		"workers", p.opts.Workers,
		"dry_run", p.opts.DryRun)
	p.notify(func(o Observer) { o.FilesDiscovered(len(files)) })

	lastUpdated := report.StartedAt.UTC()
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.processFile(path, lastUpdated)
			file := FileStats{Name: filepath.Base(path)}
			if len(results[i].stats.Files) > 0 {
				file = results[i].stats.Files[0]
			}
			p.notify(func(o Observer) { o.FileProcessed(file) })
			return nil
		})
	}
	waitErr := g.Wait()

	var candidates []model.Component
	for _, result := range results {
		if result.stats == nil {
			continue
		}
		report.Stats.Merge(result.stats)
		candidates = append(candidates, result.candidates...)
	}
	candidates, report.Stats.Collapsed = collapse(candidates)
	report.Components = candidates

	if waitErr != nil {
		report.FinishedAt = p.opts.Now()
		return report, fmt.Errorf("ingestion interrupted: %w", waitErr)
	}

	if !p.opts.DryRun && len(candidates) > 0 {
		p.notify(func(o Observer) { o.BatchesPlanned(p.writer.Batches(len(candidates))) })
		p.writer.OnBatch(func(br storage.BatchResult) {
			p.notify(func(o Observer) { o.BatchApplied(br) })
		})

		result, err := p.writer.Upsert(ctx, candidates)
		report.Stats.Persisted = result.Affected
		report.Stats.FailedBatches = result.Failed
		report.Batches = batchReports(result.Batches)
		if err != nil {
			report.FinishedAt = p.opts.Now()
			return report, fmt.Errorf("persistence interrupted: %w", err)
		}
	}

	report.FinishedAt = p.opts.Now()

	slog.Info("Ingestion run complete",
		"run_id", report.ID,
		"processed", report.Stats.Processed,
		"accepted", report.Stats.Accepted,
		"rejected", report.Stats.Rejected,
		"persisted", report.Stats.Persisted,
		"failed_batches", report.Stats.FailedBatches,
		"duration", report.Duration())

	if report.Stats.Accepted == 0 {
		slog.Warn("No records were accepted", "run_id", report.ID)
	}

	return report, nil
}

func (p *Pipeline) notify(fn func(Observer)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.observer)
}

// processFile owns its Stats until the coordinator merges them.
func (p *Pipeline) processFile(path string, lastUpdated time.Time) fileResult {
	name := filepath.Base(path)
	stats := NewStats()
	result := fileResult{stats: stats}

	hint, hinted := p.classifier.Catalog().HintCategory(name)
	file := FileStats{Name: name, Hint: hint}

	records, malformed, err := ParseFile(path)
	if err != nil {
		slog.Warn("Skipping source file", "file", name, "error", err)
		stats.SkippedFiles = append(stats.SkippedFiles, SkippedFile{Name: name, Reason: err.Error()})
		return result
	}

	file.Malformed = malformed
	stats.MalformedRecords += malformed

	for _, raw := range records {
		rec, err := p.normalizer.Normalize(raw)
		if err != nil {
			file.Malformed++
			stats.MalformedRecords++
			slog.Debug("Skipping malformed record", "file", name, "error", err)
			continue
		}
		file.Records++

		component, reason, ok := p.classify(rec, hint, hinted)
		if !ok {
			file.Rejected++
			stats.reject(reason)
			continue
		}

		component.Currency = p.opts.Currency
		component.LastUpdated = lastUpdated
		file.Accepted++
		stats.accept(component.category)
		result.candidates = append(result.candidates, component.Component)
	}

	stats.Files = append(stats.Files, file)
	slog.Debug("Processed source file",
		"file", name,
		"hint", hint,
		"records", file.Records,
		"accepted", file.Accepted,
		"rejected", file.Rejected,
		"malformed", file.Malformed)

	return result
}

type classified struct {
	category model.Category
	model.Component
}

// classify validates against the hinted category, or detects one. A
// detected category is accepted as is. rec.Model has its brand prefix
// stripped, so the allow-list check uses the record's resolved brand.
func (p *Pipeline) classify(rec model.NormalizedRecord, hint model.Category, hinted bool) (classified, model.RejectReason, bool) {
	category := hint
	if hinted {
		result := p.classifier.ValidateBrand(hint, rec.Model, rec.Brand, rec.Price)
		if !result.Accepted {
			return classified{}, result.Reason, false
		}
	} else {
		detected, ok := p.classifier.DetectCategory(rec.Model, rec.Price)
		if !ok {
			return classified{}, model.RejectNoMatchingSignal, false
		}
		category = detected
	}

	rule, ok := p.classifier.Catalog().Rule(category)
	if !ok {
		return classified{}, model.RejectUnknownCategory, false
	}

	brand := rec.Brand
	if brand == "" {
		brand = p.classifier.Brands().Extract(rec.Model)
	}

	return classified{
		category: category,
		Component: model.Component{
			Type:      rule.ComponentType(),
			Brand:     brand,
			Model:     rec.Model,
			Price:     rec.Price,
			ImageURL:  rec.ImageURL,
			SourceURL: rec.SourceURL,
			Specs:     rec.Specs,
		},
	}, "", true
}

// collapse keeps one component per key. The last one seen wins and takes
// the position of the first.
func collapse(components []model.Component) ([]model.Component, int) {
	index := make(map[model.ComponentKey]int, len(components))
	out := make([]model.Component, 0, len(components))
	collapsed := 0
	for _, c := range components {
		if i, ok := index[c.Key()]; ok {
			out[i] = c
			collapsed++
			continue
		}
		index[c.Key()] = len(out)
		out = append(out, c)
	}
	return out, collapsed
}

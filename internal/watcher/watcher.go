// Package watcher monitors a feed directory and runs dropped XML/CSV feeds
// through normalization and batch enrichment.
package watcher

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mkarpova/enrichment-service/internal/domain"
	"github.com/mkarpova/enrichment-service/internal/normalize"
)

// settleDelay is how long a feed file must go without write events before it
// is considered fully written. Producers that copy feeds in chunks fire a
// Create followed by a burst of Writes; reading on the first event would see
// a partial file.
const settleDelay = 500 * time.Millisecond

// BatchEnricher is the slice of the service layer the watcher needs.
type BatchEnricher interface {
	EnrichBatch(ctx context.Context, products []domain.Product, cfg domain.EnrichmentConfig) (*domain.BatchResponse, error)
}

type FeedWatcher struct {
	dir     string
	svc     BatchEnricher
	cfg     domain.EnrichmentConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	settle  time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func New(dir string, svc BatchEnricher, cfg domain.EnrichmentConfig, logger *slog.Logger) (*FeedWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedWatcher{
		dir:     dir,
		svc:     svc,
		cfg:     cfg,
		watcher: w,
		logger:  logger,
		settle:  settleDelay,
		pending: map[string]*time.Timer{},
	}, nil
}

// Start watches the directory until ctx is canceled. A feed file is processed
// once its writes have settled, so producers that append in chunks are read
// exactly once and in full. Processing failures are logged and skipped.
func (f *FeedWatcher) Start(ctx context.Context) error {
	if err := f.watcher.Add(f.dir); err != nil {
		return err
	}
	f.logger.Info("watching feed directory", "dir", f.dir)

	go func() {
		for {
			select {
			case <-ctx.Done():
				f.cancelPending()
				return
			case event, ok := <-f.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if !isFeedFile(event.Name) {
					continue
				}
				f.schedule(ctx, event.Name)
			case err, ok := <-f.watcher.Errors:
				if !ok {
					return
				}
				f.logger.Warn("feed watcher error", "error", err)
			}
		}
	}()

	return nil
}

func (f *FeedWatcher) Stop() error {
	f.cancelPending()
	return f.watcher.Close()
}

// schedule (re)arms the settle timer for path. Every Create or Write pushes
// the deadline out, so the file is only read after the producer goes quiet.
func (f *FeedWatcher) schedule(ctx context.Context, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if timer, ok := f.pending[path]; ok {
		timer.Reset(f.settle)
		return
	}
	f.pending[path] = time.AfterFunc(f.settle, func() {
		f.mu.Lock()
		delete(f.pending, path)
		f.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		f.processFile(ctx, path)
	})
}

func (f *FeedWatcher) cancelPending() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for path, timer := range f.pending {
		timer.Stop()
		delete(f.pending, path)
	}
}

func (f *FeedWatcher) processFile(ctx context.Context, path string) {
	file, err := os.Open(path)
	if err != nil {
		f.logger.Warn("cannot open feed file", "path", path, "error", err)
		return
	}
	defer file.Close()

	var parse func(io.Reader) ([]map[string]any, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		parse = normalize.ParseXML
	case ".csv":
		parse = normalize.ParseCSV
	default:
		return
	}

	records, err := parse(file)
	if err != nil {
		f.logger.Warn("cannot parse feed file", "path", path, "error", err)
		return
	}

	products, normalizeErrs := normalize.FromRecords(records)
	for _, nErr := range normalizeErrs {
		f.logger.Warn("skipped feed record", "path", path, "error", nErr)
	}
	if len(products) == 0 {
		f.logger.Info("feed file had no usable products", "path", path)
		return
	}

	resp, err := f.svc.EnrichBatch(ctx, products, f.cfg)
	if err != nil {
		f.logger.Error("feed enrichment failed", "path", path, "error", err)
		return
	}
	f.logger.Info("feed file enriched",
		"path", path,
		"products", len(products),
		"succeeded", resp.Summary.SuccessCount,
		"failed", resp.Summary.FailedCount,
	)
}

func isFeedFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".csv":
		return true
	default:
		return false
	}
}

// Package builder orchestrates full and incremental index rebuilds.
//
// A build enumerates candidate files, consults the fingerprint tracker,
// extracts symbols from changed files on a bounded worker pool, and swaps
// the staged results into the store in one atomic merge. At most one build
// runs at a time; a concurrent request is rejected, never interleaved.
package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	ierr "symdex/internal/errors"
	"symdex/internal/fingerprint"
	"symdex/internal/history"
	"symdex/internal/logging"
	"symdex/internal/store"
	"symdex/internal/symbols"
)

const maxDefaultWorkers = 8

// Options configures a Builder.
type Options struct {
	Root         string   // Tree to index
	Extensions   []string // Extension allow-list (with dots); empty means all supported
	Ignores      []string // Directory names and glob patterns to prune
	Workers      int      // Worker pool size; <=0 picks a bounded default
	SnapshotPath string   // Where the snapshot is persisted; empty disables persistence
}

// Stats summarizes one build pass.
type Stats struct {
	BuildID        string        `json:"buildId"`
	StartedAt      time.Time     `json:"startedAt"`
	Duration       time.Duration `json:"duration"`
	Forced         bool          `json:"forced"`
	FilesIndexed   int           `json:"filesIndexed"`   // Files re-extracted this pass
	FilesUnchanged int           `json:"filesUnchanged"` // Fingerprint matched, contribution reused
	FilesSkipped   int           `json:"filesSkipped"`   // Unreadable or unparseable files
	FilesRemoved   int           `json:"filesRemoved"`
	SymbolsFound   int           `json:"symbolsFound"`
	UniqueSymbols  int           `json:"uniqueSymbols"`
	SkippedFiles   []string      `json:"skippedFiles,omitempty"`
}

// Builder coordinates rebuilds against a single store.
type Builder struct {
	opts    Options
	store   *store.Store
	tracker *fingerprint.Tracker
	history *history.Store // optional
	logger  *logging.Logger

	buildMu sync.Mutex // held for the whole duration of one build
}

// New creates a builder over the given store.
func New(opts Options, st *store.Store, hist *history.Store, logger *logging.Logger) *Builder {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
		if opts.Workers > maxDefaultWorkers {
			opts.Workers = maxDefaultWorkers
		}
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = symbols.SupportedExtensions()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Builder{
		opts:    opts,
		store:   st,
		tracker: fingerprint.NewTracker(st),
		history: hist,
		logger:  logger,
	}
}

// Build runs one full or incremental pass. When force is false, files whose
// fingerprint is unchanged keep their existing contribution and are not
// re-extracted. Per-file read and parse failures are absorbed as skips; a
// snapshot-write failure after a successful merge is returned alongside the
// stats, with the in-memory index remaining authoritative.
//
// A second Build while one is in flight fails with BUILD_IN_PROGRESS.
func (b *Builder) Build(ctx context.Context, force bool) (*Stats, error) {
	if !b.buildMu.TryLock() {
		return nil, ierr.New(ierr.BuildInProgress, "another build is already running")
	}
	defer b.buildMu.Unlock()

	stats := &Stats{
		BuildID:   uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Forced:    force,
	}

	b.logger.Info("Starting index build", map[string]interface{}{
		"buildId": stats.BuildID,
		"root":    b.opts.Root,
		"force":   force,
	})

	candidates, err := b.enumerate()
	if err != nil {
		return nil, err
	}

	staged, err := b.extractChanged(ctx, candidates, force, stats)
	if err != nil {
		// Cancelled or failed before the merge: staged contributions are
		// discarded and the previous index is left unchanged.
		return nil, err
	}

	removed := b.missingFiles(candidates)
	stats.FilesRemoved = len(removed)

	stats.Duration = time.Since(stats.StartedAt)
	b.store.ApplyBuild(staged, removed, stats.Duration)

	agg, _ := b.store.Stats()
	stats.UniqueSymbols = agg.UniqueNames

	b.recordHistory(stats, agg)

	var persistErr error
	if b.opts.SnapshotPath != "" {
		if err := b.store.Persist(b.opts.SnapshotPath); err != nil {
			persistErr = err
			b.logger.Warn("Snapshot persistence failed; in-memory index remains authoritative",
				map[string]interface{}{"error": err.Error()})
		}
	}

	b.logger.Info("Index build complete", map[string]interface{}{
		"buildId":        stats.BuildID,
		"filesIndexed":   stats.FilesIndexed,
		"filesUnchanged": stats.FilesUnchanged,
		"filesSkipped":   stats.FilesSkipped,
		"filesRemoved":   stats.FilesRemoved,
		"symbolsFound":   stats.SymbolsFound,
		"duration":       stats.Duration.String(),
	})

	return stats, persistErr
}

// extractChanged runs extraction for every candidate whose content changed,
// fanning out over a bounded worker pool. Extraction is pure and file-local,
// so per-file parallelism needs no extra synchronization beyond collecting
// results.
func (b *Builder) extractChanged(ctx context.Context, candidates []string, force bool, stats *Stats) ([]store.Contribution, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)

	var mu sync.Mutex
	var staged []store.Contribution

	for _, rel := range candidates {
		rel := rel
		g.Go(func() error {
			// Cancellation is cooperative between per-file units.
			if err := gctx.Err(); err != nil {
				return err
			}

			abs := filepath.Join(b.opts.Root, filepath.FromSlash(rel))
			content, err := os.ReadFile(abs)
			if err != nil {
				b.logger.Debug("Skipping unreadable file", map[string]interface{}{
					"path": rel, "error": err.Error(),
				})
				mu.Lock()
				stats.FilesSkipped++
				stats.SkippedFiles = append(stats.SkippedFiles, rel)
				mu.Unlock()
				return nil
			}

			sum, changed := b.tracker.ShouldReindex(rel, content)
			if !force && !changed {
				mu.Lock()
				stats.FilesUnchanged++
				mu.Unlock()
				return nil
			}

			lang, ok := symbols.LanguageForExt(strings.ToLower(filepath.Ext(rel)))
			if !ok {
				return nil // filtered out during enumeration; defensive skip
			}

			syms, err := symbols.NewExtractor().Extract(gctx, rel, content, lang)
			if err != nil {
				// A parse failure is local to this file: record the skip,
				// keep any prior contribution, and continue the build.
				b.logger.Debug("Skipping unparseable file", map[string]interface{}{
					"path": rel, "error": err.Error(),
				})
				mu.Lock()
				stats.FilesSkipped++
				stats.SkippedFiles = append(stats.SkippedFiles, rel)
				mu.Unlock()
				return nil
			}

			mu.Lock()
			staged = append(staged, store.Contribution{
				Record: store.FileRecord{
					Path:          rel,
					Fingerprint:   sum,
					SymbolCount:   len(syms),
					LastIndexedAt: time.Now().UTC(),
				},
				Symbols: syms,
			})
			stats.FilesIndexed++
			stats.SymbolsFound += len(syms)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return staged, nil
}

// missingFiles returns previously indexed paths that are no longer among
// the enumerated candidates.
func (b *Builder) missingFiles(candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		seen[c] = true
	}
	var removed []string
	for _, path := range b.store.Files() {
		if !seen[path] {
			removed = append(removed, path)
		}
	}
	return removed
}

func (b *Builder) recordHistory(stats *Stats, agg store.Stats) {
	if b.history == nil {
		return
	}
	err := b.history.RecordBuild(history.BuildRecord{
		BuildID:       stats.BuildID,
		StartedAt:     stats.StartedAt,
		Duration:      stats.Duration,
		Forced:        stats.Forced,
		FilesIndexed:  stats.FilesIndexed,
		FilesSkipped:  stats.FilesSkipped,
		FilesRemoved:  stats.FilesRemoved,
		SymbolsFound:  stats.SymbolsFound,
		UniqueSymbols: agg.UniqueNames,
	})
	if err != nil {
		b.logger.Warn("Failed to record build history", map[string]interface{}{
			"buildId": stats.BuildID,
			"error":   err.Error(),
		})
	}
}

// String renders build stats for human CLI output.
func (s *Stats) String() string {
	return fmt.Sprintf("indexed %d files (%d unchanged, %d skipped, %d removed), %d symbols (%d unique) in %s",
		s.FilesIndexed, s.FilesUnchanged, s.FilesSkipped, s.FilesRemoved,
		s.SymbolsFound, s.UniqueSymbols, s.Duration.Round(time.Millisecond))
}

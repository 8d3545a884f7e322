package main

import (
	"fmt"
	"path/filepath"

	"symdex/internal/builder"
	"symdex/internal/config"
	ierr "symdex/internal/errors"
	"symdex/internal/history"
	"symdex/internal/logging"
	"symdex/internal/query"
	"symdex/internal/store"
)

// app wires the engine together for one CLI invocation: config, store
// (restored from the snapshot when one exists), builder, and query service.
type app struct {
	root    string
	cfg     *config.Config
	logger  *logging.Logger
	store   *store.Store
	builder *builder.Builder
	query   *query.Service
	history *history.Store
}

func newApp() (*app, error) {
	root, err := filepath.Abs(rootFlag)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})

	st := store.New()
	restored, err := st.RestoreFromFile(cfg.SnapshotPath(root))
	if err != nil {
		if ierr.HasCode(err, ierr.SchemaMismatch) {
			// Incompatible snapshot: never interpreted best-effort. The next
			// build runs from scratch.
			logger.Warn("Snapshot schema mismatch, a full rebuild is required",
				map[string]interface{}{"error": err.Error()})
		} else {
			logger.Warn("Snapshot restore failed", map[string]interface{}{"error": err.Error()})
		}
	} else if restored {
		logger.Debug("Restored index from snapshot", nil)
	}

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(config.DataDir(root), logger)
		if err != nil {
			// History is bookkeeping; the engine works without it.
			logger.Warn("Build history unavailable", map[string]interface{}{"error": err.Error()})
			hist = nil
		}
	}

	b := builder.New(builder.Options{
		Root:         root,
		Extensions:   cfg.Extensions,
		Ignores:      cfg.Ignores,
		Workers:      cfg.Workers,
		SnapshotPath: cfg.SnapshotPath(root),
	}, st, hist, logger)

	return &app{
		root:    root,
		cfg:     cfg,
		logger:  logger,
		store:   st,
		builder: b,
		query:   query.NewService(st),
		history: hist,
	}, nil
}

func (a *app) Close() {
	if a.history != nil {
		_ = a.history.Close()
	}
}

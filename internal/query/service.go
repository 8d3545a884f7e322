// Package query is the read-only interface over the index store.
//
// Queries never block on builds: they complete synchronously against the
// in-memory index, observing either the previously completed state or a
// fully merged build, never a half-merged one.
package query

import (
	"strings"

	ierr "symdex/internal/errors"
	"symdex/internal/store"
	"symdex/internal/symbols"
)

// DefaultLimit bounds search result counts when the caller does not.
const DefaultLimit = 50

// Service answers symbol queries against a store.
type Service struct {
	store *store.Store
}

// NewService creates a query service over st.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// FindByName returns every symbol with the exact name, case-sensitive,
// ordered by (file, line) ascending.
func (s *Service) FindByName(name string) ([]symbols.Symbol, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ierr.New(ierr.InvalidQuery, "symbol name must not be empty")
	}
	return s.store.ByName(name), nil
}

// Search returns symbols whose name contains pattern, case-insensitive,
// optionally filtered by kind, ordered by (file, line). An empty pattern is
// rejected rather than returning the entire index. A limit <= 0 falls back
// to DefaultLimit.
func (s *Service) Search(pattern string, kind symbols.Kind, limit int) ([]symbols.Symbol, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if pattern == "" {
		return nil, ierr.New(ierr.InvalidQuery, "search pattern must not be empty")
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	needle := strings.ToLower(pattern)
	matches := s.store.MatchNames(func(name string) bool {
		return strings.Contains(strings.ToLower(name), needle)
	})

	out := matches[:0]
	for _, sym := range matches {
		if kind != "" && sym.Kind != kind {
			continue
		}
		out = append(out, sym)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ListFile returns one file's symbols in declaration order. An unindexed or
// symbol-free file yields an empty list, not an error.
func (s *Service) ListFile(path string) ([]symbols.Symbol, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.ForFile(path), nil
}

// Stats returns the current aggregate counters.
func (s *Service) Stats() (store.Stats, error) {
	stats, built := s.store.Stats()
	if !built {
		return store.Stats{}, notBuilt()
	}
	return stats, nil
}

func (s *Service) ready() error {
	if !s.store.Built() {
		return notBuilt()
	}
	return nil
}

func notBuilt() error {
	return ierr.New(ierr.NotBuilt, "no successful build has completed and no snapshot was restored")
}

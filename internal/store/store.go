// Package store owns the in-memory symbol index and its persisted snapshot.
//
// The store is the only shared mutable resource in the system. All mutation
// goes through a single write lock; readers observe either the pre-merge or
// the fully merged state, never a partial one. The raw maps are never
// exposed — callers read through the query service.
package store

import (
	"sort"
	"sync"
	"time"

	"symdex/internal/symbols"
)

// FileRecord is the bookkeeping entry for one indexed file. Its fingerprint
// always matches the content that produced the file's symbols; the pair is
// replaced atomically together.
type FileRecord struct {
	Path          string    `json:"path"`
	Fingerprint   string    `json:"fingerprint"`
	SymbolCount   int       `json:"symbolCount"`
	LastIndexedAt time.Time `json:"lastIndexedAt"`
}

// Stats are the aggregate counters over the whole index.
type Stats struct {
	TotalFiles    int           `json:"totalFiles"`
	TotalSymbols  int           `json:"totalSymbols"`
	UniqueNames   int           `json:"uniqueNames"`
	BuildDuration time.Duration `json:"buildDuration"`
	LastUpdated   time.Time     `json:"lastUpdated"`
}

// Contribution is one file's staged indexing result: its record and the
// symbols extracted from the fingerprinted content.
type Contribution struct {
	Record  FileRecord
	Symbols []symbols.Symbol
}

// Store holds the symbol index.
type Store struct {
	mu     sync.RWMutex
	byName map[string][]symbols.Symbol // sorted by (file, line)
	byFile map[string][]symbols.Symbol // declaration order
	files  map[string]FileRecord
	stats  Stats
	built  bool
}

// New creates an empty store.
func New() *Store {
	return &Store{
		byName: make(map[string][]symbols.Symbol),
		byFile: make(map[string][]symbols.Symbol),
		files:  make(map[string]FileRecord),
	}
}

// ApplyBuild swaps a whole build's staged contributions and removals into
// the index in one write section, then recomputes aggregate stats. Queries
// running concurrently see either the previous index or the complete result.
func (s *Store) ApplyBuild(staged []Contribution, removed []string, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, path := range removed {
		s.dropFileLocked(path)
	}
	for _, c := range staged {
		s.dropFileLocked(c.Record.Path)
		s.addFileLocked(c)
	}

	s.recomputeStatsLocked(duration)
	s.built = true
}

// Merge atomically replaces one file's contribution.
func (s *Store) Merge(c Contribution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropFileLocked(c.Record.Path)
	s.addFileLocked(c)
	s.recomputeStatsLocked(s.stats.BuildDuration)
	s.built = true
}

// Remove atomically drops one file's contribution.
func (s *Store) Remove(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropFileLocked(path)
	s.recomputeStatsLocked(s.stats.BuildDuration)
}

func (s *Store) addFileLocked(c Contribution) {
	s.files[c.Record.Path] = c.Record
	s.byFile[c.Record.Path] = c.Symbols
	for _, sym := range c.Symbols {
		bucket := append(s.byName[sym.Name], sym)
		sortByPosition(bucket)
		s.byName[sym.Name] = bucket
	}
}

func (s *Store) dropFileLocked(path string) {
	prior, ok := s.byFile[path]
	if !ok {
		delete(s.files, path)
		return
	}
	for _, sym := range prior {
		bucket := s.byName[sym.Name]
		kept := bucket[:0]
		for _, b := range bucket {
			if b.File != path {
				kept = append(kept, b)
			}
		}
		if len(kept) == 0 {
			delete(s.byName, sym.Name)
		} else {
			s.byName[sym.Name] = kept
		}
	}
	delete(s.byFile, path)
	delete(s.files, path)
}

func (s *Store) recomputeStatsLocked(duration time.Duration) {
	total := 0
	for _, syms := range s.byFile {
		total += len(syms)
	}
	s.stats = Stats{
		TotalFiles:    len(s.files),
		TotalSymbols:  total,
		UniqueNames:   len(s.byName),
		BuildDuration: duration,
		LastUpdated:   time.Now().UTC(),
	}
}

// Fingerprint reports the fingerprint recorded for a path. Implements
// fingerprint.Recorder.
func (s *Store) Fingerprint(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.files[path]
	if !ok {
		return "", false
	}
	return rec.Fingerprint, true
}

// Files returns the paths of every indexed file.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// FileRecordFor returns the bookkeeping record for one file.
func (s *Store) FileRecordFor(path string) (FileRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.files[path]
	return rec, ok
}

// ByName returns all symbols with the exact name, ordered by (file, line).
func (s *Store) ByName(name string) []symbols.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySymbols(s.byName[name])
}

// ForFile returns one file's symbols in declaration order.
func (s *Store) ForFile(path string) []symbols.Symbol {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySymbols(s.byFile[path])
}

// MatchNames returns the symbols of every name accepted by match, ordered by
// (file, line, name). The match function must not block.
func (s *Store) MatchNames(match func(name string) bool) []symbols.Symbol {
	s.mu.RLock()
	var out []symbols.Symbol
	for name, bucket := range s.byName {
		if match(name) {
			out = append(out, bucket...)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Stats returns the aggregate counters and whether the index has ever been
// built or restored.
func (s *Store) Stats() (Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.built
}

// Built reports whether a successful build or restore has completed.
func (s *Store) Built() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.built
}

func copySymbols(src []symbols.Symbol) []symbols.Symbol {
	if len(src) == 0 {
		return nil
	}
	out := make([]symbols.Symbol, len(src))
	copy(out, src)
	return out
}

func sortByPosition(syms []symbols.Symbol) {
	sort.SliceStable(syms, func(i, j int) bool {
		if syms[i].File != syms[j].File {
			return syms[i].File < syms[j].File
		}
		if syms[i].Line != syms[j].Line {
			return syms[i].Line < syms[j].Line
		}
		return syms[i].Column < syms[j].Column
	})
}

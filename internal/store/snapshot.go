package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"

	ierr "symdex/internal/errors"
	"symdex/internal/symbols"
)

// SnapshotVersion is the current snapshot schema version. A restored
// snapshot with any other version triggers a full rebuild; incompatible
// data is never interpreted best-effort.
const SnapshotVersion = 2

// snapshotDoc is the serialized form of the whole index.
type snapshotDoc struct {
	SchemaVersion int                         `json:"schemaVersion"`
	CreatedAt     time.Time                   `json:"createdAt"`
	Stats         Stats                       `json:"stats"`
	Files         []FileRecord                `json:"files"`
	Symbols       map[string][]symbols.Symbol `json:"symbols"` // keyed by file path
}

// Snapshot serializes the current index into a zstd-compressed blob.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	doc := snapshotDoc{
		SchemaVersion: SnapshotVersion,
		CreatedAt:     time.Now().UTC(),
		Stats:         s.stats,
		Files:         make([]FileRecord, 0, len(s.files)),
		Symbols:       make(map[string][]symbols.Symbol, len(s.byFile)),
	}
	for _, rec := range s.files {
		doc.Files = append(doc.Files, rec)
	}
	for path, syms := range s.byFile {
		doc.Symbols[path] = syms
	}
	s.mu.RUnlock()

	sort.Slice(doc.Files, func(i, j int) bool { return doc.Files[i].Path < doc.Files[j].Path })

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, ierr.Wrap(ierr.StorageError, "encoding snapshot", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, ierr.Wrap(ierr.StorageError, "creating snapshot compressor", err)
	}
	defer enc.Close()

	return enc.EncodeAll(raw, nil), nil
}

// Restore replaces the index with the contents of a snapshot blob. A schema
// version mismatch returns SCHEMA_MISMATCH and leaves the store untouched;
// the caller is expected to fall back to a full rebuild.
func (s *Store) Restore(blob []byte) error {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return ierr.Wrap(ierr.StorageError, "creating snapshot decompressor", err)
	}
	defer dec.Close()

	raw, err := dec.DecodeAll(blob, nil)
	if err != nil {
		return ierr.Wrap(ierr.StorageError, "decompressing snapshot", err)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return ierr.Wrap(ierr.StorageError, "decoding snapshot", err)
	}

	if doc.SchemaVersion != SnapshotVersion {
		return ierr.New(ierr.SchemaMismatch,
			fmt.Sprintf("snapshot schema version %d, want %d", doc.SchemaVersion, SnapshotVersion))
	}

	byName := make(map[string][]symbols.Symbol)
	byFile := make(map[string][]symbols.Symbol, len(doc.Symbols))
	files := make(map[string]FileRecord, len(doc.Files))
	for _, rec := range doc.Files {
		files[rec.Path] = rec
	}
	for path, syms := range doc.Symbols {
		byFile[path] = syms
		for _, sym := range syms {
			byName[sym.Name] = append(byName[sym.Name], sym)
		}
	}
	for name := range byName {
		sortByPosition(byName[name])
	}

	s.mu.Lock()
	s.byName = byName
	s.byFile = byFile
	s.files = files
	s.stats = doc.Stats
	s.built = true
	s.mu.Unlock()

	return nil
}

// Persist writes the snapshot to path via a temporary file in the same
// directory followed by a rename, so a reader never observes a partially
// written snapshot after restart.
func (s *Store) Persist(path string) error {
	blob, err := s.Snapshot()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ierr.Wrap(ierr.StorageError, "creating snapshot directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return ierr.Wrap(ierr.StorageError, "creating temporary snapshot", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return ierr.Wrap(ierr.StorageError, "writing snapshot", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return ierr.Wrap(ierr.StorageError, "closing snapshot", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return ierr.Wrap(ierr.StorageError, "replacing snapshot", err)
	}
	return nil
}

// RestoreFromFile loads a persisted snapshot. A missing file is not an
// error; it reports restored=false so the caller builds from scratch.
func (s *Store) RestoreFromFile(path string) (bool, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, ierr.Wrap(ierr.StorageError, "reading snapshot", err)
	}
	if err := s.Restore(blob); err != nil {
		return false, err
	}
	return true, nil
}

package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Version != ConfigVersion {
		t.Errorf("version = %d, want %d", cfg.Version, ConfigVersion)
	}
	for _, ext := range []string{".py", ".go", ".ts"} {
		if !contains(cfg.Extensions, ext) {
			t.Errorf("default extensions missing %s: %v", ext, cfg.Extensions)
		}
	}
	for _, ignore := range []string{".git", DataDirName, "node_modules"} {
		if !contains(cfg.Ignores, ignore) {
			t.Errorf("default ignores missing %s: %v", ignore, cfg.Ignores)
		}
	}
	if !cfg.History.Enabled {
		t.Error("history disabled by default")
	}
	if cfg.Search.Limit != 50 {
		t.Errorf("search limit = %d, want 50", cfg.Search.Limit)
	}
	if cfg.Logging.Format != "human" || cfg.Logging.Level != "info" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if cfg.SnapshotFile != "index.snapshot" {
		t.Errorf("snapshot file = %q", cfg.SnapshotFile)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	root := t.TempDir()

	cfg := Default()
	cfg.Workers = 3
	cfg.Search.Limit = 10
	cfg.Logging.Format = "json"
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Workers != 3 {
		t.Errorf("workers = %d, want 3", loaded.Workers)
	}
	if loaded.Search.Limit != 10 {
		t.Errorf("search limit = %d, want 10", loaded.Search.Limit)
	}
	if loaded.Logging.Format != "json" {
		t.Errorf("logging format = %q, want json", loaded.Logging.Format)
	}
}

func TestProjectOverrides(t *testing.T) {
	root := t.TempDir()
	overrides := `extensions = [".py"]
extra_ignores = ["generated", "*.pb.py"]
`
	if err := os.WriteFile(filepath.Join(root, "symdex.toml"), []byte(overrides), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Extensions) != 1 || cfg.Extensions[0] != ".py" {
		t.Errorf("extensions = %v, want [.py]", cfg.Extensions)
	}
	// extra_ignores extends the defaults instead of replacing them.
	for _, ignore := range []string{".git", "generated", "*.pb.py"} {
		if !contains(cfg.Ignores, ignore) {
			t.Errorf("ignores missing %s: %v", ignore, cfg.Ignores)
		}
	}
}

func TestProjectOverridesReplaceIgnores(t *testing.T) {
	root := t.TempDir()
	overrides := `ignores = ["only_this"]
`
	if err := os.WriteFile(filepath.Join(root, "symdex.toml"), []byte(overrides), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Ignores) != 1 || cfg.Ignores[0] != "only_this" {
		t.Errorf("ignores = %v, want [only_this]", cfg.Ignores)
	}
}

func TestProjectOverridesBadToml(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "symdex.toml"), []byte("extensions = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(root); err == nil {
		t.Error("expected an error for malformed symdex.toml")
	}
}

func TestEnsureSaved(t *testing.T) {
	root := t.TempDir()

	if err := EnsureSaved(root); err != nil {
		t.Fatalf("EnsureSaved failed: %v", err)
	}
	path := filepath.Join(root, DataDirName, configFile)
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	// A second call must not overwrite an edited file.
	edited := Default()
	edited.Workers = 7
	if err := edited.Save(root); err != nil {
		t.Fatal(err)
	}
	if err := EnsureSaved(root); err != nil {
		t.Fatalf("EnsureSaved failed: %v", err)
	}
	loaded, err := Load(root)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Workers != 7 {
		t.Errorf("workers = %d, want 7 (existing config overwritten)", loaded.Workers)
	}
}

func TestEnsureSavedKeepsOverridesOutOfFile(t *testing.T) {
	root := t.TempDir()
	overrides := `extensions = [".py"]
`
	if err := os.WriteFile(filepath.Join(root, "symdex.toml"), []byte(overrides), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := EnsureSaved(root); err != nil {
		t.Fatalf("EnsureSaved failed: %v", err)
	}

	// The stored file carries the defaults, not the per-tree override.
	data, err := os.ReadFile(filepath.Join(root, DataDirName, configFile))
	if err != nil {
		t.Fatal(err)
	}
	var stored Config
	if err := json.Unmarshal(data, &stored); err != nil {
		t.Fatal(err)
	}
	if len(stored.Extensions) == 1 {
		t.Errorf("stored extensions = %v, want the full default list", stored.Extensions)
	}
}

func TestSnapshotPath(t *testing.T) {
	cfg := Default()
	got := cfg.SnapshotPath("/repo")
	want := filepath.Join("/repo", DataDirName, "index.snapshot")
	if got != want {
		t.Errorf("SnapshotPath = %q, want %q", got, want)
	}
}

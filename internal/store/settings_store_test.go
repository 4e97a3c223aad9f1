package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/tack/internal/model"
)

func TestFileSettingsStore_MissingFile(t *testing.T) {
	s := NewSettingsStore(filepath.Join(t.TempDir(), "tack", "config.toml"))

	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL() != model.DefaultServer {
		t.Errorf("expected default server, got %q", cfg.ServerURL())
	}
}

func TestFileSettingsStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tack", "config.toml")
	s := NewSettingsStore(path)

	retries := 4
	if err := s.Save(&model.Settings{
		Server:         "http://10.0.0.2:5260",
		DefaultBoard:   "ops",
		RequestTimeout: "3s",
		Retries:        &retries,
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	cfg, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TackSchema != "settings/1" {
		t.Errorf("schema = %q", cfg.TackSchema)
	}
	if cfg.DefaultBoard != "ops" || cfg.RetryCount() != 4 {
		t.Errorf("unexpected settings: %+v", cfg)
	}
}

func TestFileSettingsStore_RejectsUnknownSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("tack_schema = \"settings/7\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSettingsStore(path).Load(); err == nil {
		t.Fatal("expected error for future schema")
	}
}

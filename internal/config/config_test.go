package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mise/internal/db"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir, filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Backend != BackendSQLite || cfg.Store.Path != filepath.Join(dir, "mise.db") {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Shopping.Layout != db.LayoutLists || cfg.Shopping.DefaultList != "Groceries" {
		t.Errorf("shopping = %+v", cfg.Shopping)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	writeFile(t, file, `
profile: kitchen
store:
  backend: memory
  timeout: 3s
shopping:
  layout: flat
  default_list: Weekly
database:
  host: db.internal
`)

	t.Setenv("MISE_PROFILE", "family")
	t.Setenv("DB_HOST", "")

	cfg, err := Load(dir, file)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Profile != "family" {
		t.Errorf("env should override file, profile = %q", cfg.Profile)
	}
	if cfg.Store.Backend != BackendMemory || cfg.Store.Timeout != 3*time.Second {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Shopping.Layout != db.LayoutFlat || cfg.Shopping.DefaultList != "Weekly" {
		t.Errorf("shopping = %+v", cfg.Shopping)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("empty env var should not override file, host = %q", cfg.Database.Host)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "REDIS_ADDR=localhost:6379\nMISE_DEFAULT_LIST=\"Market\"\n")
	t.Cleanup(func() {
		os.Unsetenv("REDIS_ADDR")
		os.Unsetenv("MISE_DEFAULT_LIST")
	})

	cfg, err := Load(dir, "", envFile, filepath.Join(dir, ".env.local"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Shopping.DefaultList != "Market" {
		t.Errorf("redis = %+v, shopping = %+v", cfg.Redis, cfg.Shopping)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	t.Run("backend", func(t *testing.T) {
		t.Setenv("MISE_STORE", "mongo")
		if _, err := Load(dir, ""); err == nil {
			t.Error("expected error for unknown backend")
		}
	})
	t.Run("layout", func(t *testing.T) {
		t.Setenv("MISE_SHOPPING_LAYOUT", "nested")
		if _, err := Load(dir, ""); err == nil {
			t.Error("expected error for unknown layout")
		}
	})
	t.Run("yaml", func(t *testing.T) {
		file := filepath.Join(dir, "bad.yaml")
		writeFile(t, file, "store: [")
		if _, err := Load(dir, file); err == nil {
			t.Error("expected error for malformed YAML")
		}
	})
}

func TestOpenStoreSQLite(t *testing.T) {
	cfg := Default(filepath.Join(t.TempDir(), "nested"))
	s, err := cfg.OpenStore()
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer s.Close()
	if _, err := os.Stat(cfg.Store.Path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

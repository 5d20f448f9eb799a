package config

import (
	"os"
	"path/filepath"
	"testing"
)

func chdirTemp(t *testing.T, dotenv string) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	d := t.TempDir()
	if dotenv != "" {
		if err := os.WriteFile(filepath.Join(d, ".env"), []byte(dotenv), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Chdir(d); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t, "")
	for _, k := range []string{"MOCKGEN_FIXTURES_DB", "MOCKGEN_LOG_LEVEL", "MOCKGEN_ELEMENT_COUNT"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	if *cfg != *want {
		t.Fatalf("expected defaults %#v, got %#v", want, cfg)
	}
}

func TestLoad_ReadsDotEnvForFixturesDB(t *testing.T) {
	chdirTemp(t, "MOCKGEN_FIXTURES_DB=postgres://u:p@localhost:5432/mockgen?sslmode=disable\nMOCKGEN_LOG_LEVEL=debug\nMOCKGEN_ELEMENT_COUNT=7\nOTHER=1\n")
	for _, k := range []string{"MOCKGEN_FIXTURES_DB", "MOCKGEN_LOG_LEVEL", "MOCKGEN_ELEMENT_COUNT"} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FixturesDB != "postgres://u:p@localhost:5432/mockgen?sslmode=disable" {
		t.Fatalf("expected MOCKGEN_FIXTURES_DB from .env, got %q", cfg.FixturesDB)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("expected MOCKGEN_LOG_LEVEL from .env, got %q", cfg.LogLevel)
	}
	if cfg.ElementCount != 7 {
		t.Fatalf("expected MOCKGEN_ELEMENT_COUNT from .env, got %d", cfg.ElementCount)
	}
}

func TestLoad_EnvironmentOverridesDotEnv(t *testing.T) {
	chdirTemp(t, "MOCKGEN_LOG_LEVEL=debug\n")
	t.Setenv("MOCKGEN_LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("expected environment to win, got %q", cfg.LogLevel)
	}
}

func TestLoad_RejectsNegativeElementCount(t *testing.T) {
	chdirTemp(t, "")
	t.Setenv("MOCKGEN_ELEMENT_COUNT", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative element_count")
	}
}

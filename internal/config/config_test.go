package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingGivesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8000/api" || cfg.WeeklyGoalHours != 40 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weekhours", "config.yaml")
	in := Config{BaseURL: "https://hours.example.com/api", WeeklyGoalHours: 20, Output: OutputConfig{JSONDefault: true}}
	if err := Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if out != in {
		t.Fatalf("config mismatch: %+v vs %+v", out, in)
	}
}

func TestLoadFileFillsBlankFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("weekly_goal_hours: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.WeeklyGoalHours != 40 || cfg.BaseURL == "" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadFileRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("base_url: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestResolveDatabasePath(t *testing.T) {
	if got := ResolveDatabasePath(Config{}, "/cfg/weekhours/config.yaml"); got != "/cfg/weekhours/weekhours.db" {
		t.Fatalf("default db path = %q", got)
	}
	if got := ResolveDatabasePath(Config{DatabasePath: "/tmp/x.db"}, "/cfg/config.yaml"); got != "/tmp/x.db" {
		t.Fatalf("configured db path = %q", got)
	}
}

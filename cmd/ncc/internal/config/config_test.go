package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ViewsDir != filepath.Join("src", "views") {
		t.Errorf("ViewsDir = %q", cfg.ViewsDir)
	}
	if cfg.Output.Package != "app" {
		t.Errorf("Package = %q", cfg.Output.Package)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	data := `{"viewsDir": "views", "output": {"package": "web"}, "site": {"preconnect": ["https://cdn.example.com"]}}`
	if err := os.WriteFile(filepath.Join(dir, JSONFile), []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ViewsDir != "views" {
		t.Errorf("ViewsDir = %q, want views", cfg.ViewsDir)
	}
	if cfg.Output.Package != "web" {
		t.Errorf("Package = %q, want web", cfg.Output.Package)
	}
	if cfg.Output.StaticDir != "static" {
		t.Errorf("StaticDir default not applied: %q", cfg.Output.StaticDir)
	}
	if len(cfg.Site.Preconnect) != 1 {
		t.Errorf("Preconnect = %v", cfg.Site.Preconnect)
	}
	if cfg.Build.Workers <= 0 {
		t.Errorf("Workers = %d", cfg.Build.Workers)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	data := "viewsDir: pages\nbuild:\n  workers: 2\n  bundle: false\nwatch:\n  debounceMs: 250\n"
	if err := os.WriteFile(filepath.Join(dir, YAMLFile), []byte(data), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.ViewsDir != "pages" || cfg.Build.Workers != 2 || cfg.Build.Bundle {
		t.Errorf("unexpected config: %+v %+v", cfg, cfg.Build)
	}
	if cfg.Watch.DebounceMS != 250 || cfg.Watch.ReloadAddr == "" {
		t.Errorf("unexpected watch config: %+v", cfg.Watch)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, JSONFile), []byte("{"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Load() expected error for invalid JSON")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Output.Package = "site"
	if err := Save(cfg, dir); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if loaded.Output.Package != "site" {
		t.Errorf("Package = %q, want site", loaded.Output.Package)
	}
}

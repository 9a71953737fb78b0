package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `docs_dirs: [docs]
test_dirs: [tests, integration]
ignore: [DH003]
output: report.html
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	want := &Config{
		DocsDirs: []string{"docs"},
		TestDirs: []string{"tests", "integration"},
		Ignore:   []string{"DH003"},
		Output:   "report.html",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("docs_dirs: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadDefault(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadDefault(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg != nil {
		t.Errorf("expected nil config for missing file, got %+v", cfg)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("docs_dirs: [docs]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadDefault(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg == nil || len(cfg.DocsDirs) != 1 || cfg.DocsDirs[0] != "docs" {
		t.Errorf("got %+v", cfg)
	}
}

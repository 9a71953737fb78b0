package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/felixgeelhaar/reqtrace/pkg/domain/model"
)

func TestIsTestModule(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"test_app.py", true},
		{"app_test.go", true},
		{"test_.py", true},
		{"app.py", false},
		{"testing.py", false},
		{"contest_app.py", false},
		{"my_test.py", true},
	}
	for _, tt := range tests {
		if got := IsTestModule(tt.name); got != tt.want {
			t.Errorf("IsTestModule(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// fakeScanner records which files it was asked to scan and returns one test
// per file.
type fakeScanner struct {
	scanned *[]string
}

func (f *fakeScanner) ScanFile(ctx context.Context, path string) ([]model.Test, error) {
	*f.scanned = append(*f.scanned, filepath.Base(path))
	return []model.Test{{
		ID:        "test_from_" + filepath.Base(path),
		Verifies:  []string{"REQ-1"},
		Automated: true,
		FilePath:  path,
	}}, nil
}

func newFakeRegistry(scanned *[]string) *Registry {
	r := NewRegistry()
	r.Register("fake", []string{".py"}, func(logger *slog.Logger) FileScanner {
		return &fakeScanner{scanned: scanned}
	})
	return r
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("pass\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDiscoverSelectsTestModules(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"test_app.py",
		"app.py",
		"util_test.py",
		"notes.txt",
		filepath.Join("sub", "test_sub.py"),
		filepath.Join(".hidden", "test_hidden.py"),
	)

	var scanned []string
	d := NewDiscovererWithRegistry(nil, newFakeRegistry(&scanned))
	tests, err := d.Discover(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}

	// WalkDir visits entries in lexical order, directories included.
	want := []string{"test_sub.py", "test_app.py", "util_test.py"}
	if !reflect.DeepEqual(scanned, want) {
		t.Errorf("scanned %v, want %v", scanned, want)
	}
	if len(tests) != 3 {
		t.Errorf("got %d tests, want 3", len(tests))
	}
}

func TestDiscoverSkipsUnregisteredExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "test_app.rb")

	var scanned []string
	d := NewDiscovererWithRegistry(nil, newFakeRegistry(&scanned))
	tests, err := d.Discover(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(tests) != 0 || len(scanned) != 0 {
		t.Errorf("expected nothing scanned, got %v", scanned)
	}
}

func TestDiscoverDuplicateRoots(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "test_app.py")

	var scanned []string
	d := NewDiscovererWithRegistry(nil, newFakeRegistry(&scanned))
	tests, err := d.Discover(context.Background(), []string{dir, dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(tests) != 1 {
		t.Errorf("got %d tests, want 1", len(tests))
	}
}

func TestRegistryFirstRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register("first", []string{".py"}, func(logger *slog.Logger) FileScanner {
		return &fakeScanner{scanned: &[]string{}}
	})
	r.Register("second", []string{".py"}, func(logger *slog.Logger) FileScanner {
		t.Error("second factory used for contested extension")
		return nil
	})

	if _, ok := r.ForExtension(".py", nil); !ok {
		t.Fatal("extension not registered")
	}
	if !r.Supports(".py") {
		t.Error("Supports(.py) = false")
	}
	if r.Supports(".rb") {
		t.Error("Supports(.rb) = true")
	}
}

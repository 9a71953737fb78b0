package watch

import (
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/scanner"
)

func TestSourceFilterRelevant(t *testing.T) {
	registry := scanner.NewRegistry()
	registry.Register("python", []string{".py"}, func(logger *slog.Logger) scanner.FileScanner {
		return nil
	})
	filter := NewSourceFilter(registry)

	tests := []struct {
		path string
		want bool
	}{
		{"docs/requirements.yml", true},
		{"docs/requirements.yaml", true},
		{"docs/tests.yml", true},
		{"docs/tests.yaml", true},
		{"docs/notes.yml", false},
		{"src/test_app.py", true},
		{"src/app_test.py", true},
		{"src/app.py", false},
		{"src/test_app.rb", false},
		{"README.md", false},
	}
	for _, tt := range tests {
		if got := filter.Relevant(tt.path); got != tt.want {
			t.Errorf("Relevant(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

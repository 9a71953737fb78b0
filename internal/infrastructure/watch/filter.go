package watch

import (
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/scanner"
)

// SourceFilter decides which filesystem changes warrant a re-review: the
// review documents themselves and any test module a registered scanner would
// pick up.
type SourceFilter struct {
	registry *scanner.Registry
}

// NewSourceFilter creates a filter backed by the given scanner registry. A nil
// registry falls back to the default registry.
func NewSourceFilter(registry *scanner.Registry) *SourceFilter {
	if registry == nil {
		registry = scanner.DefaultRegistry
	}
	return &SourceFilter{registry: registry}
}

// Relevant reports whether a change to path should trigger a re-review.
func (f *SourceFilter) Relevant(path string) bool {
	name := filepath.Base(path)
	switch name {
	case "requirements.yml", "requirements.yaml", "tests.yml", "tests.yaml":
		return true
	}
	if !scanner.IsTestModule(name) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return f.registry.Supports(ext)
}

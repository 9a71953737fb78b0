// Package scanner discovers automated verification tests in source trees.
// Scanning is purely syntactic: files are parsed, never executed, so none of
// the scanned project's dependencies need to be installed for discovery to
// work. Language support is registered per file extension; scanners for
// individual languages live in subpackages and register themselves via init.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/felixgeelhaar/reqtrace/pkg/domain/model"
)

// NoDescription is the placeholder used when an annotated test carries no
// documentation text.
const NoDescription = "(no description)"

// FileScanner extracts annotated tests from a single source file.
type FileScanner interface {
	ScanFile(ctx context.Context, path string) ([]model.Test, error)
}

// Factory creates a FileScanner.
type Factory func(logger *slog.Logger) FileScanner

// Registry maps file extensions to language scanner factories. The first
// registration wins on extension conflicts.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory // name → factory
	extMap    map[string]string  // extension → name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		extMap:    make(map[string]string),
	}
}

// Register adds a scanner factory for the given extensions (leading dot
// included, e.g. ".py").
func (r *Registry) Register(name string, extensions []string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
	for _, ext := range extensions {
		if _, exists := r.extMap[ext]; !exists {
			r.extMap[ext] = name
		}
	}
}

// ForExtension creates a scanner for the given extension, or returns false
// when the extension has no registered language.
func (r *Registry) ForExtension(ext string, logger *slog.Logger) (FileScanner, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.extMap[ext]
	if !ok {
		return nil, false
	}
	return r.factories[name](logger), true
}

// Supports reports whether the extension has a registered language.
func (r *Registry) Supports(ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.extMap[ext]
	return ok
}

// DefaultRegistry is the global scanner registry. Language scanners register
// themselves in their init functions.
var DefaultRegistry = NewRegistry()

// ScanError wraps a scan failure with the offending file path. Syntax errors
// in a test module are fatal for the whole discovery, mirroring document
// loading.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Discoverer walks test roots and extracts annotated tests from every file
// that qualifies as a test module.
type Discoverer struct {
	logger   *slog.Logger
	registry *Registry
	scanners map[string]FileScanner // lazily created per extension
}

// NewDiscoverer creates a Discoverer backed by the default registry. A nil
// logger disables logging.
func NewDiscoverer(logger *slog.Logger) *Discoverer {
	return NewDiscovererWithRegistry(logger, DefaultRegistry)
}

// NewDiscovererWithRegistry creates a Discoverer with an explicit registry.
func NewDiscovererWithRegistry(logger *slog.Logger, registry *Registry) *Discoverer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Discoverer{
		logger:   logger,
		registry: registry,
		scanners: make(map[string]FileScanner),
	}
}

// Discover walks the given roots (duplicates collapsed) in sorted order and
// returns all annotated tests in discovery order. Hidden files and
// directories are skipped. A file qualifies as a test module when its name
// minus extension starts with "test_" or ends with "_test" and its extension
// has a registered scanner.
func (d *Discoverer) Discover(ctx context.Context, roots []string) ([]model.Test, error) {
	var tests []model.Test
	for _, root := range dedupeSorted(roots) {
		d.logger.Info("looking for automated tests", "root", root)
		err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if strings.HasPrefix(entry.Name(), ".") && path != root {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if entry.IsDir() || !IsTestModule(entry.Name()) {
				return nil
			}

			sc, ok := d.scannerFor(filepath.Ext(entry.Name()))
			if !ok {
				return nil
			}
			d.logger.Debug("found test module", "path", path)
			found, err := sc.ScanFile(ctx, path)
			if err != nil {
				return &ScanError{Path: path, Err: err}
			}
			tests = append(tests, found...)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return tests, nil
}

func (d *Discoverer) scannerFor(ext string) (FileScanner, bool) {
	if sc, ok := d.scanners[ext]; ok {
		return sc, true
	}
	sc, ok := d.registry.ForExtension(ext, d.logger)
	if ok {
		d.scanners[ext] = sc
	}
	return sc, ok
}

// IsTestModule reports whether the file name (minus extension) starts with
// "test_" or ends with "_test".
func IsTestModule(name string) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasPrefix(stem, "test_") || strings.HasSuffix(stem, "_test")
}

func dedupeSorted(roots []string) []string {
	seen := make(map[string]bool, len(roots))
	var out []string
	for _, r := range roots {
		clean := filepath.Clean(r)
		if !seen[clean] {
			seen[clean] = true
			out = append(out, clean)
		}
	}
	sort.Strings(out)
	return out
}

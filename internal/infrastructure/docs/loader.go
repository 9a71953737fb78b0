// Package docs discovers and parses the declarative YAML documents reqtrace
// reviews: requirements specifications and manual test protocols. Parse and
// validation failures are fatal for the whole load; they identify the
// offending file and are never converted into reportable problems.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/reqtrace/pkg/domain/model"
)

// Loader loads requirements and manual test documents from a set of root
// directories. It holds no cache; every Load re-reads and re-parses all
// sources.
type Loader struct {
	logger      *slog.Logger
	retryConfig retry.Config
}

// NewLoader creates a Loader. A nil logger disables logging.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		logger: logger,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Load discovers and parses all documents under the given roots. Exactly one
// requirements document must exist across all roots combined; at most one
// manual tests document may exist. The returned TestsDoc is nil when no
// manual protocol was found.
func (l *Loader) Load(ctx context.Context, roots []string) (*model.RequirementsDoc, *model.TestsDoc, error) {
	reqPaths, testPaths, err := findDocuments(roots)
	if err != nil {
		return nil, nil, err
	}
	l.logger.Debug("document discovery finished",
		"requirement_docs", len(reqPaths), "test_docs", len(testPaths))

	switch {
	case len(reqPaths) == 0:
		return nil, nil, ErrNoRequirements
	case len(reqPaths) > 1:
		return nil, nil, &AmbiguousDocumentError{Kind: "requirements", Paths: reqPaths}
	}
	if len(testPaths) > 1 {
		return nil, nil, &AmbiguousDocumentError{Kind: "tests", Paths: testPaths}
	}

	reqDoc, err := l.loadRequirements(ctx, reqPaths[0])
	if err != nil {
		return nil, nil, err
	}

	var testsDoc *model.TestsDoc
	if len(testPaths) == 1 {
		testsDoc, err = l.loadTests(ctx, testPaths[0])
		if err != nil {
			return nil, nil, err
		}
	}
	return reqDoc, testsDoc, nil
}

func (l *Loader) loadRequirements(ctx context.Context, path string) (*model.RequirementsDoc, error) {
	root, err := l.parseFile(ctx, path, requirementsSchemaLoader)
	if err != nil {
		return nil, err
	}

	doc, err := decodeRequirements(root)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	doc.FilePath = path

	if err := doc.Validate(); err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	l.logger.Info("loaded requirements document",
		"path", path, "requirements", len(doc.Requirements()))
	return doc, nil
}

func (l *Loader) loadTests(ctx context.Context, path string) (*model.TestsDoc, error) {
	root, err := l.parseFile(ctx, path, testsSchemaLoader)
	if err != nil {
		return nil, err
	}

	var doc model.TestsDoc
	if err := root.Decode(&doc); err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	doc.FilePath = path
	for i := range doc.Tests {
		doc.Tests[i].Automated = false
		doc.Tests[i].FilePath = path
	}

	if err := doc.Validate(); err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	l.logger.Info("loaded manual test protocol", "path", path, "tests", len(doc.Tests))
	return &doc, nil
}

// parseFile reads and parses one YAML document and validates its structure
// against the given schema. The returned node is the document's root content.
func (l *Loader) parseFile(ctx context.Context, path string, schema schemaLoader) (*yaml.Node, error) {
	data, err := l.readFile(ctx, path)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("parse YAML: %w", err)}
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("empty document")}
	}
	root := node.Content[0]

	var tree any
	if err := root.Decode(&tree); err != nil {
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("parse YAML: %w", err)}
	}
	if err := validateSchema(schema, tree); err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	return root, nil
}

// readFile reads with a short retry to ride out transient filesystem races,
// such as an editor replacing the file mid-read during watch mode.
func (l *Loader) readFile(ctx context.Context, path string) ([]byte, error) {
	retryer := retry.New[[]byte](l.retryConfig)
	return retryer.Do(ctx, func(ctx context.Context) ([]byte, error) {
		return os.ReadFile(path)
	})
}

// decodeRequirements resolves the flat-list / sectioned union once, at load
// time. Everything downstream only sees the sectioned form.
func decodeRequirements(root *yaml.Node) (*model.RequirementsDoc, error) {
	if root.Kind == yaml.SequenceNode {
		var items []model.Requirement
		if err := root.Decode(&items); err != nil {
			return nil, err
		}
		return &model.RequirementsDoc{
			DocumentInfo: model.DocumentInfo{Title: model.DefaultSectionTitle},
			Sections:     []model.Section{{Title: model.DefaultSectionTitle, Items: items}},
		}, nil
	}

	var doc struct {
		model.DocumentInfo `yaml:",inline"`
		Body               []model.Section `yaml:"body"`
	}
	if err := root.Decode(&doc); err != nil {
		return nil, err
	}
	return &model.RequirementsDoc{DocumentInfo: doc.DocumentInfo, Sections: doc.Body}, nil
}

// Package python extracts annotated verification tests from Python test
// modules using tree-sitter. Parsing is syntactic only: the module is never
// imported, so the scanned project's dependencies are irrelevant to
// discovery.
package python

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/scanner"
	"github.com/felixgeelhaar/reqtrace/pkg/domain/model"
)

// verifiesMarker is the decorator that declares which requirements a test
// verifies: @verifies("REQ-1", "REQ-2"). Dotted forms such as
// @reqtrace.verifies(...) are accepted too.
const verifiesMarker = "verifies"

func init() {
	scanner.DefaultRegistry.Register("python", []string{".py"},
		func(logger *slog.Logger) scanner.FileScanner {
			return NewScanner(logger)
		})
}

// Scanner extracts tests from Python source files.
type Scanner struct {
	parser *sitter.Parser
	logger *slog.Logger
}

// NewScanner creates a Python scanner.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return &Scanner{parser: p, logger: logger}
}

// ScanFile parses one Python module and returns its annotated tests:
// free functions named test* carrying at least one @verifies decorator, and
// test* methods of Test* classes that define no custom constructor. Functions
// without the marker are ordinary helpers and are ignored.
func (s *Scanner) ScanFile(ctx context.Context, path string) ([]model.Test, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	tree, err := s.parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("syntax error in module")
	}

	var tests []model.Test
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		switch child.Type() {
		case "decorated_definition":
			def := findDefinition(child)
			if def == nil {
				continue
			}
			switch def.Type() {
			case "function_definition":
				if t, ok := s.extractTest(child, def, content, path, ""); ok {
					tests = append(tests, t)
				}
			case "class_definition":
				tests = append(tests, s.extractClassTests(def, content, path)...)
			}
		case "class_definition":
			tests = append(tests, s.extractClassTests(child, content, path)...)
		}
	}
	s.logger.Debug("scanned python module", "path", path, "tests", len(tests))
	return tests, nil
}

// extractTest builds a Test from a decorated function definition. The
// decorated wrapper may be nil for plain functions, which then never qualify
// since only decorators carry the marker.
func (s *Scanner) extractTest(decorated, def *sitter.Node, content []byte, path, class string) (model.Test, bool) {
	name := nodeText(def.ChildByFieldName("name"), content)
	if !strings.HasPrefix(name, "test") {
		return model.Test{}, false
	}

	verifies := extractVerifies(decorated, content)
	if len(verifies) == 0 {
		return model.Test{}, false
	}

	id := name
	if class != "" {
		id = class + "." + name
	}
	description := docstring(def, content)
	if description == "" {
		description = scanner.NoDescription
	}
	return model.Test{
		ID:          id,
		Description: description,
		Verifies:    verifies,
		Automated:   true,
		FilePath:    path,
	}, true
}

// extractClassTests collects test methods from a Test* class. Classes with a
// custom constructor are skipped entirely, mirroring the convention that such
// classes are not auto-discoverable fixtures.
func (s *Scanner) extractClassTests(class *sitter.Node, content []byte, path string) []model.Test {
	name := nodeText(class.ChildByFieldName("name"), content)
	if !strings.HasPrefix(name, "Test") {
		return nil
	}
	body := class.ChildByFieldName("body")
	if body == nil || hasConstructor(body, content) {
		return nil
	}

	var tests []model.Test
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		if child.Type() != "decorated_definition" {
			continue
		}
		def := findDefinition(child)
		if def == nil || def.Type() != "function_definition" {
			continue
		}
		if t, ok := s.extractTest(child, def, content, path, name); ok {
			tests = append(tests, t)
		}
	}
	return tests
}

// extractVerifies collects requirement ids from stacked @verifies decorators.
// Decorators apply innermost (bottom) first, so ids accumulate bottom-up;
// repeated application appends rather than overwrites.
func extractVerifies(decorated *sitter.Node, content []byte) []string {
	if decorated == nil {
		return nil
	}
	var decorators []*sitter.Node
	for i := 0; i < int(decorated.NamedChildCount()); i++ {
		child := decorated.NamedChild(i)
		if child.Type() == "decorator" {
			decorators = append(decorators, child)
		}
	}

	var ids []string
	for i := len(decorators) - 1; i >= 0; i-- {
		ids = append(ids, decoratorArgs(decorators[i], content)...)
	}
	return ids
}

// decoratorArgs returns the string arguments of a @verifies(...) call, or nil
// for any other decorator.
func decoratorArgs(decorator *sitter.Node, content []byte) []string {
	if decorator.NamedChildCount() == 0 {
		return nil
	}
	call := decorator.NamedChild(0)
	if call.Type() != "call" {
		return nil
	}
	fn := nodeText(call.ChildByFieldName("function"), content)
	if fn != verifiesMarker && !strings.HasSuffix(fn, "."+verifiesMarker) {
		return nil
	}

	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	var ids []string
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() == "string" {
			ids = append(ids, stringContent(arg, content))
		}
	}
	return ids
}

func hasConstructor(body *sitter.Node, content []byte) bool {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		def := child
		if child.Type() == "decorated_definition" {
			def = findDefinition(child)
		}
		if def != nil && def.Type() == "function_definition" {
			if nodeText(def.ChildByFieldName("name"), content) == "__init__" {
				return true
			}
		}
	}
	return false
}

// findDefinition finds the class or function node inside a
// decorated_definition.
func findDefinition(node *sitter.Node) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "class_definition", "function_definition":
			return child
		}
	}
	return nil
}

// docstring returns the leading string literal of a function body, if any.
func docstring(def *sitter.Node, content []byte) string {
	body := def.ChildByFieldName("body")
	if body == nil || body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() == "expression_statement" && first.NamedChildCount() > 0 {
		expr := first.NamedChild(0)
		if expr.Type() == "string" {
			return stringContent(expr, content)
		}
	}
	return ""
}

// stringContent strips the quotes off a string literal.
func stringContent(node *sitter.Node, content []byte) string {
	raw := nodeText(node, content)
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if strings.HasPrefix(raw, q) && strings.HasSuffix(raw, q) && len(raw) >= 2*len(q) {
			return strings.TrimSpace(raw[len(q) : len(raw)-len(q)])
		}
	}
	return strings.TrimSpace(raw)
}

func nodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	return string(content[node.StartByte():node.EndByte()])
}

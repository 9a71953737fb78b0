// Package golang extracts annotated verification tests from Go test files
// using the standard parser. Only syntax is consulted; the scanned module's
// dependencies are never resolved.
package golang

import (
	"context"
	"fmt"
	goast "go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/scanner"
	"github.com/felixgeelhaar/reqtrace/pkg/domain/model"
)

// verifiesDirective marks a test as verifying requirements:
//
//	//reqtrace:verifies REQ-1 REQ-2
//
// The directive may appear multiple times in one doc comment; occurrences
// append in source order.
const verifiesDirective = "reqtrace:verifies"

func init() {
	scanner.DefaultRegistry.Register("go", []string{".go"},
		func(logger *slog.Logger) scanner.FileScanner {
			return NewScanner(logger)
		})
}

// Scanner extracts tests from Go source files.
type Scanner struct {
	logger *slog.Logger
}

// NewScanner creates a Go scanner.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Scanner{logger: logger}
}

// ScanFile parses one Go file and returns its annotated tests: functions
// named Test* (or test*) whose doc comment carries at least one verifies
// directive. Methods qualify when their receiver type name starts with Test
// and the file declares no New<Type> constructor for it.
func (s *Scanner) ScanFile(ctx context.Context, path string) ([]model.Test, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}

	constructed := constructedTypes(file)

	var tests []model.Test
	for _, decl := range file.Decls {
		fn, ok := decl.(*goast.FuncDecl)
		if !ok || !isTestName(fn.Name.Name) {
			continue
		}

		recv := receiverTypeName(fn)
		if fn.Recv != nil {
			if !strings.HasPrefix(recv, "Test") || constructed[recv] {
				continue
			}
		}

		verifies := directiveIDs(fn.Doc)
		if len(verifies) == 0 {
			continue
		}

		id := fn.Name.Name
		if recv != "" {
			id = recv + "." + fn.Name.Name
		}
		description := directiveFreeDoc(fn.Doc)
		if description == "" {
			description = scanner.NoDescription
		}
		tests = append(tests, model.Test{
			ID:          id,
			Description: description,
			Verifies:    verifies,
			Automated:   true,
			FilePath:    path,
		})
	}
	s.logger.Debug("scanned go file", "path", path, "tests", len(tests))
	return tests, nil
}

func isTestName(name string) bool {
	return strings.HasPrefix(name, "Test") || strings.HasPrefix(name, "test")
}

// receiverTypeName returns the name of the receiver's base type, or "".
func receiverTypeName(fn *goast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	expr := fn.Recv.List[0].Type
	if star, ok := expr.(*goast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*goast.Ident); ok {
		return ident.Name
	}
	return ""
}

// constructedTypes collects type names for which the file declares an
// explicit New<Type> constructor. Suites with custom constructors are not
// auto-discoverable.
func constructedTypes(file *goast.File) map[string]bool {
	out := make(map[string]bool)
	for _, decl := range file.Decls {
		fn, ok := decl.(*goast.FuncDecl)
		if !ok || fn.Recv != nil {
			continue
		}
		if name, found := strings.CutPrefix(fn.Name.Name, "New"); found && name != "" {
			out[name] = true
		}
	}
	return out
}

// directiveIDs accumulates requirement ids from every verifies directive in a
// doc comment, in source order.
func directiveIDs(doc *goast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	var ids []string
	for _, comment := range doc.List {
		line := strings.TrimPrefix(comment.Text, "//")
		line = strings.TrimSpace(line)
		if rest, found := strings.CutPrefix(line, verifiesDirective); found {
			ids = append(ids, strings.Fields(rest)...)
		}
	}
	return ids
}

// directiveFreeDoc returns the doc comment text with directive lines removed.
func directiveFreeDoc(doc *goast.CommentGroup) string {
	if doc == nil {
		return ""
	}
	var lines []string
	for _, comment := range doc.List {
		line := strings.TrimPrefix(comment.Text, "//")
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, verifiesDirective) {
			continue
		}
		lines = append(lines, trimmed)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

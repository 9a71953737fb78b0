package docs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRequirements is returned when no requirements document exists under
// any of the searched roots. Review cannot proceed without an authoritative
// source, so this is fatal rather than a reportable problem.
var ErrNoRequirements = errors.New("no requirements document found")

// AmbiguousDocumentError is returned when more than one document of a kind
// that must be unique was found.
type AmbiguousDocumentError struct {
	Kind  string // "requirements" or "tests"
	Paths []string
}

func (e *AmbiguousDocumentError) Error() string {
	return fmt.Sprintf("multiple %s documents found: %s", e.Kind, strings.Join(e.Paths, ", "))
}

// DocumentError wraps a parse or validation failure with the offending file
// path. It aborts the entire load.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

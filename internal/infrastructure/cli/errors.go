package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/docs"
	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/scanner"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var ambErr *docs.AmbiguousDocumentError
	if errors.As(err, &ambErr) {
		return NewCLIError(
			ambErr.Error(),
			fmt.Sprintf("Keep exactly one %s document; found: %s", ambErr.Kind, strings.Join(ambErr.Paths, ", ")),
			err,
		)
	}

	var docErr *docs.DocumentError
	if errors.As(err, &docErr) {
		return NewCLIError(
			fmt.Sprintf("failed to load %s", docErr.Path),
			"Fix the document and re-run the review",
			err,
		)
	}

	var scanErr *scanner.ScanError
	if errors.As(err, &scanErr) {
		return NewCLIError(
			fmt.Sprintf("failed to scan %s", scanErr.Path),
			"Fix the test module so it parses, then re-run",
			err,
		)
	}

	if errors.Is(err, docs.ErrNoRequirements) {
		return NewCLIError(
			"no requirements document found",
			"Add a requirements.yml under a docs directory, or pass --docs-dir",
			err,
		)
	}

	return err
}

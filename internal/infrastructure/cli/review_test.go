package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/felixgeelhaar/reqtrace/internal/infrastructure/scanner/golang"
)

const cliRequirements = `- id: REQ-1
  specification: The app shall start fast
  rationale: Slow tools lose users
- id: REQ-2
  specification: The app shall persist settings
  rationale: Re-entering settings is error-prone
`

const cliGoTests = `package app

import "testing"

//reqtrace:verifies REQ-1
func TestStartup(t *testing.T) {}
`

func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(name, content string) {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join("docs", "requirements.yml"), cliRequirements)
	write(filepath.Join("src", "app_test.go"), cliGoTests)
	return dir
}

// runReview executes the review command with fresh flag state and captures
// its output.
func runReview(t *testing.T, args ...string) (string, error) {
	t.Helper()
	reviewDocsDirs, reviewTestDirs, reviewIgnore = nil, nil, nil
	reviewConfig, reviewWatch = "", false

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(append([]string{"review"}, args...))
	err := RootCmd.Execute()
	return out.String(), err
}

func TestReviewCommandReportsProblems(t *testing.T) {
	dir := setupProject(t)

	out, err := runReview(t,
		"--docs-dir", filepath.Join(dir, "docs"),
		"--test-dir", filepath.Join(dir, "src"),
	)

	// REQ-2 has no tests.
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("got %v, want CLIError", err)
	}
	if cliErr.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", cliErr.ExitCode)
	}
	for _, want := range []string{"REQ-1", "REQ-2", "NO TESTS", "DH001"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestReviewCommandPassesWithIgnore(t *testing.T) {
	dir := setupProject(t)

	out, err := runReview(t,
		"--docs-dir", filepath.Join(dir, "docs"),
		"--test-dir", filepath.Join(dir, "src"),
		"--ignore", "DH001",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "review passed") {
		t.Errorf("output missing pass verdict:\n%s", out)
	}
}

func TestReviewCommandRejectsUnknownIgnoreCode(t *testing.T) {
	dir := setupProject(t)

	_, err := runReview(t,
		"--docs-dir", filepath.Join(dir, "docs"),
		"--test-dir", filepath.Join(dir, "src"),
		"--ignore", "DH042",
	)
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("got %v, want CLIError", err)
	}
	if !strings.Contains(cliErr.Hint, "DH001") {
		t.Errorf("hint = %q", cliErr.Hint)
	}
}

func TestReviewCommandConfigFile(t *testing.T) {
	dir := setupProject(t)
	cfgPath := filepath.Join(dir, ".reqtrace.yaml")
	cfg := "docs_dirs: [" + filepath.Join(dir, "docs") + "]\n" +
		"test_dirs: [" + filepath.Join(dir, "src") + "]\n" +
		"ignore: [DH001]\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runReview(t, "--config", cfgPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReviewCommandMissingRequirementsHint(t *testing.T) {
	dir := t.TempDir()

	_, err := runReview(t, "--docs-dir", dir, "--test-dir", dir)
	var cliErr *CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("got %v, want CLIError", err)
	}
	if !strings.Contains(cliErr.Message, "no requirements document") {
		t.Errorf("message = %q", cliErr.Message)
	}
	if cliErr.Hint == "" {
		t.Error("expected a hint")
	}
}

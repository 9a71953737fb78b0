package application

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/reqtrace/internal/infrastructure/docs"
	"github.com/felixgeelhaar/reqtrace/pkg/domain/review"

	_ "github.com/felixgeelhaar/reqtrace/internal/infrastructure/scanner/golang"
)

const reviewRequirements = `title: Product Requirements
body:
  - title: General
    items:
      - id: REQ-1
        specification: The app shall start fast
        rationale: Slow tools lose users
      - id: REQ-2
        specification: The app shall persist settings
        rationale: Re-entering settings is error-prone
      - id: REQ-3
        specification: Old behavior
        rationale: Historic
        obsolete: true
        obsolete_reason: superseded by REQ-2
`

const reviewManualTests = `title: Manual Test Protocol
tests:
  - id: T1
    description: Settings survive a restart
    verifies: [REQ-2]
    steps:
      - given: the app is running
        when: the user changes a setting and restarts
        then: the setting is preserved
`

const reviewGoTests = `package app

import "testing"

//reqtrace:verifies REQ-1
func TestStartup(t *testing.T) {}

//reqtrace:verifies REQ-3 REQ-9
func TestLegacy(t *testing.T) {}
`

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReviewEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, filepath.Join("docs", "requirements.yml"), reviewRequirements)
	writeFixture(t, dir, filepath.Join("docs", "tests.yml"), reviewManualTests)
	writeFixture(t, dir, filepath.Join("src", "app_test.go"), reviewGoTests)

	service := NewReviewService(nil)
	report, err := service.Review(context.Background(), ReviewOptions{
		DocsDirs: []string{filepath.Join(dir, "docs")},
		TestDirs: []string{filepath.Join(dir, "src")},
	})
	if err != nil {
		t.Fatal(err)
	}

	if report.ID == "" {
		t.Error("report has no id")
	}
	if got := len(report.Requirements.Requirements()); got != 3 {
		t.Errorf("got %d requirements, want 3", got)
	}
	// One manual test plus two annotated Go tests.
	if got := len(report.Tests.AllTests()); got != 3 {
		t.Errorf("got %d tests, want 3", got)
	}

	// Expected: TestLegacy references unknown REQ-9 (DH003) and verifies
	// obsolete REQ-3 (DH006).
	codes := map[review.Code]int{}
	for _, p := range report.Problems {
		codes[p.Code]++
	}
	want := map[review.Code]int{review.DH003: 1, review.DH006: 1}
	for code, n := range want {
		if codes[code] != n {
			t.Errorf("code %s: got %d problems, want %d", code, codes[code], n)
		}
	}
	if len(report.Problems) != 2 {
		t.Errorf("got %d problems, want 2: %v", len(report.Problems), report.Problems)
	}

	// Coverage relation mirrors document order.
	if got := report.Coverage.Entries[0].Requirement.ID; got != "REQ-1" {
		t.Errorf("first entry = %s, want REQ-1", got)
	}
	if tests := report.Coverage.TestsFor("REQ-2"); len(tests) != 1 || tests[0].ID != "T1" {
		t.Errorf("TestsFor(REQ-2) = %v", tests)
	}
}

func TestReviewIgnoreSuppressesCodes(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, filepath.Join("docs", "requirements.yml"), reviewRequirements)
	writeFixture(t, dir, filepath.Join("docs", "tests.yml"), reviewManualTests)
	writeFixture(t, dir, filepath.Join("src", "app_test.go"), reviewGoTests)

	ignore, err := review.ParseIgnoreSet([]string{"DH003", "DH006"})
	if err != nil {
		t.Fatal(err)
	}

	service := NewReviewService(nil)
	report, err := service.Review(context.Background(), ReviewOptions{
		DocsDirs: []string{filepath.Join(dir, "docs")},
		TestDirs: []string{filepath.Join(dir, "src")},
		Ignore:   ignore,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Problems) != 0 {
		t.Errorf("expected no problems, got %v", report.Problems)
	}
}

func TestReviewMissingRequirementsIsFatal(t *testing.T) {
	dir := t.TempDir()
	service := NewReviewService(nil)
	_, err := service.Review(context.Background(), ReviewOptions{
		DocsDirs: []string{dir},
		TestDirs: []string{dir},
	})
	if !errors.Is(err, docs.ErrNoRequirements) {
		t.Fatalf("got %v, want ErrNoRequirements", err)
	}
}

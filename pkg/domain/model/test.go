package model

import "fmt"

// EvidenceType is the kind of evidence recorded to prove a manual test step
// passed. The set is closed; parsing rejects anything else.
type EvidenceType string

const (
	EvidenceScreenshot  EvidenceType = "screenshot"
	EvidenceLog         EvidenceType = "log"
	EvidenceObservation EvidenceType = "observation"
	EvidenceSettings    EvidenceType = "settings"
)

// ParseEvidenceType converts a string into an EvidenceType.
func ParseEvidenceType(s string) (EvidenceType, error) {
	switch EvidenceType(s) {
	case EvidenceScreenshot, EvidenceLog, EvidenceObservation, EvidenceSettings:
		return EvidenceType(s), nil
	}
	return "", fmt.Errorf("unknown evidence type %q", s)
}

// TestStep is one step of a manual test procedure.
type TestStep struct {
	Given    string       `json:"given" yaml:"given"`
	When     string       `json:"when" yaml:"when"`
	Then     string       `json:"then" yaml:"then"`
	Evidence EvidenceType `json:"evidence,omitempty" yaml:"evidence,omitempty"`
}

// Validate checks that the evidence kind, when present, is one of the known
// values.
func (s *TestStep) Validate() error {
	if s.Evidence == "" {
		return nil
	}
	if _, err := ParseEvidenceType(string(s.Evidence)); err != nil {
		return &ValidationError{Entity: "test step", Reason: err.Error()}
	}
	return nil
}

// Test is an automated function or manual procedure asserting conformance to
// one or more requirements. Verifies is ordered; duplicates are permitted and
// harmless.
type Test struct {
	ID          string     `json:"id" yaml:"id"`
	Description string     `json:"description" yaml:"description"`
	Verifies    []string   `json:"verifies" yaml:"verifies"`
	Automated   bool       `json:"automated,omitempty" yaml:"automated,omitempty"`
	Steps       []TestStep `json:"steps,omitempty" yaml:"steps,omitempty"`
	FilePath    string     `json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// Validate checks the field-level invariants. Manual tests must spell out
// their steps; automated tests carry none.
func (t *Test) Validate() error {
	if t.ID == "" {
		return &ValidationError{Entity: "test", Reason: "id is required"}
	}
	if !t.Automated && len(t.Steps) == 0 {
		return &ValidationError{Entity: "test", ID: t.ID, Reason: "steps are required for a manual test"}
	}
	for i := range t.Steps {
		if err := t.Steps[i].Validate(); err != nil {
			return &ValidationError{Entity: "test", ID: t.ID, Reason: err.Error()}
		}
	}
	return nil
}

// FullName returns the test's origin-qualified name for display.
func (t *Test) FullName() string {
	if t.FilePath == "" {
		return t.ID
	}
	return t.FilePath + "::" + t.ID
}

package model

import (
	"strings"
	"testing"
)

func validRequirement() Requirement {
	return Requirement{
		ID:            "REQ-1",
		Specification: "The system shall start",
		Rationale:     "Users expect it to",
	}
}

func TestRequirementValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Requirement)
		wantErr string
	}{
		{"valid", func(r *Requirement) {}, ""},
		{"missing id", func(r *Requirement) { r.ID = "" }, "id is required"},
		{"missing specification", func(r *Requirement) { r.Specification = "" }, "specification is required"},
		{"missing rationale", func(r *Requirement) { r.Rationale = "" }, "rationale is required"},
		{"obsolete without reason", func(r *Requirement) { r.Obsolete = true }, "obsolete_reason"},
		{"obsolete with reason", func(r *Requirement) {
			r.Obsolete = true
			r.ObsoleteReason = "superseded by REQ-2"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequirement()
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTestValidate(t *testing.T) {
	step := TestStep{Given: "app running", When: "user clicks", Then: "dialog opens"}

	tests := []struct {
		name    string
		test    Test
		wantErr string
	}{
		{"manual with steps", Test{ID: "T1", Verifies: []string{"REQ-1"}, Steps: []TestStep{step}}, ""},
		{"automated without steps", Test{ID: "test_start", Verifies: []string{"REQ-1"}, Automated: true}, ""},
		{"missing id", Test{Steps: []TestStep{step}}, "id is required"},
		{"manual without steps", Test{ID: "T1"}, "steps are required"},
		{
			"bad evidence",
			Test{ID: "T1", Steps: []TestStep{{Given: "g", When: "w", Then: "t", Evidence: "video"}}},
			"unknown evidence type",
		},
		{
			"known evidence",
			Test{ID: "T1", Steps: []TestStep{{Given: "g", When: "w", Then: "t", Evidence: EvidenceScreenshot}}},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.test.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseEvidenceType(t *testing.T) {
	for _, valid := range []string{"screenshot", "log", "observation", "settings"} {
		if _, err := ParseEvidenceType(valid); err != nil {
			t.Errorf("ParseEvidenceType(%q) = %v, want nil", valid, err)
		}
	}
	if _, err := ParseEvidenceType("video"); err == nil {
		t.Error("ParseEvidenceType(\"video\") succeeded, want error")
	}
}

func TestTestFullName(t *testing.T) {
	manual := Test{ID: "T1"}
	if got := manual.FullName(); got != "T1" {
		t.Errorf("FullName() = %q, want %q", got, "T1")
	}
	auto := Test{ID: "test_start", FilePath: "tests/test_app.py"}
	if got := auto.FullName(); got != "tests/test_app.py::test_start" {
		t.Errorf("FullName() = %q, want %q", got, "tests/test_app.py::test_start")
	}
}

func TestDocumentFullTitle(t *testing.T) {
	tests := []struct {
		name string
		info DocumentInfo
		want string
	}{
		{"title only", DocumentInfo{Title: "Requirements"}, "Requirements"},
		{"number and revision", DocumentInfo{Title: "Requirements", Number: "DOC-1", Revision: "B"}, "DOC-1B Requirements"},
		{"revision only", DocumentInfo{Title: "Requirements", Revision: "B"}, "B Requirements"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.FullTitle(); got != tt.want {
				t.Errorf("FullTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequirementsDocOrder(t *testing.T) {
	doc := RequirementsDoc{
		DocumentInfo: DocumentInfo{Title: "Reqs"},
		Sections: []Section{
			{Title: "General", Items: []Requirement{
				{ID: "REQ-1", Specification: "s", Rationale: "r"},
				{ID: "REQ-2", Specification: "s", Rationale: "r"},
			}},
			{Title: "UI", Items: []Requirement{
				{ID: "REQ-3", Specification: "s", Rationale: "r"},
			}},
		},
	}

	reqs := doc.Requirements()
	want := []string{"REQ-1", "REQ-2", "REQ-3"}
	if len(reqs) != len(want) {
		t.Fatalf("got %d requirements, want %d", len(reqs), len(want))
	}
	for i, id := range want {
		if reqs[i].ID != id {
			t.Errorf("requirement %d: got %s, want %s", i, reqs[i].ID, id)
		}
	}
}

func TestTestsDocRejectsAutomated(t *testing.T) {
	doc := TestsDoc{
		DocumentInfo: DocumentInfo{Title: "Protocol"},
		Tests: []Test{
			{ID: "T1", Automated: true},
		},
	}
	err := doc.Validate()
	if err == nil || !strings.Contains(err.Error(), "cannot be automated") {
		t.Fatalf("expected automated rejection, got %v", err)
	}
}

func TestTestCollectionOrder(t *testing.T) {
	step := TestStep{Given: "g", When: "w", Then: "t"}
	c := TestCollection{
		ManualDoc: &TestsDoc{
			DocumentInfo: DocumentInfo{Title: "Protocol"},
			Tests:        []Test{{ID: "T1", Steps: []TestStep{step}}, {ID: "T2", Steps: []TestStep{step}}},
		},
		Automated: []Test{{ID: "test_a", Automated: true}, {ID: "test_b", Automated: true}},
	}

	want := []string{"T1", "T2", "test_a", "test_b"}
	all := c.AllTests()
	if len(all) != len(want) {
		t.Fatalf("got %d tests, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("test %d: got %s, want %s", i, all[i].ID, id)
		}
	}
}

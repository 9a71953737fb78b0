package model

// DefaultSectionTitle is the section name used when a requirements source
// supplies a flat list instead of named sections.
const DefaultSectionTitle = "Requirements"

// Section is a named group of requirements inside a requirements document.
type Section struct {
	Title string        `json:"title" yaml:"title"`
	Items []Requirement `json:"items" yaml:"items"`
}

// DocumentInfo carries the title block shared by all document kinds.
type DocumentInfo struct {
	Title    string `json:"title" yaml:"title"`
	Number   string `json:"number,omitempty" yaml:"number,omitempty"`
	Revision string `json:"revision,omitempty" yaml:"revision,omitempty"`
	Author   string `json:"author,omitempty" yaml:"author,omitempty"`
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// FullTitle combines number, revision, and title for display.
func (d *DocumentInfo) FullTitle() string {
	prefix := d.Number + d.Revision
	if prefix != "" {
		return prefix + " " + d.Title
	}
	return d.Title
}

// RequirementsDoc is the authoritative requirements specification. Sources
// that supply a flat requirement list are normalized at load time into a
// single default-titled section, preserving order; the rest of the system
// only ever sees the sectioned form.
type RequirementsDoc struct {
	DocumentInfo `yaml:",inline"`
	Sections     []Section `json:"sections" yaml:"sections"`
}

// Requirements returns all requirements in document order.
func (d *RequirementsDoc) Requirements() []*Requirement {
	var out []*Requirement
	for i := range d.Sections {
		for j := range d.Sections[i].Items {
			out = append(out, &d.Sections[i].Items[j])
		}
	}
	return out
}

// Validate runs entity validation over every requirement in the document.
func (d *RequirementsDoc) Validate() error {
	if d.Title == "" {
		return &ValidationError{Entity: "document", ID: d.FilePath, Reason: "title is required"}
	}
	for _, r := range d.Requirements() {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TestsDoc is a manual test protocol document. Every test it holds is manual.
type TestsDoc struct {
	DocumentInfo `yaml:",inline"`
	Tests        []Test `json:"tests" yaml:"tests"`
}

// Validate runs entity validation over every test in the document.
func (d *TestsDoc) Validate() error {
	if d.Title == "" {
		return &ValidationError{Entity: "document", ID: d.FilePath, Reason: "title is required"}
	}
	for i := range d.Tests {
		if d.Tests[i].Automated {
			return &ValidationError{Entity: "test", ID: d.Tests[i].ID, Reason: "tests in a manual protocol cannot be automated"}
		}
		if err := d.Tests[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TestCollection is the union of automated tests discovered from code and the
// manual tests of at most one protocol document.
type TestCollection struct {
	ManualDoc *TestsDoc `json:"manual_doc,omitempty" yaml:"manual_doc,omitempty"`
	Automated []Test    `json:"automated" yaml:"automated"`
}

// AllTests returns manual tests followed by automated tests, each group in
// discovery order.
func (c *TestCollection) AllTests() []*Test {
	var out []*Test
	if c.ManualDoc != nil {
		for i := range c.ManualDoc.Tests {
			out = append(out, &c.ManualDoc.Tests[i])
		}
	}
	for i := range c.Automated {
		out = append(out, &c.Automated[i])
	}
	return out
}

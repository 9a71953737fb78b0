// Package model defines the entities produced by a review run: requirements,
// tests, and the documents that hold them. Validation is enforced when the
// entities are constructed from parsed input, not deferred to later passes.
package model

import "fmt"

// ValidationError reports an entity that failed construction-time validation.
type ValidationError struct {
	Entity string // "requirement", "test", "test step", "document"
	ID     string // entity identifier, if known
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Entity, e.ID, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, e.Reason)
}

// Requirement is a uniquely identified statement of required behavior.
// Coverage is not stored on the requirement; it is computed externally per
// review run. Requirements are never mutated after construction.
type Requirement struct {
	ID             string `json:"id" yaml:"id"`
	Specification  string `json:"specification" yaml:"specification"`
	Rationale      string `json:"rationale" yaml:"rationale"`
	Parent         string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Obsolete       bool   `json:"obsolete,omitempty" yaml:"obsolete,omitempty"`
	ObsoleteReason string `json:"obsolete_reason,omitempty" yaml:"obsolete_reason,omitempty"`
}

// Validate checks the field-level invariants. The parent reference is
// free-form and deliberately not checked for existence.
func (r *Requirement) Validate() error {
	if r.ID == "" {
		return &ValidationError{Entity: "requirement", Reason: "id is required"}
	}
	if r.Specification == "" {
		return &ValidationError{Entity: "requirement", ID: r.ID, Reason: "specification is required"}
	}
	if r.Rationale == "" {
		return &ValidationError{Entity: "requirement", ID: r.ID, Reason: "rationale is required"}
	}
	if r.Obsolete && r.ObsoleteReason == "" {
		return &ValidationError{Entity: "requirement", ID: r.ID, Reason: "obsolete requirement needs an obsolete_reason"}
	}
	return nil
}

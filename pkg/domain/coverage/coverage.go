// Package coverage computes the derived relation between requirements and the
// tests that verify them. The relation is rebuilt from scratch on every
// review run and never persisted.
package coverage

import (
	"github.com/felixgeelhaar/reqtrace/pkg/domain/model"
)

// Entry associates one requirement with the tests whose Verifies list
// contains its id, in test discovery order.
type Entry struct {
	Requirement *model.Requirement
	Tests       []*model.Test
}

// Relation is the requirement→tests mapping in document order. Every
// requirement of the source document has an entry, duplicates included, even
// when its test list is empty. An ordered list is used instead of a map so
// that duplicate requirement ids keep distinct entries and iteration stays
// deterministic.
type Relation struct {
	Entries []Entry
}

// Map builds the relation for the given document and tests. The join is
// O(R×T), which is fine at documentation scale; the result is identical to an
// indexed join and idempotent on unchanged inputs.
func Map(doc *model.RequirementsDoc, tests []*model.Test) *Relation {
	rel := &Relation{}
	for _, req := range doc.Requirements() {
		entry := Entry{Requirement: req}
		for _, t := range tests {
			if verifies(t, req.ID) {
				entry.Tests = append(entry.Tests, t)
			}
		}
		rel.Entries = append(rel.Entries, entry)
	}
	return rel
}

// TestsFor returns the tests associated with the first requirement carrying
// the given id, or nil if the id is unknown.
func (r *Relation) TestsFor(id string) []*model.Test {
	for i := range r.Entries {
		if r.Entries[i].Requirement.ID == id {
			return r.Entries[i].Tests
		}
	}
	return nil
}

// Covered reports whether the requirement of the given entry has at least one
// associated test.
func (e *Entry) Covered() bool {
	return len(e.Tests) > 0
}

func verifies(t *model.Test, id string) bool {
	for _, v := range t.Verifies {
		if v == id {
			return true
		}
	}
	return false
}

// Package rules contains the closed set of consistency checks behind the
// DH001–DH006 problem codes.
package rules

import (
	"fmt"

	"github.com/felixgeelhaar/reqtrace/pkg/domain/review"
)

// Default returns the full battery in code order. The set is fixed; there is
// no rule plugin mechanism.
func Default() []review.Rule {
	return []review.Rule{
		&UncoveredRequirementRule{},
		&MissingObsoleteReasonRule{},
		&DanglingReferenceRule{},
		&DuplicateRequirementIDRule{},
		&DuplicateTestIDRule{},
		&ObsoleteStillTestedRule{},
	}
}

// UncoveredRequirementRule reports DH001 for every non-obsolete requirement
// with an empty test list.
type UncoveredRequirementRule struct{}

func (r *UncoveredRequirementRule) ID() string { return "uncovered-requirement" }

func (r *UncoveredRequirementRule) Check(in review.Input) []review.Problem {
	var problems []review.Problem
	for _, entry := range in.Coverage.Entries {
		if !entry.Covered() && !entry.Requirement.Obsolete {
			problems = append(problems, review.Problem{
				Code:        review.DH001,
				Description: fmt.Sprintf("%s has no tests", entry.Requirement.ID),
			})
		}
	}
	return problems
}

// MissingObsoleteReasonRule reports DH002. The same invariant is enforced at
// construction; the rule re-checks it so a review never trusts upstream state.
type MissingObsoleteReasonRule struct{}

func (r *MissingObsoleteReasonRule) ID() string { return "missing-obsolete-reason" }

func (r *MissingObsoleteReasonRule) Check(in review.Input) []review.Problem {
	var problems []review.Problem
	for _, req := range in.Doc.Requirements() {
		if req.Obsolete && req.ObsoleteReason == "" {
			problems = append(problems, review.Problem{
				Code:        review.DH002,
				Description: fmt.Sprintf("%s is marked obsolete without a reason given", req.ID),
			})
		}
	}
	return problems
}

// DanglingReferenceRule reports DH003 once per (test, unknown id) pair. An id
// repeated inside one test's verifies list yields a single problem; an id
// matching any loaded requirement, obsolete or not, never fires.
type DanglingReferenceRule struct{}

func (r *DanglingReferenceRule) ID() string { return "dangling-reference" }

func (r *DanglingReferenceRule) Check(in review.Input) []review.Problem {
	known := make(map[string]bool)
	for _, req := range in.Doc.Requirements() {
		known[req.ID] = true
	}

	var problems []review.Problem
	for _, t := range in.Tests.AllTests() {
		seen := make(map[string]bool)
		for _, id := range t.Verifies {
			if known[id] || seen[id] {
				continue
			}
			seen[id] = true
			problems = append(problems, review.Problem{
				Code:        review.DH003,
				Description: fmt.Sprintf("Test %s references non-existent requirement %s", t.ID, id),
			})
		}
	}
	return problems
}

// DuplicateRequirementIDRule reports DH004: exactly one problem per
// duplicated value, naming its occurrence count, in first-occurrence order.
type DuplicateRequirementIDRule struct{}

func (r *DuplicateRequirementIDRule) ID() string { return "duplicate-requirement-id" }

func (r *DuplicateRequirementIDRule) Check(in review.Input) []review.Problem {
	var ids []string
	for _, req := range in.Doc.Requirements() {
		ids = append(ids, req.ID)
	}
	return duplicateProblems(ids, review.DH004, "Requirement")
}

// DuplicateTestIDRule reports DH005, the test-side twin of DH004.
type DuplicateTestIDRule struct{}

func (r *DuplicateTestIDRule) ID() string { return "duplicate-test-id" }

func (r *DuplicateTestIDRule) Check(in review.Input) []review.Problem {
	var ids []string
	for _, t := range in.Tests.AllTests() {
		ids = append(ids, t.ID)
	}
	return duplicateProblems(ids, review.DH005, "Test")
}

// ObsoleteStillTestedRule reports DH006 once per (obsolete requirement,
// associated test) pair.
type ObsoleteStillTestedRule struct{}

func (r *ObsoleteStillTestedRule) ID() string { return "obsolete-still-tested" }

func (r *ObsoleteStillTestedRule) Check(in review.Input) []review.Problem {
	var problems []review.Problem
	for _, entry := range in.Coverage.Entries {
		if !entry.Requirement.Obsolete {
			continue
		}
		for _, t := range entry.Tests {
			problems = append(problems, review.Problem{
				Code:        review.DH006,
				Description: fmt.Sprintf("Test %s verifies obsolete requirement %s", t.ID, entry.Requirement.ID),
			})
		}
	}
	return problems
}

// duplicateProblems counts occurrences and emits one problem per value seen
// more than once. Order follows first occurrence, so the result does not
// depend on which duplicate happens to come last.
func duplicateProblems(ids []string, code review.Code, kind string) []review.Problem {
	counts := make(map[string]int, len(ids))
	var order []string
	for _, id := range ids {
		if counts[id] == 0 {
			order = append(order, id)
		}
		counts[id]++
	}

	var problems []review.Problem
	for _, id := range order {
		if counts[id] > 1 {
			problems = append(problems, review.Problem{
				Code:        code,
				Description: fmt.Sprintf("%s %s is defined %d times", kind, id, counts[id]),
			})
		}
	}
	return problems
}

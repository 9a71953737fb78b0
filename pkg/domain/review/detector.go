package review

import (
	"github.com/felixgeelhaar/reqtrace/pkg/domain/coverage"
	"github.com/felixgeelhaar/reqtrace/pkg/domain/model"
)

// Input is the material a rule inspects: the loaded model plus the computed
// coverage relation.
type Input struct {
	Doc      *model.RequirementsDoc
	Tests    *model.TestCollection
	Coverage *coverage.Relation
}

// Rule is one consistency check. Rules operate independently; a single entity
// may trigger several rules at once.
type Rule interface {
	ID() string
	Check(in Input) []Problem
}

// Detector runs a battery of rules in a fixed order and applies the ignore
// filter last.
type Detector struct {
	Rules []Rule
}

// Review runs every rule over the input and returns the surviving problems.
// The result order is stable: rule order first, each rule's own order within.
func (d *Detector) Review(in Input, ignore IgnoreSet) []Problem {
	var all []Problem
	for _, rule := range d.Rules {
		all = append(all, rule.Check(in)...)
	}
	if len(ignore) == 0 {
		return all
	}
	kept := make([]Problem, 0, len(all))
	for _, p := range all {
		if !ignore[p.Code] {
			kept = append(kept, p)
		}
	}
	return kept
}

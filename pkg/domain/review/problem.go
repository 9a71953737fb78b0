// Package review runs a fixed battery of consistency rules over loaded
// requirements, tests, and their coverage relation. Problems never abort a
// review; fatal load failures are handled before this package runs.
package review

import (
	"fmt"
	"sort"
	"strings"
)

// Code identifies one problem type in the closed taxonomy.
type Code int

const (
	// DH001: a non-obsolete requirement has no associated tests.
	DH001 Code = iota + 1
	// DH002: a requirement is marked obsolete without a reason given.
	DH002
	// DH003: a test references a requirement that does not exist.
	DH003
	// DH004: two or more requirements share an identifier.
	DH004
	// DH005: two or more tests share an identifier.
	DH005
	// DH006: an obsolete requirement is still verified by a test.
	DH006
)

func (c Code) String() string {
	return fmt.Sprintf("DH%03d", int(c))
}

// ParseCode converts a string such as "DH003" into a Code.
func ParseCode(s string) (Code, error) {
	for c := DH001; c <= DH006; c++ {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown problem code %q", s)
}

// Problem is a single typed finding. Problems are pure outputs: immutable,
// and never retained by the entities they describe.
type Problem struct {
	Code        Code   `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
}

func (p Problem) String() string {
	return p.Description
}

// IgnoreSet holds problem codes suppressed from the final result. Filtering
// is applied after all rules have run; it never changes rule evaluation.
type IgnoreSet map[Code]bool

// ParseIgnoreSet builds an IgnoreSet from code strings.
func ParseIgnoreSet(codes []string) (IgnoreSet, error) {
	set := make(IgnoreSet, len(codes))
	for _, s := range codes {
		c, err := ParseCode(s)
		if err != nil {
			return nil, err
		}
		set[c] = true
	}
	return set, nil
}

// Codes returns the ignored codes in ascending order.
func (s IgnoreSet) Codes() []Code {
	out := make([]Code, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

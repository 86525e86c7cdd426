// Package suppress filters diagnostics against user-supplied suppression
// rules of the form "id[:file[:line]]". File parts may contain glob
// metacharacters. Suppressions that never matched anything can be reported
// at the end of a run.
package suppress

import (
	"strconv"
	"strings"

	cerr "github.com/praveenmunagapati/cppcheck/pkg/errors"
	"github.com/praveenmunagapati/cppcheck/pkg/pathmatch"
	"github.com/praveenmunagapati/cppcheck/pkg/report"
)

// Rule is a single parsed suppression. Line 0 means any line; an empty File
// makes the rule global.
type Rule struct {
	ID   string
	File string
	Line int

	matched bool
}

// Suppressions is the active rule set for a run.
type Suppressions struct {
	rules []*Rule
}

// New returns an empty suppression set.
func New() *Suppressions {
	return &Suppressions{}
}

// Parse adds one suppression line ("id", "id:file" or "id:file:line").
func (s *Suppressions) Parse(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "//") {
		return nil
	}

	parts := strings.SplitN(line, ":", 3)
	rule := &Rule{ID: parts[0]}
	if rule.ID == "" {
		return cerr.Newf(cerr.ErrInvalidInput, "suppression without id: %q", line)
	}
	if len(parts) > 1 {
		rule.File = parts[1]
	}
	if len(parts) > 2 {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return cerr.Newf(cerr.ErrInvalidInput, "invalid suppression line number: %q", line)
		}
		rule.Line = n
	}

	s.rules = append(s.rules, rule)
	return nil
}

// ParseLines parses a whole suppression list file body.
func (s *Suppressions) ParseLines(body string) error {
	for _, line := range strings.Split(body, "\n") {
		if err := s.Parse(line); err != nil {
			return err
		}
	}
	return nil
}

// IsSuppressed reports whether the record matches any rule, marking the rule
// as used.
func (s *Suppressions) IsSuppressed(r report.Record) bool {
	file := ""
	line := 0
	if len(r.Locations) > 0 {
		primary := r.Locations[len(r.Locations)-1]
		file = primary.File
		line = primary.Line
	}

	suppressed := false
	for _, rule := range s.rules {
		if rule.ID != "*" && rule.ID != r.ID {
			continue
		}
		if rule.File != "" {
			m := pathmatch.New([]string{rule.File}, true)
			if !m.Match(file) {
				continue
			}
		}
		if rule.Line != 0 && rule.Line != line {
			continue
		}
		rule.matched = true
		suppressed = true
	}
	return suppressed
}

// UnmatchedGlobal returns the global (fileless) rules that never matched a
// diagnostic during the run.
func (s *Suppressions) UnmatchedGlobal() []Rule {
	var unmatched []Rule
	for _, rule := range s.rules {
		if rule.File == "" && !rule.matched {
			unmatched = append(unmatched, *rule)
		}
	}
	return unmatched
}

// Package quality judges whether a documentation section says anything useful.
package quality

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/sirkon/csense/internal/docxml"
)

// Judge decides if a section is a low-value placeholder.
// Its zero value knows no banned phrases.
type Judge struct {
	terms map[string]struct{}
}

// New creates a Judge with additional banned phrases.
func New(terms []string) Judge {
	j := Judge{terms: make(map[string]struct{}, len(terms))}
	for _, t := range terms {
		t = Normalize(t)
		if t == "" {
			continue
		}
		j.terms[fold(t)] = struct{}{}
	}

	return j
}

// IsLow checks if the section is empty, restates the name of the element it documents,
// matches one of fillers or one of banned phrases.
// Sections having nested elements are never low-quality.
func (j Judge) IsLow(s *docxml.Section, name string, fillers ...string) bool {
	if s == nil {
		return true
	}
	if s.HasElements() {
		return false
	}

	return j.IsLowText(s.Text, name, fillers...)
}

// IsLowText is IsLow for bare text.
func (j Judge) IsLowText(text string, name string, fillers ...string) bool {
	content := Normalize(text)
	if content == "" {
		return true
	}

	folded := fold(content)
	if name != "" && folded == fold(name) {
		return true
	}
	for _, f := range fillers {
		if f != "" && folded == fold(f) {
			return true
		}
	}
	_, banned := j.terms[folded]

	return banned
}

// Normalize trims whitespace and trailing punctuation.
func Normalize(text string) string {
	return strings.TrimRight(strings.TrimSpace(text), ".!?: ")
}

func fold(s string) string {
	return cases.Fold().String(s)
}

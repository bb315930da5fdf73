// Package config resolves per-unit analysis options and loads CLI settings.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/symbols"
)

// Recognized option keys.
const (
	Prefix               = "comment_sense."
	KeyAnalyzeInternal   = Prefix + "analyze_internal"
	KeyLowQualityTerms   = Prefix + "low_quality_terms"
	KeyIgnoredExceptions = Prefix + "ignored_exceptions"
)

// SeverityKey returns the option key overriding severity of the rule.
//
//	comment_sense.csense014.severity
func SeverityKey(r csrules.Rule) string {
	return Prefix + strings.ToLower(r.String()) + ".severity"
}

// Options is a resolved per-unit configuration. It is immutable once built.
type Options struct {
	AnalyzeNonPublic  bool
	LowQualityTerms   []string
	IgnoredExceptions []string

	ignored    map[string]struct{}
	severities map[csrules.Rule]csrules.Severity
}

// Default returns options with nothing configured.
func Default() *Options {
	return &Options{}
}

// Severity returns effective severity of the rule and whether it is enabled.
func (o *Options) Severity(r csrules.Rule) (csrules.Severity, bool) {
	if sev, ok := o.severities[r]; ok {
		return sev, sev != csrules.SeverityNone
	}

	return r.DefaultSeverity(), r.EnabledByDefault()
}

// IsIgnoredException checks if the exception type is exempt from documentation checks
// by its simple or qualified name.
func (o *Options) IsIgnoredException(t *symbols.Type) bool {
	if t == nil || len(o.ignored) == 0 {
		return false
	}

	if _, ok := o.ignored[fold(t.Name)]; ok {
		return true
	}
	_, ok := o.ignored[fold(t.FullName())]
	return ok
}

// ParseBool parses a boolean option. Anything but a valid true value is false.
func ParseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

// ParseList parses a comma-separated option: items are trimmed, empty ones dropped.
func ParseList(raw string) []string {
	var res []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		res = append(res, item)
	}

	return res
}

// ParseSeverity parses a severity override.
func ParseSeverity(raw string) (csrules.Severity, error) {
	var s csrules.Severity
	if err := s.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(raw)))); err != nil {
		return csrules.SeverityNone, fmt.Errorf("parse severity: %w", err)
	}

	return s, nil
}

// build assembles options from raw values of known keys.
func build(analyze bool, terms, ignored []string, severities map[csrules.Rule]csrules.Severity) *Options {
	o := &Options{
		AnalyzeNonPublic:  analyze,
		LowQualityTerms:   terms,
		IgnoredExceptions: ignored,
		ignored:           make(map[string]struct{}, len(ignored)),
		severities:        severities,
	}
	for _, name := range ignored {
		o.ignored[fold(name)] = struct{}{}
	}

	return o
}

func fold(s string) string {
	return cases.Fold().String(s)
}

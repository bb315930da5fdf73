// Package report collects findings produced by the analysis stages.
package report

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/symbols"
)

// Well-known property names of findings.
const (
	// PropName is the name of the parameter, type parameter or exception type involved.
	PropName = "Name"

	// PropTag is the documentation tag family the finding is about.
	PropTag = "Tag"

	// PropOrder is the document order key of a missing section.
	PropOrder = "Order"
)

// Reporter collects findings. It is safe for concurrent use.
type Reporter struct {
	mu       sync.Mutex
	findings []Finding
}

// Finding represents a single diagnostic entry.
type Finding struct {
	Stage      Stage             `json:"stage"`
	Rule       csrules.Rule      `json:"rule"`
	Severity   csrules.Severity  `json:"severity"`
	Location   symbols.Location  `json:"location"`
	Args       []string          `json:"args,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Message renders the finding message.
func (f Finding) Message() string {
	return f.Rule.Message(f.Args...)
}

// Prop returns a property of the finding.
func (f Finding) Prop(name string) string {
	return f.Properties[name]
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s %s: %s", f.Location, f.Severity, f.Rule, f.Message())
}

// Stage marks the analysis stage where a finding was generated.
type Stage int

const (
	_ Stage = iota
	StageDocumentation
	StageSignature
	StageReturn
	StageExceptions
	StageQuality
	StageReferences
)

func (s Stage) String() string {
	switch s {
	case StageDocumentation:
		return "documentation"
	case StageSignature:
		return "signature"
	case StageReturn:
		return "return"
	case StageExceptions:
		return "exceptions"
	case StageQuality:
		return "quality"
	case StageReferences:
		return "references"
	default:
		return fmt.Sprintf("unknown-stage(%d)", s)
	}
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// StageReporter binds a Reporter to a fixed stage.
// It is used during an entire stage to record rule violations
// without specifying the stage repeatedly.
type StageReporter struct {
	parent *Reporter
	stage  Stage
}

// Stage returns a stage-bound reporter that automatically
// sets the given stage for all findings produced through it.
func (r *Reporter) Stage(s Stage) *StageReporter {
	return &StageReporter{parent: r, stage: s}
}

// Report adds a new finding to the reporter.
func (r *Reporter) Report(f Finding) {
	r.mu.Lock()
	r.findings = append(r.findings, f)
	r.mu.Unlock()
}

// Report records a new rule violation under the bound stage with the default rule severity.
// props may be nil.
func (sr *StageReporter) Report(rule csrules.Rule, loc symbols.Location, props map[string]string, args ...string) {
	sr.parent.Report(Finding{
		Stage:      sr.stage,
		Rule:       rule,
		Severity:   rule.DefaultSeverity(),
		Location:   loc,
		Args:       args,
		Properties: props,
	})
}

// Findings returns a snapshot of all collected findings in the order of reporting.
func (r *Reporter) Findings() []Finding {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Finding, len(r.findings))
	copy(out, r.findings)
	return out
}

// Sorted returns a snapshot of all collected findings in a deterministic order:
// by location, then rule, then arguments.
func (r *Reporter) Sorted() []Finding {
	out := r.Findings()
	Sort(out)
	return out
}

// Sort orders findings deterministically.
func Sort(fs []Finding) {
	slices.SortStableFunc(fs, Compare)
}

// Compare is the ordering used by Sort.
func Compare(a, b Finding) int {
	return cmp.Or(
		cmp.Compare(a.Location.File, b.Location.File),
		cmp.Compare(a.Location.Line, b.Location.Line),
		cmp.Compare(a.Location.Column, b.Location.Column),
		cmp.Compare(a.Rule, b.Rule),
		slices.Compare(a.Args, b.Args),
		strings.Compare(propsKey(a.Properties), propsKey(b.Properties)),
	)
}

func propsKey(p map[string]string) string {
	var buf strings.Builder
	for _, k := range slices.Sorted(maps.Keys(p)) {
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(p[k])
		buf.WriteByte(';')
	}

	return buf.String()
}

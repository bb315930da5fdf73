package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/fixes"
	"github.com/sirkon/csense/internal/report"
)

var severityColors = map[csrules.Severity]*color.Color{
	csrules.SeverityError:   color.New(color.FgRed, color.Bold),
	csrules.SeverityWarning: color.New(color.FgYellow),
	csrules.SeverityInfo:    color.New(color.FgCyan),
}

// summaryOrder is the order of severities in the text summary.
var summaryOrder = []csrules.Severity{csrules.SeverityError, csrules.SeverityWarning, csrules.SeverityInfo}

// renderText prints a finding per line followed by a summary line.
//
//	Lib.cs:10:5: warning CSENSE002: The parameter 'key' is missing documentation
//	1 finding: 1 warning
func renderText(w io.Writer, results []unitResult, colored bool) error {
	counts := map[csrules.Severity]int{}
	total := 0
	for _, r := range results {
		for _, f := range r.findings {
			sev := f.Severity.String()
			if c, ok := severityColors[f.Severity]; ok && colored {
				sev = c.Sprint(sev)
			}
			if _, err := fmt.Fprintf(w, "%s: %s %s: %s\n", f.Location, sev, f.Rule, f.Message()); err != nil {
				return err
			}
			counts[f.Severity]++
			total++
		}
	}

	if total == 0 {
		_, err := fmt.Fprintln(w, "no findings")
		return err
	}

	var parts []string
	for _, sev := range summaryOrder {
		if n := counts[sev]; n > 0 {
			parts = append(parts, plural(n, sev.String()))
		}
	}
	_, err := fmt.Fprintf(w, "%s: %s\n", plural(total, "finding"), strings.Join(parts, ", "))
	return err
}

func plural(n int, what string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, what)
	}

	return fmt.Sprintf("%d %ss", n, what)
}

// findingRecord is the JSON shape of a finding.
type findingRecord struct {
	Unit       string            `json:"unit"`
	File       string            `json:"file"`
	Line       int               `json:"line"`
	Column     int               `json:"column"`
	Rule       csrules.Rule      `json:"rule"`
	Name       string            `json:"name"`
	Severity   csrules.Severity  `json:"severity"`
	Stage      report.Stage      `json:"stage"`
	Message    string            `json:"message"`
	Properties map[string]string `json:"properties,omitempty"`
}

func newFindingRecord(unit string, f report.Finding) findingRecord {
	return findingRecord{
		Unit:       unit,
		File:       f.Location.File,
		Line:       f.Location.Line,
		Column:     f.Location.Column,
		Rule:       f.Rule,
		Name:       f.Rule.Name(),
		Severity:   f.Severity,
		Stage:      f.Stage,
		Message:    f.Message(),
		Properties: f.Properties,
	}
}

// renderJSON prints findings of all units as a single array.
func renderJSON(w io.Writer, results []unitResult) error {
	records := []findingRecord{}
	for _, r := range results {
		for _, f := range r.findings {
			records = append(records, newFindingRecord(r.unit, f))
		}
	}

	return encodeJSON(w, records)
}

// renderFixesText prints every fix with the documentation it produces.
//
//	Lib.cs:12:5: CSENSE002: insert at 58: <param name="dst"></param>
//	    <summary>Copies.</summary><param name="src">Source.</param><param name="dst"></param>
func renderFixesText(w io.Writer, results []fixResult) error {
	total := 0
	for _, r := range results {
		for _, fx := range r.fixes {
			var action string
			switch e := fx.Edit; e.Kind {
			case fixes.EditInsert:
				action = fmt.Sprintf("%s at %d: %s", e.Kind, e.Offset, e.Text)
			default:
				action = fmt.Sprintf("%s [%d,%d)", e.Kind, e.Offset, e.End)
			}

			if _, err := fmt.Fprintf(w, "%s: %s: %s\n    %s\n", fx.Finding.Location, fx.Finding.Rule, action, fx.Doc); err != nil {
				return err
			}
			total++
		}
	}

	if total == 0 {
		_, err := fmt.Fprintln(w, "no fixes")
		return err
	}

	what := "fixes"
	if total == 1 {
		what = "fix"
	}
	_, err := fmt.Fprintf(w, "%d %s\n", total, what)
	return err
}

// fixRecord is the JSON shape of a fix.
type fixRecord struct {
	findingRecord
	Edit   string `json:"edit"`
	Offset int    `json:"offset"`
	End    int    `json:"end,omitempty"`
	Text   string `json:"text,omitempty"`
	Doc    string `json:"doc"`
}

func renderFixesJSON(w io.Writer, results []fixResult) error {
	records := []fixRecord{}
	for _, r := range results {
		for _, fx := range r.fixes {
			records = append(records, fixRecord{
				findingRecord: newFindingRecord(r.unit, fx.Finding),
				Edit:          fx.Edit.Kind.String(),
				Offset:        fx.Edit.Offset,
				End:           fx.Edit.End,
				Text:          fx.Edit.Text,
				Doc:           fx.Doc,
			})
		}
	}

	return encodeJSON(w, records)
}

// renderRulesTable prints the rule catalog.
func renderRulesTable(w io.Writer, rules []csrules.Rule) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Code", "Name", "Severity", "Enabled", "Title"})
	for _, r := range rules {
		t.AppendRow(table.Row{r.String(), r.Name(), r.DefaultSeverity(), r.EnabledByDefault(), r.Title()})
	}

	t.Render()
}

// ruleRecord is the JSON shape of a rule.
type ruleRecord struct {
	Code        csrules.Rule     `json:"code"`
	Name        string           `json:"name"`
	Title       string           `json:"title"`
	Category    string           `json:"category"`
	Severity    csrules.Severity `json:"severity"`
	Enabled     bool             `json:"enabled"`
	Description string           `json:"description"`
}

func renderRulesJSON(w io.Writer, rules []csrules.Rule) error {
	records := make([]ruleRecord, len(rules))
	for i, r := range rules {
		records[i] = ruleRecord{
			Code:        r,
			Name:        r.Name(),
			Title:       r.Title(),
			Category:    csrules.Category,
			Severity:    r.DefaultSeverity(),
			Enabled:     r.EnabledByDefault(),
			Description: r.Description(),
		}
	}

	return encodeJSON(w, records)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	return nil
}

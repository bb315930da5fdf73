package csense

import (
	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/docxml"
	"github.com/sirkon/csense/internal/report"
	"github.com/sirkon/csense/internal/symbols"
)

// family is a signature element family documented with named sections.
type family struct {
	tag       string
	missing   csrules.Rule
	stray     csrules.Rule
	duplicate csrules.Rule
	order     csrules.Rule
}

var (
	paramFamily = family{
		tag:       docxml.TagParam,
		missing:   csrules.MissingParam(),
		stray:     csrules.StrayParam(),
		duplicate: csrules.DuplicateParam(),
		order:     csrules.ParamOrderMismatch(),
	}
	typeParamFamily = family{
		tag:       docxml.TagTypeParam,
		missing:   csrules.MissingTypeParam(),
		stray:     csrules.StrayTypeParam(),
		duplicate: csrules.DuplicateTypeParam(),
		order:     csrules.TypeParamOrderMismatch(),
	}
)

// reconcileSignature matches documented sections of the family against actual elements.
func (a *analysis) reconcileSignature(f family, actual []*symbols.Decl) {
	sections := a.block.Tagged(f.tag)
	if len(actual) == 0 && len(sections) == 0 {
		return
	}

	sr := a.rep.Stage(report.StageSignature)

	// Sections without content do not document anything.
	documented := map[string]struct{}{}
	for _, s := range a.block.Named(f.tag) {
		if s.HasContent() {
			documented[s.Name] = struct{}{}
		}
	}

	// Duplicate element names: the first occurrence wins.
	index := make(map[string]int, len(actual))
	for i, e := range actual {
		if _, ok := index[e.Name]; ok {
			continue
		}
		index[e.Name] = i

		if _, ok := documented[e.Name]; ok {
			continue
		}
		sr.Report(f.missing, a.elemLocation(e), a.props(f.tag, e.Name), e.Name)
	}

	seen := map[string]struct{}{}
	last := -1
	for _, s := range sections {
		name := s.Name
		if s.NameTrimmed() == "" {
			continue
		}

		if _, ok := seen[name]; ok {
			sr.Report(f.duplicate, a.decl.Primary(), a.props(f.tag, name), name)
			continue
		}
		seen[name] = struct{}{}

		cur, ok := index[name]
		if !ok {
			sr.Report(f.stray, a.decl.Primary(), a.props(f.tag, name), name)
			continue
		}

		if a.judge.IsLow(s, name) {
			a.rep.Stage(report.StageQuality).Report(
				csrules.LowQuality(),
				a.elemLocation(actual[cur]),
				a.props(f.tag, name),
				f.tag, name,
			)
		}

		if cur < last {
			sr.Report(f.order, a.decl.Primary(), a.props(f.tag, name), name)
		}
		last = max(last, cur)
	}
}

// elemLocation returns location of a signature element, falling back to its owner's.
func (a *analysis) elemLocation(e *symbols.Decl) symbols.Location {
	if len(e.Locations) > 0 {
		return e.Primary()
	}

	return a.decl.Primary()
}

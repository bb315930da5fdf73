package csense

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/sirkon/csense/internal/docxml"
	"github.com/sirkon/csense/internal/fixes"
	"github.com/sirkon/csense/internal/report"
	"github.com/sirkon/csense/internal/symbols"
)

// Fix is an automated fix planned for a finding.
type Fix struct {
	Finding report.Finding
	Edit    fixes.Edit

	// Doc is the documentation of the declaration with the edit applied.
	Doc string
}

// Fixes analyzes the unit like Run does and plans fixes for findings having one.
// Every fix is planned against the original documentation independently of others.
func (a *Analyzer) Fixes(ctx context.Context, unit Unit) ([]Fix, error) {
	var (
		mu  sync.Mutex
		res []Fix
	)
	err := a.each(ctx, unit, func(d *symbols.Decl, fs []report.Finding) {
		planned := Plan(d, fs)
		mu.Lock()
		res = append(res, planned...)
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(res, func(x, y Fix) int {
		return cmp.Or(
			report.Compare(x.Finding, y.Finding),
			cmp.Compare(x.Edit.Offset, y.Edit.Offset),
		)
	})
	return res, nil
}

// Plan plans fixes for findings of the declaration.
func Plan(d *symbols.Decl, fs []report.Finding) []Fix {
	block, _ := docxml.Parse(d.Doc)

	var res []Fix
	for _, f := range fs {
		e, ok := fixes.Plan(f, block, d)
		if !ok {
			continue
		}
		doc, err := e.Apply(d.Doc)
		if err != nil {
			continue
		}
		res = append(res, Fix{Finding: f, Edit: e, Doc: doc})
	}

	return res
}

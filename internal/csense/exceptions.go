package csense

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sirkon/csense/internal/crefs"
	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/docxml"
	"github.com/sirkon/csense/internal/report"
	"github.com/sirkon/csense/internal/symbols"
	"github.com/sirkon/csense/internal/tracing"
)

// reconcileExceptions reports exception types escaping the body of the declaration
// which no exception section covers.
func (a *analysis) reconcileExceptions(ctx context.Context) error {
	documented := a.documentedExceptions()

	body := a.host.Body(a.decl)
	if len(body) == 0 {
		return nil
	}

	opts := tracing.Options{
		PrimaryCtor:   primaryCtorLike(a.decl),
		BaseException: a.host.ByQualifiedName(symbols.BaseExceptionName),
	}

	var escape tracing.Escape
	idx, err := tracing.NewIndex(body)
	if err != nil {
		slog.Debug(
			"fall back to conservative escape analysis",
			slog.String("decl", a.decl.Name),
			slog.String("location", a.decl.Primary().String()),
			slog.Any("err", err),
		)
		escape = tracing.Conservative(body, opts)
	} else {
		escape, err = tracing.Escapes(ctx, idx, opts)
		if err != nil {
			return fmt.Errorf("compute escaping exceptions: %w", err)
		}
	}

	sr := a.rep.Stage(report.StageExceptions)
	for _, t := range escape.Types() {
		if a.opts.IsIgnoredException(t) {
			continue
		}
		if covered(t, documented) {
			continue
		}

		sr.Report(
			csrules.MissingException(),
			a.decl.Primary(),
			a.props(docxml.TagException, t.FullName()),
			a.decl.Name, t.DisplayName(),
		)
	}

	return nil
}

// documentedExceptions resolves types of exception sections and checks their quality.
func (a *analysis) documentedExceptions() []*symbols.Type {
	var res []*symbols.Type
	for _, s := range a.block.Tagged(docxml.TagException) {
		if s.Cref == "" {
			continue
		}

		t := crefs.DocumentedType(crefs.Resolve(a.host, s.Cref, a.decl))
		if t == nil {
			continue
		}
		res = append(res, t)

		if a.judge.IsLow(s, t.Name) {
			a.lowQuality(docxml.TagException, t.Name)
		}
	}

	return res
}

func covered(t *symbols.Type, documented []*symbols.Type) bool {
	u := t.Underlying()
	for _, d := range documented {
		if u.InheritsFromOrEquals(d.Underlying()) {
			return true
		}
	}

	return false
}

func primaryCtorLike(d *symbols.Decl) bool {
	v, ok := d.Info.(*symbols.TypeInfo)
	return ok && v.PrimaryCtorLike
}

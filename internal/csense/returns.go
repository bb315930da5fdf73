package csense

import (
	"fmt"

	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/docxml"
	"github.com/sirkon/csense/internal/report"
	"github.com/sirkon/csense/internal/symbols"
)

var (
	returnsFillers = []string{docxml.TagReturns, "return"}
	valueFillers   = []string{docxml.TagValue}
)

// classifyReturn checks returns and value sections against the declared result.
func (a *analysis) classifyReturn() {
	switch v := a.decl.Info.(type) {
	case *symbols.MethodInfo:
		a.methodResult(v.Return)
	case *symbols.TypeInfo:
		if v.Delegate != nil {
			a.methodResult(*v.Delegate)
		}
	case *symbols.PropertyInfo:
		if a.decl.Kind == symbols.DeclKindIndexer || len(v.Params) > 0 {
			a.indexerResult(v)
		} else {
			a.propertyValue(v)
		}
	case *symbols.FieldInfo, *symbols.EventInfo, *symbols.AccessorInfo, *symbols.ParamInfo, nil:
	default:
		panic(fmt.Errorf("unsupported declaration info %T", v))
	}
}

func (a *analysis) methodResult(slot symbols.ReturnSlot) {
	sr := a.rep.Stage(report.StageReturn)
	loc := a.decl.Primary()

	if a.block.Has(docxml.TagValue) {
		sr.Report(csrules.StrayValue(), loc, a.props(docxml.TagValue, ""), a.decl.Name)
	}

	switch slot.Class {
	case symbols.ReturnValue, symbols.ReturnAsync:
		a.wantReturns(slot.Documented())
	default:
		if a.block.Has(docxml.TagReturns) {
			sr.Report(csrules.StrayReturnValue(), loc, a.props(docxml.TagReturns, ""), a.decl.Name)
		}
	}
}

func (a *analysis) propertyValue(p *symbols.PropertyInfo) {
	sr := a.rep.Stage(report.StageReturn)
	loc := a.decl.Primary()

	if a.block.Has(docxml.TagReturns) {
		sr.Report(csrules.StrayReturnValue(), loc, a.props(docxml.TagReturns, ""), a.decl.Name)
	}
	if !p.HasGetter {
		return
	}

	values := a.block.Tagged(docxml.TagValue)
	if len(values) == 0 {
		sr.Report(csrules.MissingValue(), loc, a.props(docxml.TagValue, ""), a.decl.Name)
		return
	}
	for _, s := range values {
		if a.judge.IsLow(s, typeName(p.Type), docxml.TagValue, a.decl.Name) {
			a.lowQuality(docxml.TagValue, a.decl.Name)
		}
	}
}

// indexerResult handles indexers: a readable one wants returns, value is optional.
func (a *analysis) indexerResult(p *symbols.PropertyInfo) {
	for _, s := range a.block.Tagged(docxml.TagValue) {
		if a.judge.IsLow(s, typeName(p.Type), valueFillers...) {
			a.lowQuality(docxml.TagValue, a.decl.Name)
		}
	}
	if !p.HasGetter {
		return
	}

	a.wantReturns(p.Type)
}

func (a *analysis) wantReturns(documented *symbols.Type) {
	returns := a.block.Tagged(docxml.TagReturns)
	if len(returns) == 0 {
		a.rep.Stage(report.StageReturn).Report(
			csrules.MissingReturnValue(),
			a.decl.Primary(),
			a.props(docxml.TagReturns, ""),
			a.decl.Name,
		)
		return
	}

	for _, s := range returns {
		if a.judge.IsLow(s, typeName(documented), returnsFillers...) {
			a.lowQuality(docxml.TagReturns, a.decl.Name)
		}
	}
}

func typeName(t *symbols.Type) string {
	if t == nil {
		return ""
	}

	return t.Name
}

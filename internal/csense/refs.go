package csense

import (
	"github.com/sirkon/csense/internal/crefs"
	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/report"
)

// checkRefs resolves every cref of the block.
func (a *analysis) checkRefs() {
	sr := a.rep.Stage(report.StageReferences)
	for _, ref := range a.block.Refs {
		props := map[string]string{
			report.PropName: ref.Cref,
			report.PropTag:  ref.Tag,
		}

		switch crefs.Check(crefs.Resolve(a.host, ref.Cref, a.decl), ref.InException) {
		case crefs.Valid:
		case crefs.UnresolvedRef:
			sr.Report(csrules.UnresolvedCref(), a.decl.Primary(), props, ref.Cref)
		case crefs.InvalidException:
			sr.Report(csrules.InvalidExceptionType(), a.decl.Primary(), props, ref.Cref)
		}
	}
}

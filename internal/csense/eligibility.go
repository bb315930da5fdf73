package csense

import (
	"github.com/sirkon/csense/internal/config"
	"github.com/sirkon/csense/internal/symbols"
)

// IsEligible checks if the declaration is subject to analysis.
func IsEligible(d *symbols.Decl, opts *config.Options) bool {
	if d == nil || d.Synthetic {
		return false
	}

	switch d.Kind {
	case symbols.DeclKindAccessor:
		// Documented via their property or event.
		return false
	case symbols.DeclKindNamespace, symbols.DeclKindParameter, symbols.DeclKindTypeParameter:
		// Covered by their owners.
		return false
	case symbols.DeclKindConstructor:
		if m, ok := d.Info.(*symbols.MethodInfo); ok && m.PrimaryCtorWrapper {
			return false
		}
	}

	nonPublic := opts != nil && opts.AnalyzeNonPublic
	for link := d; link != nil && link.Kind != symbols.DeclKindNamespace; link = link.Parent {
		if !visible(link.Access, nonPublic) {
			return false
		}
	}

	return true
}

func visible(a symbols.Access, nonPublic bool) bool {
	if nonPublic {
		return a != symbols.AccessPrivate
	}

	return a.ExternallyVisible()
}

package symdump

import (
	"strconv"
	"strings"

	"github.com/sirkon/csense/internal/crefs"
	"github.com/sirkon/csense/internal/symbols"
)

var _ crefs.Table = (*Unit)(nil)

// ByID looks up a documentation ID: T:, N:, M:, P:, F: or E: prefix followed by a qualified name.
// Method IDs may carry a parameter type list to pick an overload.
func (u *Unit) ByID(id string) []crefs.Symbol {
	if len(id) < 3 || id[1] != ':' {
		return nil
	}
	prefix, name := id[0], id[2:]

	var sig []string
	hasSig := false
	if i := strings.IndexByte(name, '('); i >= 0 && strings.HasSuffix(name, ")") {
		hasSig = true
		if inner := name[i+1 : len(name)-1]; inner != "" {
			sig, _ = splitArgs(inner)
		}
		name = name[:i]
	}
	arity := idArity(name)
	name = stripArity(name)

	if prefix == 'T' {
		if t, ok := u.types[name]; ok && len(t.TypeArgs) == arity {
			return []crefs.Symbol{{Type: t}}
		}
		return nil
	}

	var res []crefs.Symbol
	for _, d := range u.members[name] {
		if !idKindMatches(prefix, d.Kind) {
			continue
		}
		if hasSig && !u.signatureMatches(d, sig) {
			continue
		}
		res = append(res, crefs.Symbol{Decl: d})
	}

	return res
}

func idKindMatches(prefix byte, k symbols.DeclKind) bool {
	switch prefix {
	case 'N':
		return k == symbols.DeclKindNamespace
	case 'M':
		switch k {
		case symbols.DeclKindMethod, symbols.DeclKindConstructor, symbols.DeclKindOperator, symbols.DeclKindConversion:
			return true
		}
		return false
	case 'P':
		return k == symbols.DeclKindProperty || k == symbols.DeclKindIndexer
	case 'F':
		return k == symbols.DeclKindField
	case 'E':
		return k == symbols.DeclKindEvent
	default:
		return false
	}
}

func (u *Unit) signatureMatches(d *symbols.Decl, sig []string) bool {
	params := d.Params()
	if len(params) != len(sig) {
		return false
	}

	for i, p := range params {
		info, ok := p.Info.(*symbols.ParamInfo)
		if !ok || !typeMatches(info.Type, sig[i]) {
			return false
		}
	}

	return true
}

// typeMatches checks a type against a type expression of a documentation ID without touching
// unit state: units are read concurrently once parsed.
func typeMatches(t *symbols.Type, expr string) bool {
	t = t.Underlying()
	if t == nil {
		return false
	}

	name, args := splitGeneric(strings.TrimSpace(expr))
	name = stripArity(name)
	if full, ok := keywords[name]; ok {
		name = full
	}
	if name != t.FullName() && name != t.Name {
		return false
	}
	if len(args) != len(t.TypeArgs) {
		return false
	}
	for i, a := range args {
		if !typeMatches(t.TypeArgs[i], a) {
			return false
		}
	}

	return true
}

// Bind binds the name as source code at the scope would: type parameters and members of enclosing
// declarations first, then types of enclosing namespaces and the System namespace.
func (u *Unit) Bind(name string, scope *symbols.Decl) []crefs.Symbol {
	name = strings.TrimSpace(name)
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	base, _ := splitGeneric(name)
	if full, ok := keywords[base]; ok {
		base = full
	}

	if !strings.Contains(base, ".") {
		for s := scope; s != nil; s = s.Parent {
			for _, tp := range u.typeParams[s] {
				if tp.Name == base {
					return []crefs.Symbol{{Type: tp}}
				}
			}

			var res []crefs.Symbol
			for _, c := range u.children[s] {
				if c.Name == base {
					res = append(res, crefs.Symbol{Decl: c})
				}
			}
			if len(res) > 0 {
				return res
			}
		}
	} else if ds := u.members[base]; len(ds) > 0 {
		return declSymbols(ds)
	}

	if t, ok := u.types[base]; ok {
		return []crefs.Symbol{{Type: t}}
	}
	for s := scope; s != nil; s = s.Parent {
		prefix := u.qualified[s] + "."
		if t, ok := u.types[prefix+base]; ok {
			return []crefs.Symbol{{Type: t}}
		}
		if ds := u.members[prefix+base]; len(ds) > 0 {
			return declSymbols(ds)
		}
	}
	if t, ok := u.types["System."+base]; ok {
		return []crefs.Symbol{{Type: t}}
	}

	return nil
}

func declSymbols(ds []*symbols.Decl) []crefs.Symbol {
	res := make([]crefs.Symbol, len(ds))
	for i, d := range ds {
		res[i] = crefs.Symbol{Decl: d}
	}

	return res
}

// ByQualifiedName looks up a type by its namespace-qualified name.
func (u *Unit) ByQualifiedName(name string) *symbols.Type {
	return u.types[stripArity(name)]
}

// TypesBySimpleName returns types with the given simple name.
func (u *Unit) TypesBySimpleName(name string) []*symbols.Type {
	return u.bySimple[name]
}

// idArity returns the generic arity of the last segment of an ID name: List`1 -> 1.
func idArity(name string) int {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	i := strings.LastIndexByte(name, '`')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return 0
	}

	return n
}

// stripArity drops generic arity markers: List`1 -> List.
func stripArity(name string) string {
	var buf strings.Builder
	skip := false
	for _, r := range name {
		switch {
		case r == '`':
			skip = true
			continue
		case skip && r >= '0' && r <= '9':
			continue
		}
		skip = false
		buf.WriteRune(r)
	}

	return buf.String()
}

// splitArgs splits a comma-separated list respecting nested generic brackets.
func splitArgs(list string) ([]string, bool) {
	_, args := splitGeneric("x<" + list + ">")
	return args, len(args) > 0
}

package symdump

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sirkon/csense/internal/cir"
	"github.com/sirkon/csense/internal/symbols"
)

// Unit is a compilation unit loaded from a dump.
type Unit struct {
	id      string
	options map[string]string

	decls  []*symbols.Decl
	bodies map[*symbols.Decl]cir.Body

	types        map[string]*symbols.Type
	bySimple     map[string][]*symbols.Type
	placeholders map[string]*symbols.Type
	instances    map[string]*symbols.Type

	// qualified are qualified names of declarations, members index declarations by them.
	qualified  map[*symbols.Decl]string
	members    map[string][]*symbols.Decl
	children   map[*symbols.Decl][]*symbols.Decl
	typeParams map[*symbols.Decl][]*symbols.Type
	declTypes  map[*symbols.Decl]*symbols.Type
}

// Load loads a dump file. The unit ID defaults to the file name.
func Load(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump: %w", err)
	}

	u, err := Parse(data, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("parse dump %s: %w", path, err)
	}

	return u, nil
}

// Parse parses dump data. defaultID is used when the dump does not name its unit.
func Parse(data []byte, defaultID string) (*Unit, error) {
	var f dumpFile
	d := yaml.NewDecoder(bytes.NewReader(data))
	d.KnownFields(true)
	if err := d.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	u := &Unit{
		id:           f.Unit,
		options:      f.Options,
		bodies:       map[*symbols.Decl]cir.Body{},
		types:        map[string]*symbols.Type{},
		bySimple:     map[string][]*symbols.Type{},
		placeholders: map[string]*symbols.Type{},
		instances:    map[string]*symbols.Type{},
		qualified:    map[*symbols.Decl]string{},
		members:      map[string][]*symbols.Decl{},
		children:     map[*symbols.Decl][]*symbols.Decl{},
		typeParams:   map[*symbols.Decl][]*symbols.Type{},
		declTypes:    map[*symbols.Decl]*symbols.Type{},
	}
	if u.id == "" {
		u.id = defaultID
	}

	// Types are registered first and linked after, so that bases may be declared in any order.
	var links []pendingLink
	for _, t := range f.Types {
		typ, err := u.registerType(t.Name, t.Namespace, t.Kind, t.Synthetic)
		if err != nil {
			return nil, err
		}
		typ.TypeArgs = typeParamTypes(t.TypeParams)
		links = append(links, pendingLink{typ: typ, base: t.Base, target: t.Target})
	}

	var built []builtDecl
	for _, n := range f.Declarations {
		var err error
		if built, err = u.skeleton(n, nil, built); err != nil {
			return nil, err
		}
	}
	for _, b := range built {
		if t := u.declTypes[b.decl]; t != nil {
			links = append(links, pendingLink{typ: t, base: b.node.Base, scope: b.decl.Parent})
		}
	}

	links = append(links, u.builtins()...)
	for _, l := range links {
		if l.base != "" {
			l.typ.Base = u.resolveType(l.base, l.scope)
		}
		if l.target != "" {
			l.typ.Target = u.resolveType(l.target, l.scope)
		}
	}

	for _, b := range built {
		if err := u.complete(b.decl, b.node); err != nil {
			return nil, fmt.Errorf("declaration %s: %w", u.qualified[b.decl], err)
		}
	}

	return u, nil
}

type pendingLink struct {
	typ    *symbols.Type
	base   string
	target string
	scope  *symbols.Decl
}

type builtDecl struct {
	decl *symbols.Decl
	node declNode
}

// skeleton creates declarations with names, containment, locations and type parameters.
func (u *Unit) skeleton(n declNode, parent *symbols.Decl, built []builtDecl) ([]builtDecl, error) {
	if n.Name == "" {
		return nil, errors.New("declaration without a name")
	}
	if n.Kind == 0 {
		return nil, fmt.Errorf("declaration %s has no kind", n.Name)
	}

	d := &symbols.Decl{
		Name:      n.Name,
		Kind:      n.Kind,
		Access:    n.Access,
		Parent:    parent,
		Synthetic: n.Synthetic,
		Doc:       n.Doc,
	}
	if d.Access == 0 && d.Kind != symbols.DeclKindNamespace {
		d.Access = symbols.AccessPublic
	}
	loc, err := parseLocation(n.Location)
	if err != nil {
		return nil, fmt.Errorf("declaration %s: %w", n.Name, err)
	}
	if loc.File != "" {
		d.Locations = []symbols.Location{loc}
	}

	qualified := n.Name
	if parent != nil {
		qualified = u.qualified[parent] + "." + n.Name
		u.children[parent] = append(u.children[parent], d)
	}
	u.qualified[d] = qualified
	u.members[qualified] = append(u.members[qualified], d)
	if d.Kind == symbols.DeclKindConstructor && parent != nil {
		ctor := u.qualified[parent] + ".#ctor"
		u.members[ctor] = append(u.members[ctor], d)
	}

	for _, name := range n.TypeParams {
		u.typeParams[d] = append(u.typeParams[d], &symbols.Type{Name: name, Kind: symbols.TypeKindTypeParameter})
	}

	if d.Kind == symbols.DeclKindType {
		kind := n.TypeKind
		if kind == 0 {
			kind = symbols.TypeKindClass
		}
		ns := ""
		if parent != nil {
			ns = u.qualified[parent]
		}
		t, err := u.registerType(n.Name, ns, kind, n.Synthetic)
		if err != nil {
			return nil, err
		}
		t.TypeArgs = u.typeParams[d]
		u.declTypes[d] = t
	}

	u.decls = append(u.decls, d)
	built = append(built, builtDecl{decl: d, node: n})
	for _, m := range n.Members {
		if built, err = u.skeleton(m, d, built); err != nil {
			return nil, err
		}
	}

	return built, nil
}

// complete fills kind-specific information and the body of the declaration.
func (u *Unit) complete(d *symbols.Decl, n declNode) error {
	var typeParams []*symbols.Decl
	for _, t := range u.typeParams[d] {
		typeParams = append(typeParams, &symbols.Decl{
			Name:      t.Name,
			Kind:      symbols.DeclKindTypeParameter,
			Access:    d.Access,
			Parent:    d,
			Locations: d.Locations,
		})
	}

	var params []*symbols.Decl
	for _, p := range n.Params {
		loc, err := parseLocation(p.Location)
		if err != nil {
			return fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		pd := &symbols.Decl{
			Name:   p.Name,
			Kind:   symbols.DeclKindParameter,
			Access: d.Access,
			Parent: d,
			Info:   &symbols.ParamInfo{Type: u.resolveType(p.Type, d)},
		}
		if loc.File != "" {
			pd.Locations = []symbols.Location{loc}
		}
		params = append(params, pd)
	}

	switch d.Kind {
	case symbols.DeclKindType:
		info := &symbols.TypeInfo{
			Type:            u.declTypes[d],
			TypeParams:      typeParams,
			Params:          params,
			PrimaryCtorLike: n.PrimaryCtor,
		}
		if info.Type.Kind == symbols.TypeKindDelegate {
			slot := symbols.ClassifyReturn(u.resolveType(n.Returns, d))
			info.Delegate = &slot
		}
		d.Info = info
	case symbols.DeclKindMethod, symbols.DeclKindConstructor, symbols.DeclKindOperator, symbols.DeclKindConversion:
		d.Info = &symbols.MethodInfo{
			Params:             params,
			TypeParams:         typeParams,
			Return:             symbols.ClassifyReturn(u.resolveType(n.Returns, d)),
			PrimaryCtorWrapper: n.PrimaryCtorWrapper,
		}
	case symbols.DeclKindProperty, symbols.DeclKindIndexer:
		d.Info = &symbols.PropertyInfo{
			Type:      u.resolveType(n.Type, d),
			HasGetter: n.Getter,
			HasSetter: n.Setter,
			Params:    params,
		}
	case symbols.DeclKindField:
		d.Info = &symbols.FieldInfo{Type: u.resolveType(n.Type, d)}
	case symbols.DeclKindEvent:
		d.Info = &symbols.EventInfo{Type: u.resolveType(n.Type, d)}
	case symbols.DeclKindAccessor:
		d.Info = &symbols.AccessorInfo{Accessor: n.Accessor}
	case symbols.DeclKindParameter:
		d.Info = &symbols.ParamInfo{Type: u.resolveType(n.Type, d)}
	case symbols.DeclKindTypeParameter, symbols.DeclKindNamespace:
	default:
		return fmt.Errorf("unsupported declaration kind %s", d.Kind)
	}

	if len(n.Body) > 0 {
		u.bodies[d] = u.flatten(n.Body, d)
	}

	return nil
}

func (u *Unit) registerType(name, namespace string, kind symbols.TypeKind, synthetic bool) (*symbols.Type, error) {
	if name == "" {
		return nil, errors.New("type without a name")
	}
	if kind == 0 {
		kind = symbols.TypeKindClass
	}

	t := &symbols.Type{Name: name, Namespace: namespace, Kind: kind, Synthetic: synthetic}
	if _, ok := u.types[t.FullName()]; ok {
		return nil, fmt.Errorf("duplicate type %s", t.FullName())
	}
	u.types[t.FullName()] = t
	u.bySimple[name] = append(u.bySimple[name], t)

	return t, nil
}

func typeParamTypes(names []string) []*symbols.Type {
	var res []*symbols.Type
	for _, n := range names {
		res = append(res, &symbols.Type{Name: n, Kind: symbols.TypeKindTypeParameter})
	}

	return res
}

// builtins registers well-known types the dump does not declare itself.
func (u *Unit) builtins() []pendingLink {
	known := []struct {
		name, namespace string
		kind            symbols.TypeKind
		base            string
	}{
		{"Object", "System", symbols.TypeKindClass, ""},
		{"Void", "System", symbols.TypeKindVoid, ""},
		{"String", "System", symbols.TypeKindClass, "System.Object"},
		{"Boolean", "System", symbols.TypeKindStruct, "System.Object"},
		{"Int32", "System", symbols.TypeKindStruct, "System.Object"},
		{"Int64", "System", symbols.TypeKindStruct, "System.Object"},
		{"Double", "System", symbols.TypeKindStruct, "System.Object"},
		{"Exception", "System", symbols.TypeKindClass, "System.Object"},
		{"SystemException", "System", symbols.TypeKindClass, "System.Exception"},
		{"ArgumentException", "System", symbols.TypeKindClass, "System.SystemException"},
		{"ArgumentNullException", "System", symbols.TypeKindClass, "System.ArgumentException"},
		{"ArgumentOutOfRangeException", "System", symbols.TypeKindClass, "System.ArgumentException"},
		{"InvalidOperationException", "System", symbols.TypeKindClass, "System.SystemException"},
		{"NotSupportedException", "System", symbols.TypeKindClass, "System.SystemException"},
		{"NotImplementedException", "System", symbols.TypeKindClass, "System.SystemException"},
		{"ObjectDisposedException", "System", symbols.TypeKindClass, "System.InvalidOperationException"},
		{"IOException", "System.IO", symbols.TypeKindClass, "System.SystemException"},
		{"FileNotFoundException", "System.IO", symbols.TypeKindClass, "System.IO.IOException"},
		{"Task", "System.Threading.Tasks", symbols.TypeKindClass, "System.Object"},
		{"ValueTask", "System.Threading.Tasks", symbols.TypeKindStruct, "System.Object"},
	}

	var res []pendingLink
	for _, k := range known {
		full := k.namespace + "." + k.name
		if _, ok := u.types[full]; ok {
			continue
		}
		t, _ := u.registerType(k.name, k.namespace, k.kind, false)
		res = append(res, pendingLink{typ: t, base: k.base})
	}

	return res
}

// ID returns the unit name.
func (u *Unit) ID() string {
	return u.id
}

// Declarations returns all declarations in document order.
func (u *Unit) Declarations() []*symbols.Decl {
	return u.decls
}

// Options returns raw options of the unit.
func (u *Unit) Options() map[string]string {
	return u.options
}

// Body returns body constructs of the declaration.
func (u *Unit) Body(d *symbols.Decl) cir.Body {
	return u.bodies[d]
}

// QualifiedName returns the qualified name of the declaration.
func (u *Unit) QualifiedName(d *symbols.Decl) string {
	return u.qualified[d]
}

// keywords are language aliases of well-known types.
var keywords = map[string]string{
	"object": "System.Object",
	"void":   "System.Void",
	"string": "System.String",
	"bool":   "System.Boolean",
	"int":    "System.Int32",
	"long":   "System.Int64",
	"double": "System.Double",
}

// resolveType resolves a type expression, such as Task<int>, as seen from the scope.
// Unknown names give unresolved placeholder types.
func (u *Unit) resolveType(expr string, scope *symbols.Decl) *symbols.Type {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil
	}

	name, args := splitGeneric(expr)
	base := u.lookupType(name, scope)
	if len(args) == 0 {
		return base
	}

	resolved := make([]*symbols.Type, len(args))
	keys := make([]string, len(args))
	for i, a := range args {
		resolved[i] = u.resolveType(a, scope)
		keys[i] = resolved[i].FullName()
	}
	key := base.FullName() + "<" + strings.Join(keys, ",") + ">"
	if t, ok := u.instances[key]; ok {
		return t
	}

	inst := *base
	inst.TypeArgs = resolved
	u.instances[key] = &inst
	return &inst
}

func (u *Unit) lookupType(name string, scope *symbols.Decl) *symbols.Type {
	if full, ok := keywords[name]; ok {
		name = full
	}

	if !strings.Contains(name, ".") {
		for s := scope; s != nil; s = s.Parent {
			for _, tp := range u.typeParams[s] {
				if tp.Name == name {
					return tp
				}
			}
		}
	}

	if t, ok := u.types[name]; ok {
		return t
	}
	for s := scope; s != nil; s = s.Parent {
		if t, ok := u.types[u.qualified[s]+"."+name]; ok {
			return t
		}
	}
	if t, ok := u.types["System."+name]; ok {
		return t
	}
	if cands := u.bySimple[name]; len(cands) == 1 {
		return cands[0]
	}

	if t, ok := u.placeholders[name]; ok {
		return t
	}
	t := &symbols.Type{Kind: symbols.TypeKindUnresolved, Name: name}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		t.Namespace, t.Name = name[:i], name[i+1:]
	}
	u.placeholders[name] = t
	return t
}

// splitGeneric splits Name<A, B<C>> into Name and top-level arguments.
func splitGeneric(expr string) (string, []string) {
	i := strings.IndexAny(expr, "<{")
	if i < 0 || len(expr) < i+2 {
		return expr, nil
	}

	inner := expr[i+1 : len(expr)-1]
	var (
		args  []string
		depth int
		start int
	)
	for j, r := range inner {
		switch r {
		case '<', '{':
			depth++
		case '>', '}':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(inner[start:j]))
				start = j + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(inner[start:]))

	return strings.TrimSpace(expr[:i]), args
}

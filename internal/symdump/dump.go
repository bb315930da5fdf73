// Package symdump loads compilation units from YAML symbol table dumps.
//
// A dump describes declarations with their documentation and bodies:
//
//	unit: Sample
//	options:
//	  comment_sense.analyze_internal: "true"
//	types:
//	  - name: StorageException
//	    namespace: Sample.IO
//	    base: System.IO.IOException
//	declarations:
//	  - name: Sample
//	    kind: namespace
//	    members:
//	      - name: Store
//	        kind: type
//	        members:
//	          - name: Load
//	            kind: method
//	            location: Store.cs:12:9
//	            returns: string
//	            params: [{name: key, type: string}]
//	            doc: <summary>Loads a value.</summary>
//	            body:
//	              - try:
//	                  body:
//	                    - throw: StorageException
//	                  catches:
//	                    - type: System.IO.IOException
//	                      filtered: true
//	                      body: [rethrow]
//
// Body nodes are assigned spans in document order, nested nodes lie within their parents.
package symdump

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sirkon/csense/internal/symbols"
)

type dumpFile struct {
	Unit         string            `yaml:"unit"`
	Options      map[string]string `yaml:"options"`
	Types        []typeNode        `yaml:"types"`
	Declarations []declNode        `yaml:"declarations"`
}

type typeNode struct {
	Name       string           `yaml:"name"`
	Namespace  string           `yaml:"namespace"`
	Kind       symbols.TypeKind `yaml:"kind"`
	Base       string           `yaml:"base"`
	Target     string           `yaml:"target"`
	TypeParams []string         `yaml:"type_params"`
	Synthetic  bool             `yaml:"synthetic"`
}

type declNode struct {
	Name      string           `yaml:"name"`
	Kind      symbols.DeclKind `yaml:"kind"`
	Access    symbols.Access   `yaml:"access"`
	Location  string           `yaml:"location"`
	Synthetic bool             `yaml:"synthetic"`
	Doc       string           `yaml:"doc"`

	// Type is the declared type of properties, indexers, fields and events.
	Type    string `yaml:"type"`
	Returns string `yaml:"returns"`

	TypeParams []string    `yaml:"type_params"`
	Params     []paramNode `yaml:"params"`

	// Type declarations.
	TypeKind    symbols.TypeKind `yaml:"type_kind"`
	Base        string           `yaml:"base"`
	PrimaryCtor bool             `yaml:"primary_ctor"`

	// Constructors.
	PrimaryCtorWrapper bool `yaml:"primary_ctor_wrapper"`

	// Properties and indexers.
	Getter bool `yaml:"getter"`
	Setter bool `yaml:"setter"`

	// Accessors.
	Accessor symbols.AccessorKind `yaml:"accessor"`

	Body    []bodyNode `yaml:"body"`
	Members []declNode `yaml:"members"`
}

type paramNode struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Location string `yaml:"location"`
}

// bodyNode is a body construct: a mapping with a single key naming the construct,
// or a bare scalar for constructs without data (rethrow, lambda).
type bodyNode struct {
	kind string

	// typ is the thrown or caught type expression.
	typ      string
	name     string
	member   symbols.DeclKind
	accessor symbols.AccessorKind

	filtered bool
	body     []bodyNode
	catches  []bodyNode
	finally  []bodyNode
}

// Construct names.
const (
	nodeThrow      = "throw"
	nodeRethrow    = "rethrow"
	nodeTry        = "try"
	nodeCatch      = "catch"
	nodeFinally    = "finally"
	nodeLambda     = "lambda"
	nodeLocalFunc  = "local_func"
	nodeNestedType = "nested_type"
	nodeMember     = "member"
	nodeAccessor   = "accessor"
	nodeField      = "field"
)

type scopeNode struct {
	Name     string               `yaml:"name"`
	Kind     symbols.DeclKind     `yaml:"kind"`
	Accessor symbols.AccessorKind `yaml:"accessor"`
	Body     []bodyNode           `yaml:"body"`
}

type tryNode struct {
	Body    []bodyNode `yaml:"body"`
	Catches []struct {
		Type     string     `yaml:"type"`
		Filtered bool       `yaml:"filtered"`
		Body     []bodyNode `yaml:"body"`
	} `yaml:"catches"`
	Finally []bodyNode `yaml:"finally"`
}

func (n *bodyNode) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		switch value.Value {
		case nodeRethrow, nodeLambda:
			n.kind = value.Value
			return nil
		default:
			return fmt.Errorf("line %d: unknown body construct %q", value.Line, value.Value)
		}
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: body construct must be a mapping or a scalar", value.Line)
	}

	if len(value.Content) != 2 {
		return fmt.Errorf("line %d: body construct must have exactly one key", value.Line)
	}
	key, val := value.Content[0].Value, value.Content[1]
	n.kind = key

	switch key {
	case nodeThrow:
		// A null or empty value is a throw the host could not type.
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: throw needs a type name", val.Line)
		}
		if val.Tag != "!!null" {
			n.typ = val.Value
		}

	case nodeRethrow:

	case nodeTry:
		var t tryNode
		if err := val.Decode(&t); err != nil {
			return fmt.Errorf("decode try: %w", err)
		}
		n.body = t.Body
		n.finally = t.Finally
		for _, c := range t.Catches {
			n.catches = append(n.catches, bodyNode{
				kind:     nodeCatch,
				typ:      c.Type,
				filtered: c.Filtered,
				body:     c.Body,
			})
		}

	case nodeLambda:
		if err := val.Decode(&n.body); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}

	case nodeLocalFunc, nodeNestedType, nodeMember, nodeAccessor, nodeField:
		var s scopeNode
		if err := val.Decode(&s); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
		n.name = s.Name
		n.member = s.Kind
		n.accessor = s.Accessor
		n.body = s.Body

	default:
		return fmt.Errorf("line %d: unknown body construct %q", value.Line, key)
	}

	return nil
}

// parseLocation parses file:line:col, file:line or file.
func parseLocation(s string) (symbols.Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return symbols.Location{}, nil
	}

	parts := strings.Split(s, ":")
	var nums []int
	for len(parts) > 1 && len(nums) < 2 {
		v, err := strconv.Atoi(parts[len(parts)-1])
		if err != nil {
			break
		}
		nums = append([]int{v}, nums...)
		parts = parts[:len(parts)-1]
	}

	loc := symbols.Location{File: strings.Join(parts, ":")}
	switch len(nums) {
	case 2:
		loc.Line, loc.Column = nums[0], nums[1]
	case 1:
		loc.Line = nums[0]
	}
	if loc.File == "" {
		return symbols.Location{}, fmt.Errorf("invalid location %q", s)
	}

	return loc, nil
}

// Package fixes computes text edits that resolve findings in documentation markup.
// It does not apply them: hosts own the source text.
package fixes

import (
	"fmt"
	"html"
	"strconv"

	"github.com/sirkon/csense/internal/csrules"
	"github.com/sirkon/csense/internal/docxml"
	"github.com/sirkon/csense/internal/report"
	"github.com/sirkon/csense/internal/symbols"
)

// Order keys of tag families. Sections of a well-formed block go in ascending key order.
const (
	OrderSummary   = 0
	OrderTypeParam = 10
	OrderParam     = 100
	OrderReturns   = 1000
	OrderException = 2000
	OrderOther     = 3000
)

// OrderKey returns the document order key of a section with the given tag and name
// attribute in the documentation of the declaration.
func OrderKey(tag, name string, decl *symbols.Decl) int {
	switch tag {
	case docxml.TagSummary:
		return OrderSummary
	case docxml.TagTypeParam:
		return OrderTypeParam + position(decl.TypeParams(), name)
	case docxml.TagParam:
		return OrderParam + position(decl.Params(), name)
	case docxml.TagReturns, docxml.TagValue:
		return OrderReturns
	case docxml.TagException:
		return OrderException
	default:
		return OrderOther
	}
}

// position returns index of the first element with the name, len(elems) if there is none.
func position(elems []*symbols.Decl, name string) int {
	for i, e := range elems {
		if e.Name == name {
			return i
		}
	}

	return len(elems)
}

// EditKind is a kind of text edit.
type EditKind int

const (
	_ EditKind = iota
	EditInsert
	EditRemove
)

func (k EditKind) String() string {
	switch k {
	case EditInsert:
		return "insert"
	case EditRemove:
		return "remove"
	default:
		return fmt.Sprintf("edit-kind-invalid(%d)", k)
	}
}

// Edit is a single change of raw documentation markup. Offsets are byte offsets in it.
type Edit struct {
	Kind EditKind

	// Offset is the insertion point or the start of removed text.
	Offset int

	// End is the exclusive end of removed text.
	End int

	// Text is the markup to insert.
	Text string
}

// Apply applies the edit to raw markup.
func (e Edit) Apply(raw string) (string, error) {
	switch e.Kind {
	case EditInsert:
		if e.Offset < 0 || e.Offset > len(raw) {
			return "", fmt.Errorf("insertion offset %d is out of range [0,%d]", e.Offset, len(raw))
		}
		return raw[:e.Offset] + e.Text + raw[e.Offset:], nil
	case EditRemove:
		if e.Offset < 0 || e.End > len(raw) || e.End < e.Offset {
			return "", fmt.Errorf("removal range [%d,%d) is out of range [0,%d]", e.Offset, e.End, len(raw))
		}
		return raw[:e.Offset] + raw[e.End:], nil
	default:
		return "", fmt.Errorf("unsupported edit kind %s", e.Kind)
	}
}

// Plan computes an edit fixing the finding. It returns false for findings that have no automated fix
// or carry not enough information for it.
func Plan(f report.Finding, block *docxml.Block, decl *symbols.Decl) (Edit, bool) {
	if block == nil {
		block = &docxml.Block{}
	}
	tag := f.Prop(report.PropTag)
	name := f.Prop(report.PropName)

	switch f.Rule {
	case csrules.MissingDocumentation():
		return Edit{Kind: EditInsert, Text: stub(docxml.TagSummary, "", "")}, true

	case csrules.MissingParam(), csrules.MissingTypeParam():
		if name == "" {
			return Edit{}, false
		}
		return insertion(f, block, decl, stub(tag, "name", name))

	case csrules.MissingReturnValue(), csrules.MissingValue():
		return insertion(f, block, decl, stub(tag, "", ""))

	case csrules.MissingException():
		if name == "" {
			return Edit{}, false
		}
		return insertion(f, block, decl, stub(docxml.TagException, "cref", name))

	case csrules.StrayParam(), csrules.StrayTypeParam():
		for _, s := range block.Tagged(tag) {
			if s.Name == name {
				return Edit{Kind: EditRemove, Offset: s.Offset, End: s.End}, true
			}
		}
		return Edit{}, false

	case csrules.StrayReturnValue(), csrules.StrayValue():
		sections := block.Tagged(tag)
		if len(sections) == 0 {
			return Edit{}, false
		}
		return Edit{Kind: EditRemove, Offset: sections[0].Offset, End: sections[0].End}, true

	default:
		return Edit{}, false
	}
}

// insertion places text before the first direct section having greater order key,
// or after the last section if there is none.
func insertion(f report.Finding, block *docxml.Block, decl *symbols.Decl, text string) (Edit, bool) {
	if f.Prop(report.PropTag) == "" {
		return Edit{}, false
	}

	key, err := strconv.Atoi(f.Prop(report.PropOrder))
	if err != nil {
		key = OrderKey(f.Prop(report.PropTag), f.Prop(report.PropName), decl)
	}

	offset := 0
	for _, s := range block.Sections {
		if OrderKey(s.Tag, s.Name, decl) > key {
			return Edit{Kind: EditInsert, Offset: s.Offset, Text: text}, true
		}
		offset = s.End
	}

	return Edit{Kind: EditInsert, Offset: offset, Text: text}, true
}

func stub(tag, attr, value string) string {
	if attr == "" {
		return "<" + tag + "></" + tag + ">"
	}

	return fmt.Sprintf(`<%s %s="%s"></%s>`, tag, attr, html.EscapeString(value), tag)
}

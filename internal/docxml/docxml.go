// Package docxml parses structured documentation comments into tagged sections.
package docxml

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Tag names with special meaning.
const (
	TagSummary    = "summary"
	TagRemarks    = "remarks"
	TagReturns    = "returns"
	TagValue      = "value"
	TagParam      = "param"
	TagTypeParam  = "typeparam"
	TagException  = "exception"
	TagExample    = "example"
	TagSeeAlso    = "seealso"
	TagPermission = "permission"
	TagInheritDoc = "inheritdoc"
	TagInclude    = "include"
)

var contentTags = map[string]struct{}{
	TagSummary:    {},
	TagRemarks:    {},
	TagReturns:    {},
	TagValue:      {},
	TagParam:      {},
	TagTypeParam:  {},
	TagException:  {},
	TagExample:    {},
	TagSeeAlso:    {},
	TagPermission: {},
}

// IsContentTag checks if the tag is one of content bearing documentation tags.
func IsContentTag(tag string) bool {
	_, ok := contentTags[tag]
	return ok
}

// Block is a parsed documentation comment.
type Block struct {
	// Sections are direct children of the (possibly implicit) wrapper root.
	Sections []*Section

	// Refs are all cref attributes found anywhere in the block, in document order.
	Refs []Ref

	autoValid bool
}

// Section is a single tagged element.
type Section struct {
	Tag  string
	Name string
	Cref string

	// Text is the concatenated character data of the section and all its descendants.
	Text string

	Children []*Section

	// Offset and End delimit the element in the raw markup, End is exclusive.
	Offset int
	End    int

	// Index is the position among direct sections, -1 for nested ones.
	Index int
}

// Ref is a cref occurrence.
type Ref struct {
	Cref   string
	Tag    string
	Offset int

	// InException is set for cref attributes of exception tags.
	InException bool
}

// HasContent checks if the section has nested structure or non-whitespace text.
func (s *Section) HasContent() bool {
	return len(s.Children) > 0 || strings.TrimSpace(s.Text) != ""
}

// HasElements checks if the section has nested elements.
func (s *Section) HasElements() bool {
	return len(s.Children) > 0
}

// NameTrimmed returns the name attribute without surrounding whitespace.
func (s *Section) NameTrimmed() string {
	return strings.TrimSpace(s.Name)
}

// HasValid checks if the block documents anything at all.
func (b *Block) HasValid() bool {
	if b == nil {
		return false
	}
	if b.autoValid {
		return true
	}
	for _, s := range b.Sections {
		if IsContentTag(s.Tag) && s.HasContent() {
			return true
		}
	}

	return false
}

// HasAutoValid checks if the block contains inheritdoc or include anywhere.
func (b *Block) HasAutoValid() bool {
	return b != nil && b.autoValid
}

// Tagged returns direct sections with the given tag in document order.
func (b *Block) Tagged(tag string) []*Section {
	if b == nil {
		return nil
	}

	var res []*Section
	for _, s := range b.Sections {
		if s.Tag == tag {
			res = append(res, s)
		}
	}

	return res
}

// Named returns direct sections with the given tag having non-blank name attribute.
func (b *Block) Named(tag string) []*Section {
	var res []*Section
	for _, s := range b.Tagged(tag) {
		if s.NameTrimmed() != "" {
			res = append(res, s)
		}
	}

	return res
}

// Has checks if the block has a direct section with the given tag.
func (b *Block) Has(tag string) bool {
	return len(b.Tagged(tag)) > 0
}

// HasValidDocumentation is a shortcut for parsing raw markup and checking the result.
func HasValidDocumentation(raw string) bool {
	b, ok := Parse(raw)
	return ok && b.HasValid()
}

const (
	rootOpen  = "<csense-root>"
	rootClose = "</csense-root>"
)

// Parse parses raw documentation markup. Malformed or empty input gives an empty block and false.
func Parse(raw string) (*Block, bool) {
	if strings.TrimSpace(raw) == "" {
		return &Block{}, false
	}

	root, err := parseTree(raw)
	if err != nil {
		return &Block{}, false
	}

	top := root.Children
	if len(top) == 1 && (top[0].Tag == "member" || top[0].Tag == "doc") {
		top = top[0].Children
	}

	b := &Block{Sections: top}
	for i, s := range top {
		s.Index = i
	}
	collect(b, top)

	return b, true
}

func collect(b *Block, sections []*Section) {
	for _, s := range sections {
		switch s.Tag {
		case TagInheritDoc, TagInclude:
			b.autoValid = true
		}
		if s.Cref != "" {
			b.Refs = append(b.Refs, Ref{
				Cref:        s.Cref,
				Tag:         s.Tag,
				Offset:      s.Offset,
				InException: s.Tag == TagException,
			})
		}
		collect(b, s.Children)
	}
}

func parseTree(raw string) (*Section, error) {
	d := xml.NewDecoder(strings.NewReader(rootOpen + raw + rootClose))

	var (
		stack []*Section
		root  *Section
		texts []*strings.Builder
	)
	for {
		offset := int(d.InputOffset()) - len(rootOpen)
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}

		switch v := tok.(type) {
		case xml.StartElement:
			s := &Section{
				Tag:    v.Name.Local,
				Offset: offset,
				Index:  -1,
			}
			for _, a := range v.Attr {
				switch a.Name.Local {
				case "name":
					s.Name = a.Value
				case "cref":
					s.Cref = a.Value
				}
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, s)
			} else {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = s
			}
			stack = append(stack, s)
			texts = append(texts, &strings.Builder{})

		case xml.CharData:
			for _, t := range texts {
				t.Write(v)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced end element")
			}
			s := stack[len(stack)-1]
			s.Text = texts[len(texts)-1].String()
			s.End = int(d.InputOffset()) - len(rootOpen)
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]
		}
	}

	if root == nil || len(stack) > 0 {
		return nil, errors.New("incomplete markup")
	}

	return root, nil
}

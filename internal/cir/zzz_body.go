package cir

import "fmt"

// Span is an inclusive [Start,End] byte range in the source of a member.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d]", s.Start, s.End)
}

// Contains checks if o lies within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && s.End >= o.End
}

// Entry is a node placed at its span.
type Entry struct {
	Node Node
	Span Span
}

// Body holds all CIR nodes collected for a single analyzed declaration, in document order.
// Spans of any two entries are either disjoint or nested.
type Body []Entry

// Sites returns throw and rethrow entries of the body.
func (b Body) Sites() []Entry {
	var res []Entry
	for _, e := range b {
		if _, ok := e.Node.(Site); ok {
			res = append(res, e)
		}
	}

	return res
}

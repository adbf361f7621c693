// Package model defines core data structures for stimref.
package model

// Range is a half-open byte range [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Shift returns the range moved by n bytes.
func (r Range) Shift(n int) Range {
	return Range{Start: r.Start + n, End: r.End + n}
}

// Contains reports whether off falls inside the range.
func (r Range) Contains(off int) bool {
	return off >= r.Start && off < r.End
}

// AttributeToken is one space-separated part of a multi-value attribute.
// Range is relative to the serialized attribute value, where offset 0 is the
// opening quote.
type AttributeToken struct {
	Text  string
	Range Range
}

// ActionDescriptor is the parsed form of one data-action token
// (event->controller#method:options).
type ActionDescriptor struct {
	Event           string
	Controller      string
	ControllerRange Range
	Method          string
	MethodRange     Range
	HasMethod       bool
}

// PropertyKind is the convention a this.<name> access resolved through.
type PropertyKind string

const (
	PropertyNone   PropertyKind = "none"
	PropertyTarget PropertyKind = "target"
	PropertyClass  PropertyKind = "class"
	PropertyOutlet PropertyKind = "outlet"
	PropertyValue  PropertyKind = "value"
)

// PropertyReference is the outcome of resolving a this.<name> access.
type PropertyReference struct {
	RawName       string
	Kind          PropertyKind
	CanonicalName string
	Declaration   Declaration
}

// Resolved reports whether the reference bound to a declaration.
func (p PropertyReference) Resolved() bool {
	return p.Kind != PropertyNone && p.Kind != ""
}

// ControllerDefinition is a derived view over a controller class.
// It is computed per query and never stored.
type ControllerDefinition struct {
	Identifier string
	File       string
	Targets    []string
	ClassNames []string
	Outlets    []string
	Values     map[string]string
	Methods    []string
}

// DeclKind indicates what a Declaration points at.
type DeclKind string

const (
	DeclController DeclKind = "controller"
	DeclMethod     DeclKind = "method"
	DeclTarget     DeclKind = "target"
	DeclClass      DeclKind = "class"
	DeclOutlet     DeclKind = "outlet"
	DeclValue      DeclKind = "value"
)

// Declaration is the resolved end of a reference.
type Declaration struct {
	Kind  DeclKind
	Name  string
	File  string
	Range Range
}

// Reference is an addressable span of text that may resolve to a declaration
// and offers completion candidates.
type Reference interface {
	Range() Range
	Resolve() (Declaration, bool)
	Variants() []string
}

// AttributeDescriptor describes one attribute name valid on a tag.
// A nil Values with Enumerated false means any value is accepted.
type AttributeDescriptor struct {
	Name        string
	Values      []string
	Enumerated  bool
	Declaration *Declaration
}

func (AttributeDescriptor) Fixed() bool          { return false }
func (AttributeDescriptor) Required() bool       { return false }
func (AttributeDescriptor) IDType() bool         { return false }
func (AttributeDescriptor) DefaultValue() string { return "" }

// Position is a 1-based line and column.
type Position struct {
	Line   int
	Column int
}

// PositionAt converts a byte offset in source to a line and column.
// Offsets past the end clamp to the last position.
func PositionAt(source []byte, offset int) Position {
	if offset > len(source) {
		offset = len(source)
	}
	pos := Position{Line: 1, Column: 1}
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			pos.Line++
			pos.Column = 1
			continue
		}
		pos.Column++
	}
	return pos
}

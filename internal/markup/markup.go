// Package markup builds a minimal element tree over HTML or XML templates,
// keeping the raw attribute text and its position in the source.
package markup

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/phobologic/stimref/internal/model"
)

// ErrUnsupported is returned when a document cannot be parsed at all.
var ErrUnsupported = errors.New("unsupported markup")

// Attribute is one attribute of a start tag.
type Attribute struct {
	Name      string
	Value     string
	HasValue  bool
	Quoted    bool
	NameRange model.Range
	// ValueOffset is the absolute source offset of index 0 of the serialized
	// value (the opening quote). For unquoted values it is one byte before
	// the first value character so that value-relative ranges still line up.
	// It is -1 when the position is unknown.
	ValueOffset int
}

// Absolute converts a range relative to the serialized value into an
// absolute source range.
func (a *Attribute) Absolute(r model.Range) (model.Range, bool) {
	if a.ValueOffset < 0 {
		return r, false
	}
	return r.Shift(a.ValueOffset), true
}

// Element is a markup element. It implements model.Tag.
type Element struct {
	Name       string
	Attributes []Attribute
	Parent     *Element
	Children   []*Element
	// Range covers the start tag.
	Range model.Range
}

// TagName returns the element name.
func (e *Element) TagName() string {
	return e.Name
}

// ParentTag returns the parent element, or nil at the root.
func (e *Element) ParentTag() model.Tag {
	if e.Parent == nil {
		return nil
	}
	return e.Parent
}

// Attribute returns the named attribute. HTML names are case-insensitive.
func (e *Element) Attribute(name string) (*Attribute, bool) {
	for i := range e.Attributes {
		if strings.EqualFold(e.Attributes[i].Name, name) {
			return &e.Attributes[i], true
		}
	}
	return nil, false
}

// AttributeValue returns the raw value of the named attribute.
func (e *Element) AttributeValue(name string) (string, bool) {
	a, ok := e.Attribute(name)
	if !ok {
		return "", false
	}
	return a.Value, true
}

// Document is a parsed template.
type Document struct {
	Path     string
	Source   []byte
	Roots    []*Element
	Elements []*Element // document order
}

// ElementAt returns the innermost element whose start tag covers offset.
func (d *Document) ElementAt(offset int) (*Element, bool) {
	var found *Element
	for _, e := range d.Elements {
		if e.Range.Contains(offset) {
			found = e
		}
	}
	return found, found != nil
}

// Position returns the line and column of an absolute offset.
func (d *Document) Position(offset int) model.Position {
	return model.PositionAt(d.Source, offset)
}

func (d *Document) add(e, parent *Element) {
	e.Parent = parent
	if parent == nil {
		d.Roots = append(d.Roots, e)
	} else {
		parent.Children = append(parent.Children, e)
	}
	d.Elements = append(d.Elements, e)
}

// IsXML reports whether a path should be read with the XML parser.
func IsXML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml", ".xhtml":
		return true
	}
	return false
}

// Parse parses source with the parser matching the path's extension.
func Parse(path string, source []byte) (*Document, error) {
	var (
		doc *Document
		err error
	)
	if IsXML(path) {
		doc, err = ParseXML(source)
	} else {
		doc, err = ParseHTML(source)
	}
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

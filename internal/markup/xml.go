package markup

import (
	"bytes"
	"fmt"

	"github.com/beevik/etree"

	"github.com/phobologic/stimref/internal/model"
)

// ParseXML parses a well-formed XML or XHTML template with etree. etree does
// not report source positions, so start tags are located by scanning the
// source forward in document order.
func ParseXML(source []byte) (*Document, error) {
	doc := &Document{Source: source}
	if len(bytes.TrimSpace(source)) == 0 {
		return doc, nil
	}

	x := etree.NewDocument()
	if err := x.ReadFromBytes(source); err != nil {
		return nil, fmt.Errorf("parsing xml: %w: %w", ErrUnsupported, err)
	}
	root := x.Root()
	if root == nil {
		return doc, nil
	}

	s := &tagScanner{src: source}
	walkXML(doc, s, root, nil)
	return doc, nil
}

func walkXML(doc *Document, s *tagScanner, x *etree.Element, parent *Element) {
	el := &Element{Name: x.FullTag(), Range: model.Range{Start: -1, End: -1}}

	raw, ok := s.next(x.FullTag())
	if ok {
		el.Range = raw.rng
	}
	for _, a := range x.Attr {
		attr := Attribute{Name: a.FullKey(), Value: a.Value, HasValue: true, Quoted: true, ValueOffset: -1}
		if ok {
			if r, found := raw.attr(a.FullKey()); found {
				attr = r
			}
		}
		el.Attributes = append(el.Attributes, attr)
	}

	doc.add(el, parent)
	for _, child := range x.ChildElements() {
		walkXML(doc, s, child, el)
	}
}

// tagScanner finds start tags in document order.
type tagScanner struct {
	src    []byte
	cursor int
}

type rawTag struct {
	rng   model.Range
	attrs []Attribute
}

func (t rawTag) attr(name string) (Attribute, bool) {
	for _, a := range t.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// next locates the next start tag named name, skipping comments, CDATA,
// processing instructions, declarations and end tags.
func (s *tagScanner) next(name string) (rawTag, bool) {
	src := s.src
	for i := s.cursor; i < len(src); i++ {
		if src[i] != '<' {
			continue
		}
		rest := src[i:]
		switch {
		case bytes.HasPrefix(rest, []byte("<!--")):
			i = skipPast(src, i, "-->")
			continue
		case bytes.HasPrefix(rest, []byte("<![CDATA[")):
			i = skipPast(src, i, "]]>")
			continue
		case bytes.HasPrefix(rest, []byte("<?")):
			i = skipPast(src, i, "?>")
			continue
		case bytes.HasPrefix(rest, []byte("<!")), bytes.HasPrefix(rest, []byte("</")):
			i = skipPast(src, i, ">")
			continue
		}

		nameEnd := i + 1 + len(name)
		if nameEnd > len(src) || string(src[i+1:nameEnd]) != name {
			continue
		}
		if nameEnd < len(src) && !isTagBoundary(src[nameEnd]) {
			continue
		}

		attrs, end := scanAttributes(src, nameEnd)
		s.cursor = end
		return rawTag{rng: model.Range{Start: i, End: end}, attrs: attrs}, true
	}
	return rawTag{}, false
}

func skipPast(src []byte, from int, marker string) int {
	j := bytes.Index(src[from:], []byte(marker))
	if j < 0 {
		return len(src)
	}
	return from + j + len(marker) - 1
}

func isTagBoundary(b byte) bool {
	return isSpace(b) || b == '>' || b == '/'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// scanAttributes reads name="value" pairs up to the closing '>' and returns
// them with the offset just past the tag.
func scanAttributes(src []byte, i int) ([]Attribute, int) {
	var attrs []Attribute
	for i < len(src) {
		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i >= len(src) {
			break
		}
		if src[i] == '>' {
			return attrs, i + 1
		}
		if src[i] == '/' {
			i++
			continue
		}

		nameStart := i
		for i < len(src) && !isSpace(src[i]) && src[i] != '=' && src[i] != '>' && src[i] != '/' {
			i++
		}
		attr := Attribute{
			Name:        string(src[nameStart:i]),
			NameRange:   model.Range{Start: nameStart, End: i},
			ValueOffset: -1,
		}
		for i < len(src) && isSpace(src[i]) {
			i++
		}
		if i < len(src) && src[i] == '=' {
			i++
			for i < len(src) && isSpace(src[i]) {
				i++
			}
			if i < len(src) && (src[i] == '"' || src[i] == '\'') {
				quote := src[i]
				valueStart := i
				j := bytes.IndexByte(src[i+1:], quote)
				if j < 0 {
					return attrs, len(src)
				}
				attr.HasValue = true
				attr.Quoted = true
				attr.ValueOffset = valueStart
				attr.Value = string(src[i+1 : i+1+j])
				i = i + 1 + j + 1
			}
		}
		attrs = append(attrs, attr)
	}
	return attrs, len(src)
}

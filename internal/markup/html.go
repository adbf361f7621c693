package markup

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/stimref/internal/lang"
	"github.com/phobologic/stimref/internal/model"
)

// HTML node types.
//
// Reference: https://github.com/tree-sitter/tree-sitter-html
const (
	htmlNodeElement              = "element"
	htmlNodeScriptElement        = "script_element"
	htmlNodeStyleElement         = "style_element"
	htmlNodeStartTag             = "start_tag"
	htmlNodeSelfClosingTag       = "self_closing_tag"
	htmlNodeTagName              = "tag_name"
	htmlNodeAttribute            = "attribute"
	htmlNodeAttributeName        = "attribute_name"
	htmlNodeAttributeValue       = "attribute_value"
	htmlNodeQuotedAttributeValue = "quoted_attribute_value"
)

// ParseHTML parses an HTML (or HTML-like template) document with tree-sitter.
func ParseHTML(source []byte) (*Document, error) {
	doc := &Document{Source: source}
	if len(source) == 0 {
		return doc, nil
	}

	l := lang.Languages["html"]
	tree, err := l.NewParser().ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}
	defer tree.Close()

	walkHTML(doc, tree.RootNode(), nil)
	return doc, nil
}

func walkHTML(doc *Document, n *sitter.Node, parent *Element) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case htmlNodeElement, htmlNodeScriptElement, htmlNodeStyleElement:
			el := htmlElement(doc.Source, child)
			if el == nil {
				walkHTML(doc, child, parent)
				continue
			}
			doc.add(el, parent)
			walkHTML(doc, child, el)
		case htmlNodeStartTag, htmlNodeSelfClosingTag:
			// handled by htmlElement
		default:
			walkHTML(doc, child, parent)
		}
	}
}

// htmlElement builds an Element from the start tag of an element node.
func htmlElement(source []byte, n *sitter.Node) *Element {
	var tag *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == htmlNodeStartTag || child.Type() == htmlNodeSelfClosingTag {
			tag = child
			break
		}
	}
	if tag == nil {
		return nil
	}

	start, end := lang.NodeRange(tag)
	el := &Element{Range: model.Range{Start: start, End: end}}
	for i := 0; i < int(tag.NamedChildCount()); i++ {
		child := tag.NamedChild(i)
		switch child.Type() {
		case htmlNodeTagName:
			el.Name = lang.NodeText(child, source)
		case htmlNodeAttribute:
			el.Attributes = append(el.Attributes, htmlAttribute(source, child))
		}
	}
	return el
}

func htmlAttribute(source []byte, n *sitter.Node) Attribute {
	attr := Attribute{ValueOffset: -1}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		start, end := lang.NodeRange(child)
		switch child.Type() {
		case htmlNodeAttributeName:
			attr.Name = lang.NodeText(child, source)
			attr.NameRange = model.Range{Start: start, End: end}
		case htmlNodeQuotedAttributeValue:
			attr.HasValue = true
			attr.Quoted = true
			attr.ValueOffset = start
			// The quotes are anonymous children; an empty value has no
			// attribute_value node at all.
			if end-start >= 2 {
				attr.Value = string(source[start+1 : end-1])
			}
		case htmlNodeAttributeValue:
			attr.HasValue = true
			attr.ValueOffset = start - 1
			attr.Value = lang.NodeText(child, source)
		}
	}
	return attr
}

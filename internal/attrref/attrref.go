// Package attrref turns data-controller and data-action attribute values into
// references with exact offsets.
//
// Every range produced here is relative to the serialized attribute value:
// offset 0 is the opening quote, so the first character of the raw value is
// at offset 1.
package attrref

import (
	"strings"

	"github.com/phobologic/stimref/internal/controller"
	"github.com/phobologic/stimref/internal/model"
)

// Attribute names with reference semantics.
const (
	ControllerAttribute = "data-controller"
	ActionAttribute     = "data-action"
)

// Tokenize splits a raw attribute value on single spaces. Empty segments
// produce no token but still advance the offset.
func Tokenize(value string) []model.AttributeToken {
	var tokens []model.AttributeToken
	offset := 1
	for _, segment := range strings.Split(value, " ") {
		if segment != "" {
			tokens = append(tokens, model.AttributeToken{
				Text:  segment,
				Range: model.Range{Start: offset, End: offset + len(segment)},
			})
		}
		offset += len(segment) + 1
	}
	return tokens
}

// ParseAction splits one data-action token into its controller and method
// parts. An event name before "->" is skipped. "#" and "->" at the very
// start of the token are not treated as delimiters.
func ParseAction(token model.AttributeToken) model.ActionDescriptor {
	text := token.Text
	start := 0
	var event string
	if i := strings.Index(text, "->"); i > 0 {
		event = text[:i]
		start = i + 2
	}

	hash := -1
	if i := strings.IndexByte(text[start:], '#'); i >= 0 && start+i > 0 {
		hash = start + i
	}

	ctrlEnd := len(text)
	if hash >= 0 {
		ctrlEnd = hash
	}
	d := model.ActionDescriptor{
		Event:           event,
		Controller:      text[start:ctrlEnd],
		ControllerRange: model.Range{Start: start, End: ctrlEnd}.Shift(token.Range.Start),
	}
	if hash < 0 {
		return d
	}

	methodStart := hash + 1
	methodEnd := len(text)
	if i := strings.IndexByte(text[methodStart:], ':'); i >= 0 {
		methodEnd = methodStart + i
	}
	d.HasMethod = true
	d.Method = text[methodStart:methodEnd]
	d.MethodRange = model.Range{Start: methodStart, End: methodEnd}.Shift(token.Range.Start)
	return d
}

// ControllerReference names a controller by identifier.
type ControllerReference struct {
	Identifier string
	rng        model.Range
	resolver   *controller.Resolver
}

// NewControllerReference creates a reference to id over r.
func NewControllerReference(id string, rng model.Range, resolver *controller.Resolver) *ControllerReference {
	return &ControllerReference{Identifier: id, rng: rng, resolver: resolver}
}

func (c *ControllerReference) Range() model.Range { return c.rng }

// Class returns the controller class the identifier resolves to.
func (c *ControllerReference) Class() (*model.Class, bool) {
	return c.resolver.Resolve(c.Identifier)
}

func (c *ControllerReference) Resolve() (model.Declaration, bool) {
	cls, ok := c.Class()
	if !ok {
		return model.Declaration{}, false
	}
	decl := cls.Declaration()
	if decl.Name == "" {
		decl.Name = c.Identifier
	}
	return decl, true
}

// Variants lists every controller identifier in the project.
func (c *ControllerReference) Variants() []string {
	return c.resolver.Identifiers()
}

// MethodReference names an action method on the controller of its parent
// reference.
type MethodReference struct {
	Name   string
	Parent *ControllerReference
	rng    model.Range
}

func (m *MethodReference) Range() model.Range { return m.rng }

func (m *MethodReference) Resolve() (model.Declaration, bool) {
	cls, ok := m.Parent.Class()
	if !ok {
		return model.Declaration{}, false
	}
	for _, method := range cls.Methods {
		if method.Name == m.Name && !method.Static {
			return model.Declaration{Kind: model.DeclMethod, Name: method.Name, File: cls.File, Range: method.Range}, true
		}
	}
	return model.Declaration{}, false
}

// Variants lists every method declared on the parent's class.
func (m *MethodReference) Variants() []string {
	cls, ok := m.Parent.Class()
	if !ok {
		return nil
	}
	names := make([]string, 0, len(cls.Methods))
	for _, method := range cls.Methods {
		names = append(names, method.Name)
	}
	return names
}

// ControllerReferences returns one reference per data-controller token.
func ControllerReferences(value string, resolver *controller.Resolver) []model.Reference {
	var refs []model.Reference
	for _, tok := range Tokenize(value) {
		refs = append(refs, NewControllerReference(tok.Text, tok.Range, resolver))
	}
	return refs
}

// ActionReferences returns, per data-action token, a controller reference
// followed by a method reference when the token names a method.
func ActionReferences(value string, resolver *controller.Resolver) []model.Reference {
	var refs []model.Reference
	for _, tok := range Tokenize(value) {
		d := ParseAction(tok)
		ctrl := NewControllerReference(d.Controller, d.ControllerRange, resolver)
		refs = append(refs, ctrl)
		if d.HasMethod {
			refs = append(refs, &MethodReference{Name: d.Method, Parent: ctrl, rng: d.MethodRange})
		}
	}
	return refs
}

// ReferencesFor dispatches on the attribute name. Attributes without
// reference semantics yield nil.
func ReferencesFor(name, value string, resolver *controller.Resolver) []model.Reference {
	switch strings.ToLower(name) {
	case ControllerAttribute:
		return ControllerReferences(value, resolver)
	case ActionAttribute:
		return ActionReferences(value, resolver)
	}
	return nil
}

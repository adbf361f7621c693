// Package descriptor lists the data-* attributes that are valid on a markup
// tag given the controllers declared on it and its ancestors.
package descriptor

import (
	"strings"

	"github.com/phobologic/stimref/internal/attrref"
	"github.com/phobologic/stimref/internal/controller"
	"github.com/phobologic/stimref/internal/model"
)

// Generator builds attribute descriptors from resolved controllers.
type Generator struct {
	resolver *controller.Resolver
}

// New creates a Generator.
func New(resolver *controller.Resolver) *Generator {
	return &Generator{resolver: resolver}
}

// scope is a controller declared on a tag.
type scope struct {
	id    string
	class *model.Class
	// own is true when the controller is declared on the queried tag.
	own bool
}

// Descriptors returns every attribute valid on tag. data-controller and
// data-action are always present. Targets, values and outlets come from
// controllers on the tag or any ancestor; classes only from the tag itself.
func (g *Generator) Descriptors(tag model.Tag) []model.AttributeDescriptor {
	out := []model.AttributeDescriptor{
		{Name: attrref.ControllerAttribute},
		{Name: attrref.ActionAttribute},
	}
	for _, s := range g.scopes(tag) {
		out = append(out, scopeDescriptors(s)...)
	}
	return out
}

// Descriptor returns the descriptor named name, if tag accepts it.
func (g *Generator) Descriptor(name string, tag model.Tag) (model.AttributeDescriptor, bool) {
	for _, d := range g.Descriptors(tag) {
		if d.Name == name {
			return d, true
		}
	}
	return model.AttributeDescriptor{}, false
}

func (g *Generator) scopes(tag model.Tag) []scope {
	var scopes []scope
	for cur := tag; cur != nil; cur = cur.ParentTag() {
		value, ok := cur.AttributeValue(attrref.ControllerAttribute)
		if !ok {
			continue
		}
		for _, tok := range attrref.Tokenize(value) {
			c, ok := g.resolver.Resolve(tok.Text)
			if !ok {
				continue
			}
			scopes = append(scopes, scope{id: tok.Text, class: c, own: cur == tag})
		}
	}
	return scopes
}

func scopeDescriptors(s scope) []model.AttributeDescriptor {
	var out []model.AttributeDescriptor
	c := s.class

	if f, ok := c.StaticField("targets"); ok {
		out = append(out, model.AttributeDescriptor{
			Name:        attributeName(s.id, "target"),
			Values:      f.LiteralValues(),
			Enumerated:  true,
			Declaration: ptr(c.Declaration()),
		})
	}

	if f, ok := c.StaticField("values"); ok && f.Init.Kind == model.InitObject {
		for _, p := range f.Init.Properties {
			out = append(out, model.AttributeDescriptor{
				Name:        attributeName(s.id, p.Key, "value"),
				Declaration: &model.Declaration{Kind: model.DeclValue, Name: p.Key, File: c.File, Range: p.Range},
			})
		}
	}

	if f, ok := c.StaticField("outlets"); ok {
		for _, lit := range f.Init.Elements {
			out = append(out, model.AttributeDescriptor{
				Name:        attributeName(s.id, lit.Value, "outlet"),
				Declaration: &model.Declaration{Kind: model.DeclOutlet, Name: lit.Value, File: c.File, Range: lit.Range},
			})
		}
	}

	if !s.own {
		return out
	}
	if f, ok := c.StaticField("classes"); ok {
		for _, lit := range f.Init.Elements {
			out = append(out, model.AttributeDescriptor{
				Name:        attributeName(s.id, lit.Value, "class"),
				Declaration: &model.Declaration{Kind: model.DeclClass, Name: lit.Value, File: c.File, Range: lit.Range},
			})
		}
	}
	return out
}

func attributeName(parts ...string) string {
	return "data-" + strings.Join(parts, "-")
}

func ptr[T any](v T) *T {
	return &v
}

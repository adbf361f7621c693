// Package property resolves `this.<name>` accesses in a controller to the
// target, class, outlet or value declaration they refer to.
package property

import (
	"strings"

	"github.com/phobologic/stimref/internal/jsast"
	"github.com/phobologic/stimref/internal/model"
	"github.com/phobologic/stimref/internal/naming"
)

const presencePrefix = "has"

// listKind is a convention backed by a static array of string literals.
type listKind struct {
	kind   model.PropertyKind
	decl   model.DeclKind
	suffix string
	field  string
	// camel converts the accessed name to camel case before matching, and
	// lets kebab-case literals match their camel-case form.
	camel bool
}

var listKinds = []listKind{
	{kind: model.PropertyTarget, decl: model.DeclTarget, suffix: "Target", field: "targets"},
	{kind: model.PropertyClass, decl: model.DeclClass, suffix: "Class", field: "classes"},
	{kind: model.PropertyOutlet, decl: model.DeclOutlet, suffix: "Outlet", field: "outlets", camel: true},
}

const (
	valueSuffix = "Value"
	valuesField = "values"
)

// Resolve binds name to a declaration on c. Targets, classes, outlets and
// values are tried in that order and the first match wins. An unresolved
// name yields Kind PropertyNone.
func Resolve(c *model.Class, name string) model.PropertyReference {
	ref := model.PropertyReference{RawName: name, Kind: model.PropertyNone}
	if c == nil {
		return ref
	}

	for _, k := range listKinds {
		accessed := name
		if k.camel {
			accessed = naming.CamelCase(name)
		}
		canonical, ok := canonicalName(accessed, k.suffix)
		if !ok {
			continue
		}
		field, ok := c.StaticField(k.field)
		if !ok || field.Init.Kind != model.InitArray {
			continue
		}
		for _, lit := range field.Init.Elements {
			if lit.Value != canonical && !(k.camel && naming.CamelCase(lit.Value) == canonical) {
				continue
			}
			ref.Kind = k.kind
			ref.CanonicalName = canonical
			ref.Declaration = model.Declaration{Kind: k.decl, Name: lit.Value, File: c.File, Range: lit.Range}
			return ref
		}
	}

	canonical, ok := canonicalName(name, valueSuffix)
	if !ok {
		return ref
	}
	field, ok := c.StaticField(valuesField)
	if !ok || field.Init.Kind != model.InitObject {
		return ref
	}
	for _, p := range field.Init.Properties {
		if p.Key == canonical {
			ref.Kind = model.PropertyValue
			ref.CanonicalName = canonical
			ref.Declaration = model.Declaration{Kind: model.DeclValue, Name: p.Key, File: c.File, Range: p.Range}
			return ref
		}
	}
	return ref
}

// canonicalName strips suffix or its naive plural, then a leading "has".
func canonicalName(name, suffix string) (string, bool) {
	stem, ok := strings.CutSuffix(name, suffix+"s")
	if !ok {
		stem, ok = strings.CutSuffix(name, suffix)
	}
	if !ok {
		return "", false
	}
	if rest, found := strings.CutPrefix(stem, presencePrefix); found {
		return naming.Decapitalize(rest), true
	}
	return stem, true
}

// HasConventionSuffix reports whether name looks like a convention accessor,
// whether or not it resolves.
func HasConventionSuffix(name string) bool {
	for _, k := range listKinds {
		if _, ok := canonicalName(name, k.suffix); ok {
			return true
		}
	}
	_, ok := canonicalName(name, valueSuffix)
	return ok
}

// Variants returns the accessor names c supports, for completion. The
// plural and has-prefixed forms are resolvable but not suggested.
func Variants(c *model.Class) []string {
	if c == nil {
		return nil
	}
	var out []string
	for _, k := range listKinds {
		field, ok := c.StaticField(k.field)
		if !ok {
			continue
		}
		for _, v := range field.LiteralValues() {
			if k.camel {
				v = naming.CamelCase(v)
			}
			out = append(out, v+k.suffix)
		}
	}
	if field, ok := c.StaticField(valuesField); ok && field.Init.Kind == model.InitObject {
		for _, p := range field.Init.Properties {
			out = append(out, p.Key+valueSuffix)
		}
	}
	return out
}

// conventionFields are read by the Stimulus runtime, never by user code.
var conventionFields = map[string]struct{}{
	"targets": {},
	"values":  {},
	"classes": {},
	"outlets": {},
}

// ImplicitlyUsed reports whether the member named member of c is used by the
// framework rather than by code: the static convention fields.
func ImplicitlyUsed(c *model.Class, member string) bool {
	if _, ok := conventionFields[member]; !ok {
		return false
	}
	_, ok := c.StaticField(member)
	return ok
}

// ImplicitController reports whether a class is instantiated by the framework:
// the default export of a file that extends another class.
func ImplicitController(f *jsast.File, c *model.Class) bool {
	return f != nil && c != nil && f.DefaultExport == c && c.Extends != ""
}

// Reference is a `this.<name>` access seen as a reference.
type Reference struct {
	access jsast.ThisAccess
}

// NewReference adapts a parsed access. Accesses outside a class never resolve.
func NewReference(access jsast.ThisAccess) *Reference {
	return &Reference{access: access}
}

func (r *Reference) Range() model.Range { return r.access.Range }

// Property returns the full resolution result.
func (r *Reference) Property() model.PropertyReference {
	return Resolve(r.access.Class, r.access.Name)
}

func (r *Reference) Resolve() (model.Declaration, bool) {
	p := r.Property()
	if !p.Resolved() {
		return model.Declaration{}, false
	}
	return p.Declaration, true
}

func (r *Reference) Variants() []string {
	return Variants(r.access.Class)
}

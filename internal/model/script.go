package model

// InitKind classifies a field initializer.
type InitKind string

const (
	InitNone   InitKind = "none"
	InitArray  InitKind = "array"
	InitObject InitKind = "object"
	InitOther  InitKind = "other"
)

// Literal is a string literal inside an array initializer.
type Literal struct {
	Value string
	Range Range
}

// Property is a key of an object-literal initializer. Value is the source
// text of the property value (for `count: Number` that is "Number").
type Property struct {
	Key   string
	Value string
	Range Range
}

// Initializer is the right-hand side of a class field.
type Initializer struct {
	Kind       InitKind
	Elements   []Literal
	Properties []Property
}

// Field is a class field declaration.
type Field struct {
	Name   string
	Static bool
	Range  Range
	Init   Initializer
}

// Method is a class method declaration.
type Method struct {
	Name   string
	Static bool
	Range  Range
}

// Class is the script-side view of a class declaration or expression.
// Name is empty for anonymous classes (export default class extends ...).
type Class struct {
	Name    string
	File    string
	Range   Range
	Extends string
	Fields  []Field
	Methods []Method
}

// Field returns the field with the given name, if declared.
func (c *Class) Field(name string) (*Field, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i], true
		}
	}
	return nil, false
}

// StaticField returns the field only when it is declared static.
func (c *Class) StaticField(name string) (*Field, bool) {
	f, ok := c.Field(name)
	if !ok || !f.Static {
		return nil, false
	}
	return f, true
}

// Method returns the first method with the given name.
func (c *Class) Method(name string) (*Method, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Methods {
		if c.Methods[i].Name == name {
			return &c.Methods[i], true
		}
	}
	return nil, false
}

// LiteralValues returns the string literal values of an array initializer.
func (f *Field) LiteralValues() []string {
	if f == nil || f.Init.Kind != InitArray {
		return nil
	}
	values := make([]string, 0, len(f.Init.Elements))
	for _, e := range f.Init.Elements {
		values = append(values, e.Value)
	}
	return values
}

// Declaration returns a declaration pointing at the class itself.
func (c *Class) Declaration() Declaration {
	return Declaration{Kind: DeclController, Name: c.Name, File: c.File, Range: c.Range}
}

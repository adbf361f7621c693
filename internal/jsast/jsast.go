// Package jsast extracts the class structure Stimulus conventions rely on from
// JavaScript and TypeScript sources using tree-sitter.
package jsast

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/stimref/internal/lang"
	"github.com/phobologic/stimref/internal/model"
)

var (
	// ErrFileTooLarge is returned for sources above the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrInvalidContent is returned for sources that are not valid UTF-8.
	ErrInvalidContent = errors.New("invalid UTF-8 content")
	// ErrUnsupported is returned for paths without a script grammar.
	ErrUnsupported = errors.New("unsupported script language")
)

const defaultMaxFileSize = 1_000_000 // 1 MB

// ThisAccess is a `this.<name>` property access.
// Class is nil when the access is not lexically owned by a class member.
type ThisAccess struct {
	Name  string
	Range model.Range
	Class *model.Class
}

// File is the parsed view of one script file.
type File struct {
	Path          string
	Language      string
	Classes       []*model.Class
	DefaultExport *model.Class
	ThisAccesses  []ThisAccess
}

// AccessAt returns the this-access whose name covers offset.
func (f *File) AccessAt(offset int) (ThisAccess, bool) {
	for _, a := range f.ThisAccesses {
		if a.Range.Contains(offset) {
			return a, true
		}
	}
	return ThisAccess{}, false
}

// Options configures Parser behavior.
type Options struct {
	// MaxFileSize is the maximum source size in bytes. Default: 1 MB.
	MaxFileSize int
}

// Option is a functional option for configuring Parser.
type Option func(*Options)

// WithMaxFileSize sets the maximum file size for parsing.
func WithMaxFileSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.MaxFileSize = size
		}
	}
}

// Parser parses controller scripts. It holds no tree-sitter state and is
// safe for concurrent use; each Parse call creates its own sitter.Parser.
type Parser struct {
	options Options
}

// NewParser creates a Parser with the given options.
func NewParser(opts ...Option) *Parser {
	options := Options{MaxFileSize: defaultMaxFileSize}
	for _, opt := range opts {
		opt(&options)
	}
	return &Parser{options: options}
}

// Parse is shorthand for NewParser().Parse with a background context.
func Parse(source []byte, path string) (*File, error) {
	return NewParser().Parse(context.Background(), source, path)
}

// Parse extracts classes, the default export, and this-accesses from source.
// The grammar is picked from the path's extension.
func (p *Parser) Parse(ctx context.Context, source []byte, path string) (*File, error) {
	l, ok := lang.ForPath(path)
	if !ok || l.Kind != lang.Script {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
	if len(source) > p.options.MaxFileSize {
		return nil, fmt.Errorf("%s: %w", path, ErrFileTooLarge)
	}
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidContent)
	}

	file := &File{Path: path, Language: l.Name}
	if len(source) == 0 {
		return file, nil
	}

	tree, err := l.NewParser().ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer tree.Close()

	e := &extractor{source: source, path: path, byNode: make(map[nodeKey]*model.Class)}
	root := tree.RootNode()
	e.collectClasses(root)
	file.Classes = e.classes
	file.DefaultExport = e.defaultExport(root)

	q, err := l.GetThisQuery()
	if err != nil {
		return nil, err
	}
	file.ThisAccesses = e.thisAccesses(q, root)

	return file, nil
}

type nodeKey struct {
	start, end uint32
}

func keyOf(n *sitter.Node) nodeKey {
	return nodeKey{n.StartByte(), n.EndByte()}
}

type extractor struct {
	source  []byte
	path    string
	classes []*model.Class
	byNode  map[nodeKey]*model.Class
}

func (e *extractor) text(n *sitter.Node) string {
	return lang.NodeText(n, e.source)
}

func (e *extractor) rangeOf(n *sitter.Node) model.Range {
	start, end := lang.NodeRange(n)
	return model.Range{Start: start, End: end}
}

// collectClasses walks the whole tree so nested and expression classes are
// known when this-accesses are attributed.
func (e *extractor) collectClasses(n *sitter.Node) {
	if isClassNode(n) {
		c := e.extractClass(n)
		e.classes = append(e.classes, c)
		e.byNode[keyOf(n)] = c
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		e.collectClasses(n.NamedChild(i))
	}
}

func isClassNode(n *sitter.Node) bool {
	if !n.IsNamed() {
		return false
	}
	_, ok := classNodes[n.Type()]
	return ok
}

func (e *extractor) extractClass(n *sitter.Node) *model.Class {
	c := &model.Class{File: e.path, Range: e.rangeOf(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		c.Name = e.text(name)
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case nodeClassHeritage:
			c.Extends = e.heritage(child)
		case nodeClassBody:
			e.extractBody(child, c)
		}
	}
	return c
}

// heritage returns the extended expression: `extends Controller` in
// javascript, an extends_clause in typescript.
func (e *extractor) heritage(n *sitter.Node) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == nodeExtendsClause {
			if v := child.ChildByFieldName("value"); v != nil {
				return e.text(v)
			}
			if child.NamedChildCount() > 0 {
				return e.text(child.NamedChild(0))
			}
			return ""
		}
		if child.Type() != "implements_clause" {
			return e.text(child)
		}
	}
	return ""
}

func (e *extractor) extractBody(body *sitter.Node, c *model.Class) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case nodeMethodDefinition:
			name := member.ChildByFieldName("name")
			if name == nil {
				continue
			}
			c.Methods = append(c.Methods, model.Method{
				Name:   e.propertyName(name),
				Static: hasStatic(member),
				Range:  e.rangeOf(name),
			})
		case nodeFieldDefinition, nodePublicFieldDefinition:
			name := member.ChildByFieldName("property")
			if name == nil {
				name = member.ChildByFieldName("name")
			}
			if name == nil {
				continue
			}
			c.Fields = append(c.Fields, model.Field{
				Name:   e.propertyName(name),
				Static: hasStatic(member),
				Range:  e.rangeOf(name),
				Init:   e.initializer(member.ChildByFieldName("value")),
			})
		}
	}
}

func hasStatic(member *sitter.Node) bool {
	for i := 0; i < int(member.ChildCount()); i++ {
		if member.Child(i).Type() == nodeStatic {
			return true
		}
	}
	return false
}

// propertyName returns a member or key name with string quotes removed.
func (e *extractor) propertyName(n *sitter.Node) string {
	if n.Type() == nodeString {
		return unquote(e.text(n))
	}
	return e.text(n)
}

func (e *extractor) initializer(n *sitter.Node) model.Initializer {
	if n == nil {
		return model.Initializer{Kind: model.InitNone}
	}
	switch n.Type() {
	case nodeArray:
		init := model.Initializer{Kind: model.InitArray}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			el := n.NamedChild(i)
			if el.Type() != nodeString {
				continue
			}
			init.Elements = append(init.Elements, model.Literal{
				Value: unquote(e.text(el)),
				Range: e.rangeOf(el),
			})
		}
		return init
	case nodeObject:
		init := model.Initializer{Kind: model.InitObject}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if prop, ok := e.objectProperty(n.NamedChild(i)); ok {
				init.Properties = append(init.Properties, prop)
			}
		}
		return init
	default:
		return model.Initializer{Kind: model.InitOther}
	}
}

func (e *extractor) objectProperty(n *sitter.Node) (model.Property, bool) {
	switch n.Type() {
	case nodePair:
		key := n.ChildByFieldName("key")
		if key == nil {
			return model.Property{}, false
		}
		switch key.Type() {
		case nodePropertyIdentifier, nodeString, nodeNumber, nodeIdentifier:
		default:
			return model.Property{}, false
		}
		prop := model.Property{Key: e.propertyName(key), Range: e.rangeOf(key)}
		if v := n.ChildByFieldName("value"); v != nil {
			prop.Value = e.text(v)
		}
		return prop, true
	case nodeShorthandPropertyIdent:
		name := e.text(n)
		return model.Property{Key: name, Value: name, Range: e.rangeOf(n)}, true
	case nodeMethodDefinition:
		name := n.ChildByFieldName("name")
		if name == nil {
			return model.Property{}, false
		}
		return model.Property{Key: e.propertyName(name), Range: e.rangeOf(name)}, true
	}
	return model.Property{}, false
}

// defaultExport finds the class a module exports as default, either inline
// (`export default class ...`) or by name (`export default Foo`).
func (e *extractor) defaultExport(root *sitter.Node) *model.Class {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != nodeExportStatement || !hasDefault(stmt) {
			continue
		}
		target := stmt.ChildByFieldName("declaration")
		if target == nil {
			target = stmt.ChildByFieldName("value")
		}
		if target == nil {
			return nil
		}
		if isClassNode(target) {
			return e.byNode[keyOf(target)]
		}
		if target.Type() == nodeIdentifier {
			return e.topLevelClass(root, e.text(target))
		}
		return nil
	}
	return nil
}

func hasDefault(stmt *sitter.Node) bool {
	for i := 0; i < int(stmt.ChildCount()); i++ {
		if stmt.Child(i).Type() == nodeDefault {
			return true
		}
	}
	return false
}

// topLevelClass looks up a class declared at module level by name, either as
// a declaration or as `const Name = class ...`.
func (e *extractor) topLevelClass(root *sitter.Node, name string) *model.Class {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() == nodeExportStatement {
			if d := stmt.ChildByFieldName("declaration"); d != nil {
				stmt = d
			}
		}
		if isClassNode(stmt) {
			if c := e.byNode[keyOf(stmt)]; c != nil && c.Name == name {
				return c
			}
			continue
		}
		if stmt.Type() != nodeLexicalDeclaration {
			continue
		}
		for j := 0; j < int(stmt.NamedChildCount()); j++ {
			decl := stmt.NamedChild(j)
			if decl.Type() != nodeVariableDeclarator {
				continue
			}
			n, v := decl.ChildByFieldName("name"), decl.ChildByFieldName("value")
			if n != nil && v != nil && e.text(n) == name && isClassNode(v) {
				return e.byNode[keyOf(v)]
			}
		}
	}
	return nil
}

func (e *extractor) thisAccesses(q *sitter.Query, root *sitter.Node) []ThisAccess {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	var accesses []ThisAccess
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, e.source)

		var nameNode, accessNode *sitter.Node
		for _, c := range match.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "name":
				nameNode = c.Node
			case "access":
				accessNode = c.Node
			}
		}
		if nameNode == nil || accessNode == nil {
			continue
		}
		accesses = append(accesses, ThisAccess{
			Name:  e.text(nameNode),
			Range: e.rangeOf(nameNode),
			Class: e.owningClass(accessNode),
		})
	}
	return accesses
}

// owningClass walks outward through execution scopes, skipping arrow
// functions, until a class member is reached. A plain function in between
// rebinds `this`, so the access has no owning class.
func (e *extractor) owningClass(n *sitter.Node) *model.Class {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		t := cur.Type()
		if _, ok := thisBindingScopes[t]; ok {
			return nil
		}
		if _, ok := classMemberScopes[t]; ok {
			body := cur.Parent()
			if body == nil || body.Type() != nodeClassBody {
				// object-literal method
				return nil
			}
			if owner := body.Parent(); owner != nil {
				return e.byNode[keyOf(owner)]
			}
			return nil
		}
		if t == nodeProgram {
			return nil
		}
	}
	return nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && strings.IndexByte("'\"`", first) >= 0 {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Package lang provides a language registry mapping file extensions to
// tree-sitter languages and their embedded query files.
package lang

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

//go:embed queries/*.scm
var queryFS embed.FS

// Kind separates script grammars from markup grammars.
type Kind string

const (
	Script Kind = "script"
	Markup Kind = "markup"
)

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Kind       Kind
	Extensions []string
	lang       *sitter.Language
	queryOnce  sync.Once
	query      *sitter.Query
	queryErr   error
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
// Each goroutine must use its own parser (not thread-safe).
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

// GetThisQuery returns the compiled query matching this.<name> accesses
// (safe to share across goroutines). Only script languages carry one.
func (l *Language) GetThisQuery() (*sitter.Query, error) {
	l.queryOnce.Do(func() {
		if l.Kind != Script {
			l.queryErr = fmt.Errorf("%s: no query for %s languages", l.Name, l.Kind)
			return
		}
		data, err := queryFS.ReadFile(fmt.Sprintf("queries/%s.scm", l.Name))
		if err != nil {
			l.queryErr = fmt.Errorf("reading query file: %w", err)
			return
		}
		q, err := sitter.NewQuery(data, l.lang)
		if err != nil {
			l.queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		l.query = q
	})
	return l.query, l.queryErr
}

// Languages maps language names to their configuration.
var Languages = map[string]*Language{
	"javascript": {
		Name:       "javascript",
		Kind:       Script,
		Extensions: []string{".js", ".mjs", ".cjs", ".jsx"},
		lang:       javascript.GetLanguage(),
	},
	"typescript": {
		Name:       "typescript",
		Kind:       Script,
		Extensions: []string{".ts", ".mts", ".cts"},
		lang:       typescript.GetLanguage(),
	},
	"html": {
		Name:       "html",
		Kind:       Markup,
		Extensions: []string{".html", ".htm"},
		lang:       html.GetLanguage(),
	},
}

// extensionMap is built lazily on first lookup.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[strings.ToLower(ext)]
}

// ForPath returns the language registered for a file path's extension.
func ForPath(path string) (*Language, bool) {
	dot := strings.LastIndexByte(path, '.')
	if dot < 0 {
		return nil, false
	}
	l, ok := Languages[ForExtension(path[dot:])]
	return l, ok
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// NodeRange returns the byte range covered by a node.
func NodeRange(node *sitter.Node) (start, end int) {
	return int(node.StartByte()), int(node.EndByte())
}

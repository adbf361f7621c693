// Package project is a read-only snapshot of a Stimulus project: the list of
// discovered files plus on-demand access to their parsed contents.
package project

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"

	"github.com/phobologic/stimref/internal/discover"
	"github.com/phobologic/stimref/internal/jsast"
	"github.com/phobologic/stimref/internal/markup"
	"github.com/phobologic/stimref/internal/model"
)

// Project implements model.FileIndex and model.ScriptIndex. The file list is
// fixed at construction; file contents are read and parsed per call, so a
// Project is safe for concurrent use.
type Project struct {
	root    string
	fsys    fs.FS
	entries []discover.FileEntry
	byName  map[string][]string
	parser  *jsast.Parser
	logger  *slog.Logger
}

// Option configures a Project.
type Option func(*Project)

// WithLogger sets the logger used for parse failures.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Project) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithParser sets the script parser.
func WithParser(parser *jsast.Parser) Option {
	return func(p *Project) {
		if parser != nil {
			p.parser = parser
		}
	}
}

// Open discovers files under root and returns a snapshot over the OS
// filesystem.
func Open(root string, opts discover.Options, options ...Option) (*Project, error) {
	entries, err := discover.Files(root, opts)
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	p := New(os.DirFS(root), entries, options...)
	p.root = root
	return p, nil
}

// New builds a snapshot over fsys with an explicit file list.
func New(fsys fs.FS, entries []discover.FileEntry, options ...Option) *Project {
	p := &Project{
		fsys:    fsys,
		entries: append([]discover.FileEntry(nil), entries...),
		byName:  make(map[string][]string),
		parser:  jsast.NewParser(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range options {
		opt(p)
	}
	sort.Slice(p.entries, func(i, j int) bool {
		return p.entries[i].Path < p.entries[j].Path
	})
	for _, e := range p.entries {
		name := path.Base(e.Path)
		p.byName[name] = append(p.byName[name], e.Path)
	}
	return p
}

// Root returns the directory the project was opened from ("" for New).
func (p *Project) Root() string {
	return p.root
}

// Entries returns every discovered file, sorted by path.
func (p *Project) Entries() []discover.FileEntry {
	return p.entries
}

// OfKind returns the paths of every file of the given kind.
func (p *Project) OfKind(kind discover.Kind) []string {
	var out []string
	for _, e := range p.entries {
		if e.Kind == kind {
			out = append(out, e.Path)
		}
	}
	return out
}

// FilesByName returns every file whose base name equals name.
func (p *Project) FilesByName(name string) []string {
	return p.byName[name]
}

// Files returns every file for which match returns true.
func (p *Project) Files(match func(path string) bool) []string {
	var out []string
	for _, e := range p.entries {
		if match(e.Path) {
			out = append(out, e.Path)
		}
	}
	return out
}

// ReadFile returns the contents of a project file.
func (p *Project) ReadFile(name string) ([]byte, error) {
	data, err := fs.ReadFile(p.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Script parses a script file.
func (p *Project) Script(ctx context.Context, name string) (*jsast.File, []byte, error) {
	source, err := p.ReadFile(name)
	if err != nil {
		return nil, nil, err
	}
	f, err := p.parser.Parse(ctx, source, name)
	if err != nil {
		return nil, nil, err
	}
	return f, source, nil
}

// Markup parses a markup file.
func (p *Project) Markup(name string) (*markup.Document, error) {
	source, err := p.ReadFile(name)
	if err != nil {
		return nil, err
	}
	doc, err := markup.Parse(name, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

// DefaultExportClass returns the class name exports as default. Read and
// parse failures count as "no class".
func (p *Project) DefaultExportClass(name string) (*model.Class, bool) {
	f, _, err := p.Script(context.Background(), name)
	if err != nil {
		p.logger.Debug("script unavailable", "path", name, "error", err)
		return nil, false
	}
	if f.DefaultExport == nil {
		return nil, false
	}
	return f.DefaultExport, true
}

// Package controller resolves Stimulus controller identifiers to the classes
// that implement them.
package controller

import (
	"log/slog"
	"path"
	"sort"

	"github.com/phobologic/stimref/internal/model"
	"github.com/phobologic/stimref/internal/naming"
)

// Resolver looks controllers up through a file index and a script index.
// It keeps no state between calls.
type Resolver struct {
	files   model.FileIndex
	scripts model.ScriptIndex
	logger  *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report lenient resolutions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a Resolver.
func New(files model.FileIndex, scripts model.ScriptIndex, opts ...Option) *Resolver {
	r := &Resolver{
		files:   files,
		scripts: scripts,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Candidates returns the files that may define the controller id. Files whose
// own identifier equals id are preferred; when there are none, every file
// with a matching name is returned instead.
func (r *Resolver) Candidates(id string) []string {
	if id == "" {
		return nil
	}

	var all []string
	seen := make(map[string]struct{})
	for _, name := range naming.CandidateNames(id) {
		for _, p := range r.files.FilesByName(name) {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			all = append(all, p)
		}
	}

	var exact []string
	for _, p := range all {
		if naming.Identifier(p) == id {
			exact = append(exact, p)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	if len(all) > 0 {
		r.logger.Debug("ambiguous controller resolution", "identifier", id, "candidates", all)
	}
	return all
}

// Resolve returns the first candidate class exported as default for id.
func (r *Resolver) Resolve(id string) (*model.Class, bool) {
	for _, p := range r.Candidates(id) {
		if c, ok := r.scripts.DefaultExportClass(p); ok {
			return c, true
		}
	}
	return nil, false
}

// Identifiers lists the identifier of every controller file in the project,
// sorted and without duplicates. It does not depend on any resolution
// succeeding.
func (r *Resolver) Identifiers() []string {
	files := r.files.Files(func(p string) bool {
		return naming.IsControllerFile(path.Base(p))
	})

	seen := make(map[string]struct{}, len(files))
	ids := make([]string, 0, len(files))
	for _, p := range files {
		id := naming.Identifier(p)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Definition resolves id and returns the derived view of its class.
func (r *Resolver) Definition(id string) (model.ControllerDefinition, bool) {
	c, ok := r.Resolve(id)
	if !ok {
		return model.ControllerDefinition{}, false
	}
	return Define(id, c), true
}

// Define builds the ControllerDefinition for class c registered under id.
// Only static declarations count.
func Define(id string, c *model.Class) model.ControllerDefinition {
	def := model.ControllerDefinition{
		Identifier: id,
		File:       c.File,
		Values:     map[string]string{},
	}
	if f, ok := c.StaticField("targets"); ok {
		def.Targets = f.LiteralValues()
	}
	if f, ok := c.StaticField("classes"); ok {
		def.ClassNames = f.LiteralValues()
	}
	if f, ok := c.StaticField("outlets"); ok {
		def.Outlets = f.LiteralValues()
	}
	if f, ok := c.StaticField("values"); ok && f.Init.Kind == model.InitObject {
		for _, p := range f.Init.Properties {
			def.Values[p.Key] = p.Value
		}
	}
	for _, m := range c.Methods {
		if !m.Static {
			def.Methods = append(def.Methods, m.Name)
		}
	}
	return def
}

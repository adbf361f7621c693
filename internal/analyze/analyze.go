// Package analyze runs project-wide passes over markup and controller
// scripts: validation of references and the controller usage graph.
package analyze

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/phobologic/stimref/internal/attrref"
	"github.com/phobologic/stimref/internal/controller"
	"github.com/phobologic/stimref/internal/descriptor"
	"github.com/phobologic/stimref/internal/discover"
	"github.com/phobologic/stimref/internal/graph"
	"github.com/phobologic/stimref/internal/markup"
	"github.com/phobologic/stimref/internal/model"
	"github.com/phobologic/stimref/internal/naming"
	"github.com/phobologic/stimref/internal/project"
	"github.com/phobologic/stimref/internal/property"
)

// Analyzer runs passes over one project snapshot.
type Analyzer struct {
	project     *project.Project
	resolver    *controller.Resolver
	descriptors *descriptor.Generator
	logger      *slog.Logger
	workers     int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger for skipped files.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithWorkers caps the number of files processed at once.
// Default: GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

// New creates an Analyzer over p.
func New(p *project.Project, opts ...Option) *Analyzer {
	a := &Analyzer{
		project: p,
		logger:  slog.New(slog.DiscardHandler),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.resolver = controller.New(p, p, controller.WithLogger(a.logger))
	a.descriptors = descriptor.New(a.resolver)
	return a
}

// Resolver returns the controller resolver the analyzer uses.
func (a *Analyzer) Resolver() *controller.Resolver {
	return a.resolver
}

// Check reports unresolved controller, action, and target references in
// markup and unresolved convention accessors in controller scripts. Files
// that cannot be read or parsed are logged and skipped.
func (a *Analyzer) Check(ctx context.Context) ([]model.Problem, error) {
	markupProblems, err := forEach(ctx, a.workers, a.project.OfKind(discover.Markup), a.checkMarkup)
	if err != nil {
		return nil, err
	}
	scriptProblems, err := forEach(ctx, a.workers, a.controllerFiles(), a.checkScript)
	if err != nil {
		return nil, err
	}

	var problems []model.Problem
	for _, ps := range append(markupProblems, scriptProblems...) {
		problems = append(problems, ps...)
	}
	sort.SliceStable(problems, func(i, j int) bool {
		pi, pj := problems[i], problems[j]
		if pi.File != pj.File {
			return pi.File < pj.File
		}
		if pi.Line != pj.Line {
			return pi.Line < pj.Line
		}
		return pi.Column < pj.Column
	})
	return problems, nil
}

// Usages builds the markup → controller usage graph. Controllers that no
// markup references are kept in the report with zero references.
func (a *Analyzer) Usages(ctx context.Context) (*model.UsageReport, error) {
	perFile, err := forEach(ctx, a.workers, a.project.OfKind(discover.Markup), a.markupUsages)
	if err != nil {
		return nil, err
	}

	var usages []model.Usage
	for _, us := range perFile {
		usages = append(usages, us...)
	}

	var controllers []model.ControllerUsage
	for _, p := range a.controllerFiles() {
		controllers = append(controllers, model.ControllerUsage{Identifier: naming.Identifier(p), File: p})
	}

	deps := graph.BuildGraph(usages)
	graph.CountReferences(controllers, usages)
	graph.Rank(controllers, deps)

	return &model.UsageReport{
		Root:         a.project.Root(),
		Controllers:  controllers,
		Dependencies: deps,
		Usages:       usages,
	}, nil
}

func (a *Analyzer) controllerFiles() []string {
	return a.project.Files(func(p string) bool {
		return naming.IsControllerFile(p)
	})
}

func (a *Analyzer) loadMarkup(path string) (*markup.Document, bool) {
	doc, err := a.project.Markup(path)
	if err != nil {
		a.logger.Warn("skipping markup file", "path", path, "error", err)
		return nil, false
	}
	return doc, true
}

func (a *Analyzer) checkMarkup(_ context.Context, path string) ([]model.Problem, error) {
	doc, ok := a.loadMarkup(path)
	if !ok {
		return nil, nil
	}

	var problems []model.Problem
	for _, el := range doc.Elements {
		for i := range el.Attributes {
			attr := &el.Attributes[i]
			name := strings.ToLower(attr.Name)
			switch {
			case name == attrref.ControllerAttribute || name == attrref.ActionAttribute:
				for _, ref := range attrref.ReferencesFor(name, attr.Value, a.resolver) {
					if p, bad := a.checkReference(doc, el, attr, ref); bad {
						problems = append(problems, p)
					}
				}
			case strings.HasPrefix(name, "data-") && strings.HasSuffix(name, "-target"):
				problems = append(problems, a.checkTargets(doc, el, attr, name)...)
			}
		}
	}
	return problems, nil
}

func (a *Analyzer) checkReference(doc *markup.Document, el *markup.Element, attr *markup.Attribute, ref model.Reference) (model.Problem, bool) {
	switch r := ref.(type) {
	case *attrref.ControllerReference:
		if r.Identifier == "" {
			return model.Problem{}, false
		}
		if _, ok := r.Resolve(); ok {
			return model.Problem{}, false
		}
		return problemAt(doc, el, attr, ref.Range(), model.ProblemController, r.Identifier,
			fmt.Sprintf("unknown controller %q", r.Identifier)), true
	case *attrref.MethodReference:
		// an unknown controller is reported on its own reference
		if _, ok := r.Parent.Class(); !ok {
			return model.Problem{}, false
		}
		if _, ok := r.Resolve(); ok {
			return model.Problem{}, false
		}
		return problemAt(doc, el, attr, ref.Range(), model.ProblemMethod, r.Name,
			fmt.Sprintf("unknown action %q on controller %q", r.Name, r.Parent.Identifier)), true
	}
	return model.Problem{}, false
}

// checkTargets validates data-<id>-target values against the declared
// target names when a controller in scope declares them.
func (a *Analyzer) checkTargets(doc *markup.Document, el *markup.Element, attr *markup.Attribute, name string) []model.Problem {
	d, ok := a.descriptors.Descriptor(name, el)
	if !ok || !d.Enumerated {
		return nil
	}
	allowed := make(map[string]struct{}, len(d.Values))
	for _, v := range d.Values {
		allowed[v] = struct{}{}
	}

	id := strings.TrimSuffix(strings.TrimPrefix(name, "data-"), "-target")
	var problems []model.Problem
	for _, tok := range attrref.Tokenize(attr.Value) {
		if _, ok := allowed[tok.Text]; ok {
			continue
		}
		problems = append(problems, problemAt(doc, el, attr, tok.Range, model.ProblemTarget, tok.Text,
			fmt.Sprintf("unknown target %q on controller %q", tok.Text, id)))
	}
	return problems
}

func problemAt(doc *markup.Document, el *markup.Element, attr *markup.Attribute, r model.Range, kind model.ProblemKind, text, msg string) model.Problem {
	offset := el.Range.Start
	if abs, ok := attr.Absolute(r); ok {
		offset = abs.Start
	}
	pos := doc.Position(offset)
	return model.Problem{
		File:    doc.Path,
		Line:    pos.Line,
		Column:  pos.Column,
		Kind:    kind,
		Text:    text,
		Message: msg,
	}
}

func (a *Analyzer) checkScript(ctx context.Context, path string) ([]model.Problem, error) {
	f, source, err := a.project.Script(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		a.logger.Warn("skipping script file", "path", path, "error", err)
		return nil, nil
	}
	if f.DefaultExport == nil {
		return nil, nil
	}

	var problems []model.Problem
	for _, access := range f.ThisAccesses {
		c := access.Class
		if c != f.DefaultExport || !property.HasConventionSuffix(access.Name) {
			continue
		}
		// plain members that happen to end in Target, Value, ...
		if _, ok := c.Field(access.Name); ok {
			continue
		}
		if _, ok := c.Method(access.Name); ok {
			continue
		}
		if _, ok := property.NewReference(access).Resolve(); ok {
			continue
		}
		pos := model.PositionAt(source, access.Range.Start)
		problems = append(problems, model.Problem{
			File:    path,
			Line:    pos.Line,
			Column:  pos.Column,
			Kind:    model.ProblemProperty,
			Text:    access.Name,
			Message: fmt.Sprintf("this.%s has no matching declaration", access.Name),
		})
	}
	return problems, nil
}

func (a *Analyzer) markupUsages(_ context.Context, path string) ([]model.Usage, error) {
	doc, ok := a.loadMarkup(path)
	if !ok {
		return nil, nil
	}

	var usages []model.Usage
	for _, el := range doc.Elements {
		for i := range el.Attributes {
			attr := &el.Attributes[i]
			name := strings.ToLower(attr.Name)
			for _, ref := range attrref.ReferencesFor(name, attr.Value, a.resolver) {
				cref, ok := ref.(*attrref.ControllerReference)
				if !ok || cref.Identifier == "" {
					continue
				}
				c, ok := cref.Class()
				if !ok {
					continue
				}
				offset := el.Range.Start
				if abs, ok := attr.Absolute(ref.Range()); ok {
					offset = abs.Start
				}
				usages = append(usages, model.Usage{
					File:       path,
					Line:       doc.Position(offset).Line,
					Identifier: cref.Identifier,
					Target:     c.File,
				})
			}
		}
	}
	return usages, nil
}

// forEach runs fn over paths with at most workers in flight and returns the
// results in input order.
func forEach[T any](ctx context.Context, workers int, paths []string, fn func(context.Context, string) (T, error)) ([]T, error) {
	results := make([]T, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := fn(ctx, p)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

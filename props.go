package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phobologic/stimref/internal/jsast"
	"github.com/phobologic/stimref/internal/model"
	"github.com/phobologic/stimref/internal/property"
	"github.com/phobologic/stimref/internal/toon"
)

func newPropsCmd(a *app) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "props <script-file>",
		Short: "Resolve this.<name> accesses in a controller script",
		Long: `List every this.<name> access in a controller script with the convention
declaration it resolves to (target, class, outlet or value), followed by the
members of each class and whether anything uses them.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(root)
			if err != nil {
				return err
			}
			name, err := s.rel(args[0])
			if err != nil {
				return err
			}
			f, source, err := s.project.Script(cmd.Context(), name)
			if err != nil {
				return err
			}

			var accesses [][]string
			for _, access := range f.ThisAccesses {
				pos := model.PositionAt(source, access.Range.Start)
				ref := property.NewReference(access).Property()
				class := ""
				if access.Class != nil {
					class = className(access.Class)
				}
				accesses = append(accesses, []string{
					strconv.Itoa(pos.Line),
					strconv.Itoa(pos.Column),
					access.Name,
					class,
					string(ref.Kind),
					ref.CanonicalName,
				})
			}

			out := &toon.Document{}
			out.AddField("file", name)
			out.AddTable("accesses", []string{"line", "column", "name", "class", "kind", "declaration"}, accesses)
			out.AddTable("members", []string{"class", "member", "scope", "status"}, memberRows(f))
			return a.render(out)
		},
	}
	cmd.Flags().StringVarP(&root, "root", "r", ".", "project root")
	return cmd
}

func className(c *model.Class) string {
	if c.Name == "" {
		return "(anonymous)"
	}
	return c.Name
}

// memberRows reports each class and member as used by code, used
// implicitly by the framework, or unused within the file.
func memberRows(f *jsast.File) [][]string {
	type key struct {
		class *model.Class
		name  string
	}
	accessed := make(map[key]struct{})
	for _, access := range f.ThisAccesses {
		if access.Class != nil {
			accessed[key{access.Class, access.Name}] = struct{}{}
		}
	}

	var rows [][]string
	for _, c := range f.Classes {
		// the class row itself: instantiated by the framework or not
		status := ""
		if property.ImplicitController(f, c) {
			status = "implicit"
		}
		rows = append(rows, []string{className(c), "", "", status})

		add := func(name string, static bool) {
			status := "unused"
			switch {
			case property.ImplicitlyUsed(c, name):
				status = "implicit"
			case !static:
				if _, ok := accessed[key{c, name}]; ok {
					status = "used"
				}
			}
			scope := "instance"
			if static {
				scope = "static"
			}
			rows = append(rows, []string{className(c), name, scope, status})
		}
		for _, fd := range c.Fields {
			add(fd.Name, fd.Static)
		}
		for _, m := range c.Methods {
			add(m.Name, m.Static)
		}
	}
	return rows
}

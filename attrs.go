package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/stimref/internal/descriptor"
	"github.com/phobologic/stimref/internal/toon"
)

func newAttrsCmd(a *app) *cobra.Command {
	var (
		root string
		all  bool
	)
	cmd := &cobra.Command{
		Use:   "attrs <markup-file>",
		Short: "List the Stimulus attributes each element may carry",
		Long: `List the attribute descriptors generated for each element of a template:
data-controller and data-action everywhere, plus the target, value, outlet
and class attributes of the controllers in scope. Elements without a
controller in scope are skipped unless --all is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := a.open(root)
			if err != nil {
				return err
			}
			name, err := s.rel(args[0])
			if err != nil {
				return err
			}
			doc, err := s.project.Markup(name)
			if err != nil {
				return err
			}

			gen := descriptor.New(s.analyzer.Resolver())
			var rows [][]string
			for _, el := range doc.Elements {
				descs := gen.Descriptors(el)
				// data-controller and data-action are always present
				if len(descs) <= 2 && !all {
					continue
				}
				line := strconv.Itoa(doc.Position(el.Range.Start).Line)
				for _, d := range descs {
					declared := ""
					if d.Declaration != nil {
						declared = d.Declaration.File
					}
					rows = append(rows, []string{
						line,
						el.Name,
						d.Name,
						strings.Join(d.Values, " "),
						declared,
					})
				}
			}

			out := &toon.Document{}
			out.AddField("file", name)
			out.AddTable("attributes", []string{"line", "tag", "name", "values", "declared"}, rows)
			return a.render(out)
		},
	}
	cmd.Flags().StringVarP(&root, "root", "r", ".", "project root")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include elements with no controller in scope")
	return cmd
}

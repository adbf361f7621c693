package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/stimref/internal/attrref"
	"github.com/phobologic/stimref/internal/model"
	"github.com/phobologic/stimref/internal/toon"
)

func newRefsCmd(a *app) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "refs <markup-file>",
		Short: "List controller and action references in a template",
		Long: `List every reference made by data-controller and data-action attributes in
a markup file with its position and what it resolves to.`,
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

			r := s.analyzer.Resolver()
			var rows [][]string
			for _, el := range doc.Elements {
				for i := range el.Attributes {
					attr := &el.Attributes[i]
					for _, ref := range attrref.ReferencesFor(strings.ToLower(attr.Name), attr.Value, r) {
						offset := el.Range.Start
						if abs, ok := attr.Absolute(ref.Range()); ok {
							offset = abs.Start
						}
						pos := doc.Position(offset)
						kind, text := describe(ref)
						status, file := "unresolved", ""
						if decl, ok := ref.Resolve(); ok {
							status, file = "resolved", decl.File
						}
						rows = append(rows, []string{
							strconv.Itoa(pos.Line),
							strconv.Itoa(pos.Column),
							attr.Name,
							kind,
							text,
							status,
							file,
						})
					}
				}
			}

			out := &toon.Document{}
			out.AddField("file", name)
			out.AddTable("references", []string{"line", "column", "attribute", "kind", "text", "status", "file"}, rows)
			return a.render(out)
		},
	}
	cmd.Flags().StringVarP(&root, "root", "r", ".", "project root")
	return cmd
}

func describe(ref model.Reference) (kind, text string) {
	switch r := ref.(type) {
	case *attrref.ControllerReference:
		return string(model.DeclController), r.Identifier
	case *attrref.MethodReference:
		return string(model.DeclMethod), r.Parent.Identifier + "#" + r.Name
	}
	return "", ""
}

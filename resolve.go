package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/phobologic/stimref/internal/controller"
	"github.com/phobologic/stimref/internal/toon"
)

func newResolveCmd(a *app) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "resolve <identifier>",
		Short: "Show the controller class an identifier resolves to",
		Long: `Resolve a controller identifier to its class and print the declarations
the class makes through Stimulus conventions: targets, classes, outlets,
values and action methods.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := a.open(root)
			if err != nil {
				return err
			}

			id := args[0]
			r := s.analyzer.Resolver()
			c, ok := r.Resolve(id)
			if !ok {
				return fmt.Errorf("unknown controller %q", id)
			}
			def := controller.Define(id, c)

			doc := &toon.Document{}
			doc.AddField("identifier", def.Identifier)
			doc.AddField("file", def.File)
			doc.AddField("class", c.Name)
			doc.AddField("extends", c.Extends)

			var candidates [][]string
			for _, p := range r.Candidates(id) {
				candidates = append(candidates, []string{p})
			}
			doc.AddTable("candidates", []string{"path"}, candidates)

			var members [][]string
			for _, t := range def.Targets {
				members = append(members, []string{"target", t, ""})
			}
			for _, n := range def.ClassNames {
				members = append(members, []string{"class", n, ""})
			}
			for _, o := range def.Outlets {
				members = append(members, []string{"outlet", o, ""})
			}
			keys := make([]string, 0, len(def.Values))
			for k := range def.Values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				members = append(members, []string{"value", k, def.Values[k]})
			}
			for _, m := range def.Methods {
				members = append(members, []string{"method", m, ""})
			}
			doc.AddTable("members", []string{"kind", "name", "type"}, members)

			return a.render(doc)
		},
	}
	cmd.Flags().StringVarP(&root, "root", "r", ".", "project root")
	return cmd
}

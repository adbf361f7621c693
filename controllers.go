package main

import (
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phobologic/stimref/internal/toon"
)

func newControllersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "controllers [root]",
		Short: "List every controller identifier in the project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			s, err := a.open(rootArg(args))
			if err != nil {
				return err
			}

			r := s.analyzer.Resolver()
			var rows [][]string
			for _, id := range r.Identifiers() {
				file, class := "", ""
				if c, ok := r.Resolve(id); ok {
					file, class = c.File, c.Name
				}
				rows = append(rows, []string{id, file, class, strconv.Itoa(len(r.Candidates(id)))})
			}

			doc := &toon.Document{}
			doc.AddField("root", filepath.Base(s.root))
			doc.AddTable("controllers", []string{"identifier", "file", "class", "candidates"}, rows)
			return a.render(doc)
		},
	}
}

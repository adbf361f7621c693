package main

import (
	"github.com/spf13/cobra"

	"github.com/phobologic/stimref/internal/naming"
	"github.com/phobologic/stimref/internal/toon"
)

func newIDCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "id <path>...",
		Short: "Print the controller identifier for each path",
		Long: `Print the identifier a controller file registers under. The mapping only
looks at the path; the files do not have to exist.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			for _, p := range args {
				rows = append(rows, []string{p, naming.Identifier(p)})
			}
			doc := &toon.Document{}
			doc.AddTable("identifiers", []string{"path", "identifier"}, rows)
			return a.render(doc)
		},
	}
}

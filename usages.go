package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/phobologic/stimref/internal/model"
	"github.com/phobologic/stimref/internal/ranking"
	"github.com/phobologic/stimref/internal/toon"
)

func newUsagesCmd(a *app) *cobra.Command {
	var (
		maxControllers int
		controllerSub  string
		fileSub        string
		unusedOnly     bool
	)
	cmd := &cobra.Command{
		Use:   "usages [root]",
		Short: "Show which templates use which controllers",
		Long: `Build the graph of templates and the controllers they reference through
data-controller and data-action. Controllers are ranked by PageRank over
that graph; controllers no template references are listed as unused.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(rootArg(args))
			if err != nil {
				return err
			}

			rep, err := s.analyzer.Usages(cmd.Context())
			if err != nil {
				return err
			}
			rep.Root = filepath.Base(s.root)

			if controllerSub != "" {
				rep = ranking.FilterByController(rep, controllerSub)
			}
			if fileSub != "" {
				rep = ranking.FilterByFile(rep, fileSub)
			}
			if unusedOnly {
				rep = unused(rep)
			}
			rep = ranking.SelectControllers(rep, maxControllers)

			return a.render(toon.Usages(rep))
		},
	}
	cmd.Flags().IntVarP(&maxControllers, "max", "n", 0, "maximum number of controllers to include")
	cmd.Flags().StringVarP(&controllerSub, "controller", "c", "", "only controllers whose identifier contains this")
	cmd.Flags().StringVar(&fileSub, "file", "", "only usages from templates whose path contains this")
	cmd.Flags().BoolVar(&unusedOnly, "unused", false, "only controllers no template references")
	return cmd
}

func unused(rep *model.UsageReport) *model.UsageReport {
	out := &model.UsageReport{Root: rep.Root}
	for _, c := range rep.Controllers {
		if c.Unused() {
			out.Controllers = append(out.Controllers, c)
		}
	}
	return out
}

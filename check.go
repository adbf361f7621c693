package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/phobologic/stimref/internal/toon"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [root]",
		Short: "Report references that do not resolve",
		Long: `Check every template and controller script in the project. Reported are
data-controller identifiers with no controller file, data-action methods the
controller does not define, data-<id>-target names the controller does not
declare, and this.<name>Target/Value/Class/Outlet accesses in controllers
with no matching static declaration.

The exit status is 1 when anything is reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(rootArg(args))
			if err != nil {
				return err
			}

			problems, err := s.analyzer.Check(cmd.Context())
			if err != nil {
				return err
			}

			if len(problems) == 0 {
				color.New(color.FgGreen).Fprintln(a.stderr, "no problems found")
				return nil
			}
			if err := a.render(toon.Problems(problems)); err != nil {
				return err
			}
			color.New(color.FgRed, color.Bold).Fprintf(a.stderr, "%d %s found\n", len(problems), plural(len(problems), "problem"))
			return errProblems
		},
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

package cli

import (
	"fmt"

	"github.com/me/eduportal/internal/smoke"
	"github.com/spf13/cobra"
)

func newSmokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "smoke [auth|curriculum|connection|all]",
		Short:     "Run smoke checks against the backend",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: append(append([]string(nil), smoke.SuiteNames...), "all"),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newResolver()
			if err != nil {
				return err
			}
			which := "all"
			if len(args) == 1 {
				which = args[0]
			}

			suites := smoke.Suites(smoke.Env{Resolver: r, Logger: logger, Timeout: cfg.Timeout})
			names := smoke.SuiteNames
			if which != "all" {
				if _, ok := suites[which]; !ok {
					return fmt.Errorf("unknown suite %q", which)
				}
				names = []string{which}
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, name := range names {
				rep := suites[name].Run(cmd.Context())
				if err := rep.Print(out); err != nil {
					return err
				}
				failed += rep.Total() - rep.Passed()
			}
			if failed > 0 {
				return fmt.Errorf("%d smoke check(s) failed", failed)
			}
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the resolved backend address and environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newResolver()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			base := r.BaseURL()
			if base == "" {
				base = "(same origin)"
			}
			fmt.Fprintf(out, "Location:     %s\n", cfg.Location)
			fmt.Fprintf(out, "Environment:  %s\n", r.Environment())
			fmt.Fprintf(out, "API base URL: %s\n", base)
			fmt.Fprintf(out, "API prefix:   %s\n", r.Absolute(r.APIURL("")))
			fmt.Fprintf(out, "Storage:      %s (%s)\n", cfg.StorePath, cfg.StoreDriver)
			return nil
		},
	}
}

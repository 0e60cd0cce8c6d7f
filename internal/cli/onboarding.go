package cli

import (
	"fmt"
	"os"

	"github.com/me/eduportal/internal/onboarding"
	"github.com/spf13/cobra"
)

func newOnboardingCmd() *cobra.Command {
	var (
		closeAfter bool
		outPath    string
	)
	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Render the landing page with the getting-started page shown",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := onboarding.NewDocument(onboarding.LandingRegions...)
			in := onboarding.NewInjector(doc, logger)
			if err := in.ShowPage(); err != nil {
				return err
			}
			if closeAfter {
				in.ClosePage()
			}

			if outPath == "" {
				return doc.Render(cmd.OutOrStdout())
			}
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			if err := doc.Render(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().BoolVar(&closeAfter, "close", false, "Close the getting-started page again before rendering")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write HTML to a file instead of stdout")
	return cmd
}

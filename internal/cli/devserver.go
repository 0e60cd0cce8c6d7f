package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/me/eduportal/internal/devserver"
	"github.com/spf13/cobra"
)

func newDevserverCmd() *cobra.Command {
	c := devserver.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run the local stand-in backend with demo accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := devserver.New(c, logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return srv.ListenAndServe(ctx, func(addr string) {
				fmt.Fprintf(out, "Stand-in backend listening on %s\n", addr)
				for _, acct := range devserver.DemoAccounts() {
					if acct.AccessCode != "" {
						fmt.Fprintf(out, "  %-8s name=%q access code=%s\n", acct.Role, acct.Name, acct.AccessCode)
					} else {
						fmt.Fprintf(out, "  %-8s %s / %s\n", acct.Role, acct.Email, acct.Password)
					}
				}
			})
		},
	}
	cmd.Flags().StringVar(&c.Addr, "addr", c.Addr, "Listen address")
	cmd.Flags().DurationVar(&c.CodeTTL, "code-ttl", c.CodeTTL, "Lifetime of connection codes")
	return cmd
}

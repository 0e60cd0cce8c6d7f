package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/me/eduportal/pkg/model"
	"github.com/spf13/cobra"
)

func newConnectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Pair students with teachers and parents",
	}
	cmd.AddCommand(newConnectGenerateCmd(), newConnectEnterCmd(), newConnectListCmd())
	return cmd
}

func newConnectGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Create a connection code to share with a student",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, user, err := requireLogin(cmd, model.RoleTeacher, model.RoleParent)
			if err != nil {
				return err
			}
			view := a.conn.View(cmd.Context(), user.Role, user.ID)
			if view.Code == "" {
				return fmt.Errorf("generate code: %s", view.Message)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, view.Title)
			fmt.Fprintf(out, "\n    %s\n\n", view.Code)
			return nil
		},
	}
}

func newConnectEnterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enter CODE",
		Short: "Connect to a teacher or parent with their code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := requireLogin(cmd, model.RoleStudent)
			if err != nil {
				return err
			}
			res := a.conn.Enter(cmd.Context(), args[0])
			if !res.Success {
				return fmt.Errorf("connect: %s", res.Message)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s %s\n", res.Connection.Type, res.Connection.Name)
			return nil
		},
	}
}

func newConnectListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, user, err := requireLogin(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			list := a.conn.Connections(cmd.Context(), user.Role)
			if len(list) == 0 {
				fmt.Fprintln(out, "No connections yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tTYPE\tNAME\tCONNECTED")
			for _, c := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Code, c.Type, c.Name, humanize.Time(c.ConnectedAt))
			}
			return tw.Flush()
		},
	}
}

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/me/eduportal/internal/events"
	"github.com/me/eduportal/internal/loginmodal"
	"github.com/me/eduportal/pkg/model"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var (
		role       string
		email      string
		password   string
		name       string
		accessCode string
		demo       bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Long: "Sign in as admin, teacher or parent with email and password, or as a student\n" +
			"with name and access code. Missing fields are prompted for. --demo uses the\n" +
			"demo account of the role.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			var loggedIn *model.User
			unsubscribe := a.bus.Subscribe(events.UserLoggedIn, func(e events.Event) { loggedIn = e.User })
			defer unsubscribe()

			modal := loginmodal.NewController(a.auth, a.bus, logger)
			modal.Open()
			if role != "" {
				r, err := model.ParseRole(role)
				if err != nil {
					return err
				}
				if err := modal.SelectRole(r); err != nil {
					return err
				}
			}

			var ok bool
			if demo {
				ok = modal.SubmitDemo(cmd.Context())
			} else {
				creds := model.Credentials{Email: email, Password: password, Name: name, AccessCode: accessCode}
				if modal.State().Role != "" {
					if err := promptMissing(cmd.InOrStdin(), out, modal.Fields(), &creds); err != nil {
						return err
					}
				}
				ok = modal.Submit(cmd.Context(), creds)
			}
			if !ok {
				return fmt.Errorf("login failed: %s", modal.State().Error)
			}

			fmt.Fprintf(out, "Logged in as %s (%s)\n", loggedIn.Name, loggedIn.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "admin, teacher, parent or student")
	cmd.Flags().StringVar(&email, "email", "", "Email (admin, teacher, parent)")
	cmd.Flags().StringVar(&password, "password", "", "Password (admin, teacher, parent)")
	cmd.Flags().StringVar(&name, "name", "", "Name (student)")
	cmd.Flags().StringVar(&accessCode, "access-code", "", "Class access code (student)")
	cmd.Flags().BoolVar(&demo, "demo", false, "Use the demo account for --role")
	return cmd
}

// promptMissing reads any empty field of creds from in.
func promptMissing(in io.Reader, out io.Writer, fields []loginmodal.Field, creds *model.Credentials) error {
	reader := bufio.NewReader(in)
	for _, f := range fields {
		target := fieldTarget(f, creds)
		if *target != "" {
			continue
		}
		fmt.Fprintf(out, "%s: ", f)
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read %s: %w", f, err)
		}
		*target = strings.TrimSpace(line)
	}
	return nil
}

func fieldTarget(f loginmodal.Field, creds *model.Credentials) *string {
	switch f {
	case loginmodal.FieldName:
		return &creds.Name
	case loginmodal.FieldAccessCode:
		return &creds.AccessCode
	case loginmodal.FieldPassword:
		return &creds.Password
	default:
		return &creds.Email
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the saved session",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			a.auth.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			s := a.auth.Session()
			if s.User == nil {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}
			fmt.Fprintf(out, "Name:    %s\n", s.User.Name)
			fmt.Fprintf(out, "Role:    %s\n", s.User.Role)
			fmt.Fprintf(out, "User ID: %s\n", s.User.ID)
			if s.User.Email != "" {
				fmt.Fprintf(out, "Email:   %s\n", s.User.Email)
			}
			if !s.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "Expires: %s\n", humanize.Time(s.ExpiresAt))
			}
			return nil
		},
	}
}

// requireLogin returns the wired app when a user with one of roles is
// signed in.
func requireLogin(cmd *cobra.Command, roles ...model.Role) (*app, *model.User, error) {
	a, err := openApp(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	if !a.auth.IsAuthenticated() {
		return nil, nil, fmt.Errorf("not logged in; run `eduportal login` first")
	}
	if len(roles) > 0 && !a.auth.AuthGate(roles...) {
		return nil, nil, fmt.Errorf("this command requires role %s", joinRoles(roles))
	}
	return a, a.auth.CurrentUser(), nil
}

func joinRoles(roles []model.Role) string {
	s := make([]string, len(roles))
	for i, r := range roles {
		s[i] = string(r)
	}
	return strings.Join(s, " or ")
}

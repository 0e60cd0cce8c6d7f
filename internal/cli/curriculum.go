package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/me/eduportal/pkg/model"
	"github.com/spf13/cobra"
)

func newCurriculumCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curriculum",
		Short: "Browse and generate curriculum (admin)",
	}
	cmd.AddCommand(
		newCurriculumSubjectsCmd(),
		newCurriculumGradesCmd(),
		newCurriculumLessonsCmd(),
		newCurriculumGenerateCmd(),
	)
	return cmd
}

func newCurriculumSubjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List subjects",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := requireLogin(cmd, model.RoleAdmin)
			if err != nil {
				return err
			}
			subjects, err := a.client.Subjects(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, s := range subjects {
				fmt.Fprintf(tw, "%s\t%s\n", s.ID, s.Name)
			}
			return tw.Flush()
		},
	}
}

func newCurriculumGradesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grades",
		Short: "List grades",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := requireLogin(cmd, model.RoleAdmin)
			if err != nil {
				return err
			}
			grades, err := a.client.Grades(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLEVEL")
			for _, g := range grades {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", g.ID, g.Name, g.Level)
			}
			return tw.Flush()
		},
	}
}

func newCurriculumLessonsCmd() *cobra.Command {
	var subject, grade string
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List generated lessons",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := requireLogin(cmd, model.RoleAdmin)
			if err != nil {
				return err
			}
			lessons, err := a.client.Lessons(cmd.Context(), subject, grade)
			if err != nil {
				return err
			}
			printLessons(cmd, lessons)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "Filter by subject ID")
	cmd.Flags().StringVar(&grade, "grade", "", "Filter by grade ID")
	return cmd
}

func newCurriculumGenerateCmd() *cobra.Command {
	var (
		count  int
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "generate SUBJECT GRADE",
		Short: "Generate lessons for a subject and grade",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := requireLogin(cmd, model.RoleAdmin)
			if err != nil {
				return err
			}
			res, err := a.client.Generate(cmd.Context(), model.GenerateRequest{
				Subject: args[0],
				Grade:   args[1],
				Count:   count,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.DryRun {
				fmt.Fprintf(out, "Dry-run: %d lessons would be created. Nothing was saved.\n", len(res.Lessons))
			} else {
				fmt.Fprintf(out, "Created %d lessons.\n", res.Created)
			}
			printLessons(cmd, res.Lessons)
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 0, "Number of lessons (server default when 0)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be generated without saving")
	return cmd
}

func printLessons(cmd *cobra.Command, lessons []model.Lesson) {
	out := cmd.OutOrStdout()
	if len(lessons) == 0 {
		fmt.Fprintln(out, "No lessons.")
		return
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSUBJECT\tGRADE\tTITLE")
	for _, l := range lessons {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.ID, l.Subject, l.Grade, l.Title)
	}
	tw.Flush()
}

// ownerArgs resolves ROLE and ID, defaulting to the signed-in user.
func ownerArgs(user *model.User, args []string) (model.Role, string, error) {
	if len(args) == 0 {
		return user.Role, user.ID, nil
	}
	if len(args) != 2 {
		return "", "", fmt.Errorf("expected ROLE and ID, or neither")
	}
	role, err := model.ParseRole(args[0])
	if err != nil {
		return "", "", err
	}
	return role, args[1], nil
}

func newAssignmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assignments [ROLE ID]",
		Short: "List assignments (defaults to your own)",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, user, err := requireLogin(cmd)
			if err != nil {
				return err
			}
			role, id, err := ownerArgs(user, args)
			if err != nil {
				return err
			}
			items, err := a.client.Assignments(cmd.Context(), role, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "No assignments.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tSUBJECT\tDUE\tSTATUS")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Title, it.Subject, it.DueDate, it.Status)
			}
			return tw.Flush()
		},
	}
}

func newLibraryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "library [ROLE ID]",
		Short: "List library items (defaults to your own)",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, user, err := requireLogin(cmd)
			if err != nil {
				return err
			}
			role, id, err := ownerArgs(user, args)
			if err != nil {
				return err
			}
			items, err := a.client.Library(cmd.Context(), role, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(items) == 0 {
				fmt.Fprintln(out, "Library is empty.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTITLE\tKIND\tURL")
			for _, it := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.ID, it.Title, it.Kind, it.URL)
			}
			return tw.Flush()
		},
	}
}

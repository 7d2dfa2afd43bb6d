package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/jo-hoe/eduboard/internal/common"
	"github.com/jo-hoe/eduboard/internal/core"
	"github.com/spf13/cobra"
)

// studentsCmd groups the register subcommands
func newStudentsCmd(app *cli) *cobra.Command {
	studentsCmd := &cobra.Command{
		Use:   "students",
		Short: "Manage the student register",
		Long: `Manage the student register.

Available subcommands:
  list   - Print all students with grade and age aggregations
  add    - Insert a student
  update - Overwrite the student with the given id
  delete - Remove the student with the given id`,
	}
	studentsCmd.AddCommand(
		newStudentsListCmd(app),
		newStudentsAddCmd(app),
		newStudentsUpdateCmd(app),
		newStudentsDeleteCmd(app),
	)
	return studentsCmd
}

func newStudentsListCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := app.coreService.StudentTable(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if table.Empty() {
				fmt.Fprintln(out, "no students registered")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNOMBRES\tAPELLIDOS\tEDAD\tNOTAS\tMATERIAS")
			for _, s := range table.Students {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n", s.ID, s.FirstName, s.LastName, s.Age, strconv.FormatFloat(s.Grade, 'f', -1, 64), s.Subject)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out, "\nAverage grade by subject")
			for _, avg := range table.GradesBySubject {
				fmt.Fprintf(out, "  %s: %s\n", avg.Subject, formatFloat(avg.Average))
			}
			fmt.Fprintln(out, "Students by age")
			for _, ac := range table.AgeCounts {
				fmt.Fprintf(out, "  %d: %d\n", ac.Age, ac.Count)
			}
			return nil
		},
	}
}

// bindStudentFlags registers the editable student fields on cmd.
func bindStudentFlags(cmd *cobra.Command, input *common.StudentInput) {
	cmd.Flags().StringVar(&input.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&input.LastName, "last-name", "", "last name")
	cmd.Flags().IntVar(&input.Age, "age", 0, "age in years (0-120)")
	cmd.Flags().Float64Var(&input.Grade, "grade", 0, "grade (0-10)")
	cmd.Flags().StringVar(&input.Subject, "subject", "", "subject")
}

func newStudentsAddCmd(app *cli) *cobra.Command {
	var input common.StudentInput

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Insert a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate(&input); err != nil {
				return err
			}
			student, err := app.coreService.AddStudent(cmd.Context(), input.Record(0))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "student %d inserted\n", student.ID)
			return nil
		},
	}
	bindStudentFlags(cmd, &input)
	return cmd
}

func newStudentsUpdateCmd(app *cli) *cobra.Command {
	var input common.StudentUpdateInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Overwrite the student with the given id",
		Long:  `Overwrite every field of the student with the given id. Unknown ids are ignored.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			input.ID = id
			if err := validate(&input); err != nil {
				return err
			}
			if err := app.coreService.UpdateStudent(cmd.Context(), input.Record(id)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "student %d updated\n", id)
			return nil
		},
	}
	bindStudentFlags(cmd, &input.StudentInput)
	return cmd
}

func newStudentsDeleteCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove the student with the given id",
		Long:  `Remove the student with the given id. Unknown ids are ignored.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			input := common.StudentIDInput{ID: id}
			if err := validate(&input); err != nil {
				return err
			}
			if err := app.coreService.DeleteStudent(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "student %d deleted\n", id)
			return nil
		},
	}
}

func newExportCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the student register as CSV",
		Long:  "Write the student register as CSV to file (default " + core.ExportFileName + "). Use - for stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := core.ExportFileName
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				return app.coreService.ExportStudentsCSV(cmd.Context(), cmd.OutOrStdout())
			}

			file, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := app.coreService.ExportStudentsCSV(cmd.Context(), file); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("failed to close %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "register exported to %s\n", path)
			return nil
		},
	}
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

var cliValidator = common.NewGenericEchoValidator()

// validate applies the same rules as the web forms.
func validate(input any) error {
	if err := cliValidator.Validator.Struct(input); err != nil {
		return errors.New(common.DescribeValidationError(err))
	}
	return nil
}

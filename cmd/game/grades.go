package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Garsondee/Glitch-Field/internal/grading"
)

var flagRoster string

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	headerStyle = lipgloss.NewStyle().Faint(true)
)

var gradesCmd = &cobra.Command{
	Use:   "grades",
	Short: "Print pass/fail for a course roster",
	Long: `Print the roster and whether each student passes.

A student passes with an average at or above the passing grade and fewer
absences than the limit, or with an average above 110% of the passing grade
and exactly the limit.

Examples:
  glitchfield grades
  glitchfield grades --roster configs/roster.yaml`,
	Args: cobra.NoArgs,
	RunE: runGrades,
}

func init() {
	gradesCmd.Flags().StringVar(&flagRoster, "roster", "", "Path to a YAML roster (default: built-in course)")
}

func runGrades(cmd *cobra.Command, args []string) error {
	course := grading.DefaultCourse()
	if flagRoster != "" {
		c, err := grading.LoadCourse(flagRoster)
		if err != nil {
			return err
		}
		course = c
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(course.Name))
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("passing grade %g, absence limit %d", course.PassingGrade, course.MaxAbsences)))
	fmt.Fprintln(out)

	fmt.Fprintln(out, headerStyle.Render("---- Nova lista de alunos ----"))
	for _, s := range course.Students {
		fmt.Fprintf(out, "  %-10s absences=%d grades=%v\n", s.Name, s.Absences, s.Grades)
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, headerStyle.Render("---- Lista de Aprovação ----"))
	for _, r := range course.Report() {
		style := failStyle
		if r.Passed {
			style = passStyle
		}
		fmt.Fprintln(out, style.Render(r.String()))
	}
	return nil
}

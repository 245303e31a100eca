package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse generated quizzes and graded attempts",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored quizzes, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		skill, _ := cmd.Flags().GetString("skill")

		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.close()

		recs, err := a.archive.Quizzes(cmd.Context(), skill, limit)
		if err != nil {
			return fmt.Errorf("list quizzes: %w", err)
		}
		w := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(w, "No quizzes stored yet.")
			return nil
		}

		fmt.Fprintf(w, "%-36s  %-16s  %-20s  %-12s  %-10s  %3s\n", "ID", "Created", "Skill", "Difficulty", "Mode", "Qs")
		fmt.Fprintln(w, strings.Repeat("─", 108))
		for _, r := range recs {
			fmt.Fprintf(w, "%-36s  %-16s  %-20s  %-12s  %-10s  %3d\n",
				r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(r.Skill, 20), r.Difficulty, r.Mode, r.QuestionCount)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <quiz-id>",
	Short: "Show a stored quiz with its answers and attempts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.close()
		ctx := cmd.Context()

		q, err := a.archive.Quiz(ctx, args[0])
		if err != nil {
			return err
		}
		if q == nil {
			return fmt.Errorf("quiz %s not found", args[0])
		}
		w := cmd.OutOrStdout()
		writeQuizText(w, q)

		atts, err := a.archive.Attempts(ctx, q.ID, 0)
		if err != nil {
			return fmt.Errorf("list attempts: %w", err)
		}
		fmt.Fprintf(w, "\nAttempts: %d\n", len(atts))
		for _, at := range atts {
			verdict := "not passed"
			if at.Passed {
				verdict = "passed"
			}
			fmt.Fprintf(w, "  %s  %3d%%  %d/%d  timeouts %d  %s\n",
				at.Timestamp.Local().Format("2006-01-02 15:04"), at.ScorePercent, at.Correct, at.Total, at.Timeouts, verdict)
		}
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntP("limit", "n", 20, "Number of quizzes to show")
	historyListCmd.Flags().StringP("skill", "s", "", "Only quizzes for this skill")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}

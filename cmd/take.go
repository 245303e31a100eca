package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/quizgen"
	"github.com/abhisek/skillcheck/internal/ui/runner"
)

var takeCmd = &cobra.Command{
	Use:   "take [skill]",
	Short: "Take a quiz interactively in the terminal",
	Long: "Generate a quiz for a skill, or load a stored one with --quiz, and take it with\n" +
		"per-question timers. The graded attempt is saved to the history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		quizID, _ := cmd.Flags().GetString("quiz")
		if quizID == "" && len(args) == 0 {
			return errors.New("give a skill to generate a quiz for, or --quiz <id>")
		}

		var req quizgen.Request
		if quizID == "" {
			var err error
			if req, err = requestFromFlags(cmd, args); err != nil {
				return err
			}
		}

		a, err := openApp(cmd, quizID == "")
		if err != nil {
			return err
		}
		defer a.close()
		ctx := cmd.Context()

		var q *quizgen.Quiz
		if quizID != "" {
			if q, err = a.archive.Quiz(ctx, quizID); err != nil {
				return err
			}
			if q == nil {
				return fmt.Errorf("quiz %s not found", quizID)
			}
		} else {
			fmt.Fprintf(cmd.ErrOrStderr(), "Generating %d %s questions for %s...\n", req.QuestionCount, req.Difficulty, req.Skill)
			if q, err = a.engine.Generate(ctx, req); err != nil {
				return err
			}
		}

		res, err := runner.Run(ctx, q)
		if errors.Is(err, runner.ErrAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Quiz abandoned; nothing recorded.")
			return nil
		}
		if err != nil {
			return err
		}

		if err := a.archive.SaveAttempt(ctx, res); err != nil {
			a.log.Warn("failed to save attempt", "quiz", q.ID, "error", err)
		}
		if pub, err := a.events(); err != nil {
			a.log.Warn("event publisher unavailable", "error", err)
		} else if err := pub.PublishQuizGraded(ctx, res); err != nil {
			a.log.Warn("failed to publish graded event", "quiz", q.ID, "error", err)
		}
		writeGrade(cmd.OutOrStdout(), q, res)
		return nil
	},
}

func writeGrade(w io.Writer, q *quizgen.Quiz, r *quizgen.GradeResult) {
	verdict := "NOT PASSED"
	if r.Passed {
		verdict = "PASSED"
	}
	fmt.Fprintf(w, "%s %s: %d%% (%d/%d correct", q.Skill, q.Difficulty, r.ScorePercent, r.Correct, r.Total)
	if r.Timeouts > 0 {
		fmt.Fprintf(w, ", %d timed out", r.Timeouts)
	}
	fmt.Fprintf(w, ") %s\n", verdict)
	for i, o := range r.Outcomes {
		mark := "✓"
		switch {
		case o.TimedOut:
			mark = "⏱"
		case !o.Correct:
			mark = "✗"
		}
		fmt.Fprintf(w, "  %2d %s  answer %c\n", i+1, mark, 'A'+o.Expected)
	}
}

func init() {
	addRequestFlags(takeCmd)
	takeCmd.Flags().String("quiz", "", "Retake a stored quiz by ID instead of generating one")
}

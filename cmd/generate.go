package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate <skill>",
	Short: "Generate a quiz and print it",
	Long: "Generate a validated quiz for a skill. Modes: legacy (default), assessment,\n" +
		"scenario and strict. Scenario and strict quizzes always have 10 questions.",
	Example: `  skillcheck generate SQL --difficulty beginner --mode strict
  skillcheck generate "Sourdough baking" -n 5 --format text`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requestFromFlags(cmd, args)
		if err != nil {
			return err
		}
		format, _ := cmd.Flags().GetString("format")

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		q, err := a.engine.Generate(cmd.Context(), req)
		if err != nil {
			return err
		}
		return writeQuiz(cmd.OutOrStdout(), q, format)
	},
}

func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("difficulty", "d", "intermediate", "beginner, intermediate, advanced or expert")
	cmd.Flags().IntP("count", "n", 0, "Number of questions (default 10)")
	cmd.Flags().StringP("mode", "m", "", "Generation mode: "+strings.Join(quizgen.ModeNames(), ", "))
}

// requestFromFlags builds a request from the skill arguments and the
// shared flags. Multiple arguments are joined into one skill name.
func requestFromFlags(cmd *cobra.Command, args []string) (quizgen.Request, error) {
	diffFlag, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")
	mode, _ := cmd.Flags().GetString("mode")

	diff, err := quizgen.ParseDifficulty(diffFlag)
	if err != nil {
		return quizgen.Request{}, err
	}
	if count == 0 {
		count = 10
	}
	req := quizgen.Request{
		Skill:         strings.Join(args, " "),
		Difficulty:    diff,
		QuestionCount: count,
		Mode:          mode,
	}
	return req, req.Validate()
}

func writeQuiz(w io.Writer, q *quizgen.Quiz, format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		return writeJSON(w, q)
	case "legacy":
		return writeJSON(w, q.Legacy())
	case "text":
		writeQuizText(w, q)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json, legacy or text)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeQuizText(w io.Writer, q *quizgen.Quiz) {
	fmt.Fprintf(w, "%s (%s, %s): %d questions, %ds total\n", q.Skill, q.Difficulty, q.Domain, len(q.Questions), q.TotalTimeSeconds())
	fmt.Fprintf(w, "Quiz %s\n", q.ID)
	if pc := q.PassCriteria; pc != nil {
		fmt.Fprintf(w, "Pass: %.0f%%, %d correct, at most %d timeout(s)\n", pc.MinScorePercent, pc.MinCorrectAnswers, pc.TimeoutsAllowed)
	}
	for i, qq := range q.Questions {
		fmt.Fprintf(w, "\n%d. ", i+1)
		if qq.QuestionType != "" {
			fmt.Fprintf(w, "[%s] ", qq.QuestionType)
		}
		fmt.Fprintf(w, "(%ds)\n", qq.TimeLimitSeconds)
		if qq.Scenario != "" {
			fmt.Fprintf(w, "   %s\n", qq.Scenario)
		}
		fmt.Fprintf(w, "   %s\n", qq.Question)
		if qq.CodeSnippet != "" {
			fmt.Fprintf(w, "   %s\n", strings.ReplaceAll(qq.CodeSnippet, "\n", "\n   "))
		}
		for j, opt := range qq.Options {
			mark := " "
			if j == qq.CorrectAnswerIndex {
				mark = "*"
			}
			fmt.Fprintf(w, "  %s %c) %s\n", mark, 'A'+j, opt)
		}
		if qq.Explanation != "" {
			fmt.Fprintf(w, "   → %s\n", qq.Explanation)
		}
	}
	for _, warn := range q.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

func init() {
	addRequestFlags(generateCmd)
	generateCmd.Flags().StringP("format", "f", "json", "Output format: json, legacy or text")
}

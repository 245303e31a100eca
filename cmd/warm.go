package cmd

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/skillcheck/internal/quizgen"
)

var warmCmd = &cobra.Command{
	Use:   "warm <skill>...",
	Short: "Pre-generate quizzes for several skills and difficulties",
	Long: "Generate one quiz per skill and difficulty, in parallel, so later requests are\n" +
		"served from the cache. Most useful with the redis cache backend.",
	Example: `  skillcheck warm SQL Go Kubernetes --difficulties beginner,advanced --mode strict`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		diffs, _ := cmd.Flags().GetStringSlice("difficulties")
		mode, _ := cmd.Flags().GetString("mode")
		count, _ := cmd.Flags().GetInt("count")
		parallel, _ := cmd.Flags().GetInt("parallel")

		var reqs []quizgen.Request
		for _, skill := range args {
			for _, d := range diffs {
				diff, err := quizgen.ParseDifficulty(d)
				if err != nil {
					return err
				}
				req := quizgen.Request{Skill: skill, Difficulty: diff, QuestionCount: count, Mode: mode}
				if err := req.Validate(); err != nil {
					return err
				}
				reqs = append(reqs, req)
			}
		}

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.close()

		var (
			mu     sync.Mutex
			failed []string
		)
		out := cmd.OutOrStdout()
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(max(parallel, 1))
		for _, req := range reqs {
			g.Go(func() error {
				start := time.Now()
				q, err := a.engine.Generate(ctx, req)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed = append(failed, fmt.Sprintf("%s/%s", req.Skill, req.Difficulty))
					fmt.Fprintf(out, "✗ %-24s %-12s %v\n", req.Skill, req.Difficulty, err)
					return nil
				}
				fmt.Fprintf(out, "✓ %-24s %-12s %s (%d questions, %s)\n",
					req.Skill, req.Difficulty, q.ID, len(q.Questions), time.Since(start).Round(time.Millisecond))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d quizzes failed: %s", len(failed), len(reqs), strings.Join(failed, ", "))
		}
		return nil
	},
}

func init() {
	warmCmd.Flags().StringSlice("difficulties", []string{"beginner", "intermediate", "advanced", "expert"}, "Difficulties to generate")
	warmCmd.Flags().StringP("mode", "m", "", "Generation mode: "+strings.Join(quizgen.ModeNames(), ", "))
	warmCmd.Flags().IntP("count", "n", 10, "Number of questions per quiz")
	warmCmd.Flags().IntP("parallel", "p", 4, "Maximum concurrent generations")
}

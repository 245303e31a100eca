package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/quizgen"
)

var promptCmd = &cobra.Command{
	Use:   "prompt <skill>",
	Short: "Print the prompt that would be sent for a quiz request",
	Long:  "Render the system and user prompt for a request without calling any model.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requestFromFlags(cmd, args)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		composer := quizgen.NewComposer()
		if cfg.Prompts != "" {
			f, err := os.Open(cfg.Prompts)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := composer.LoadOverrides(f); err != nil {
				return err
			}
		}

		p, err := quizgen.New(nil, quizgen.DefaultConfig(), quizgen.WithComposer(composer)).Prompt(req)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		sep := strings.Repeat("─", 60)
		fmt.Fprintf(w, "%s\nSYSTEM\n%s\n%s\n\n%s\nUSER\n%s\n%s\n", sep, sep, p.System, sep, sep, p.User)
		return nil
	},
}

func init() {
	addRequestFlags(promptCmd)
}

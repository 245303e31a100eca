package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/skilldomain"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <skill>",
	Short: "Show which domain a skill maps to and why",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := skilldomain.Explain(strings.Join(args, " "))
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(cmd.OutOrStdout(), c)
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Skill:      %s\n", c.Skill)
		fmt.Fprintf(w, "Normalized: %s\n", c.Normalized)
		fmt.Fprintf(w, "Domain:     %s (%s)\n", c.Domain, c.Method)
		for _, s := range c.Scores {
			fmt.Fprintf(w, "  %-12s %3d  %s\n", s.Domain, s.Score, strings.Join(s.Hits, ", "))
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().Bool("json", false, "Print the classification as JSON")
}

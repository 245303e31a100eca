package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/llm"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and available LLM providers",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "skillcheck", version)
		fmt.Fprintf(cmd.OutOrStdout(), "providers: mistral, anthropic, openai, gemini, openrouter, mock, %s\n",
			strings.Join(llm.Registered(), ", "))
	},
}

package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "skillcheck",
	Short: "Generate and take skill assessment quizzes",
	Long: "skillcheck asks an LLM for multiple-choice skill assessments, validates and repairs\n" +
		"the result, and lets you take the quiz in the terminal with per-question timers.",
	SilenceUsage: true,
}

// ExecuteContext runs the root command. ctx is cancelled on interrupt so
// in-flight generations stop promptly.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides SKILLCHECK_DB)")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/skillcheck/config.yaml)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (overrides SKILLCHECK_LOG_LEVEL)")
	pf.String("provider", "", "LLM provider (overrides SKILLCHECK_LLM_PROVIDER)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(warmCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the config file / SKILLCHECK_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}

package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizterm/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizterm",
	Short: "Terminal client for timed, proctored assessments",
	Long: "Quizterm — sign in with your access code, answer a timed question set\n" +
		"in the terminal, and submit for server-side scoring. A crash or reload\n" +
		"mid-quiz resumes where you left off.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTake(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// .env next to the binary is a convenience for local runs; absence
	// is not an error.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("db", "", "Path to session database file (overrides QUIZTERM_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (overrides QUIZTERM_CONFIG env var)")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using the --db flag (highest
// priority), then QUIZTERM_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

package cmd

import (
	"github.com/socraticlabs/socratic-cli/internal/config"
	"github.com/socraticlabs/socratic-cli/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "socratic",
	Short: "Take tests with an AI tutor in your terminal",
	Long: "Socratic is the terminal client for the Socratic assessment platform:\n" +
		"join a test by code, work through it with an AI tutor, and submit your answers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite history database (overrides SOCRATIC_DB)")
	rootCmd.PersistentFlags().String("user", "", "Student user ID (overrides SOCRATIC_USER_ID)")

	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then SOCRATIC_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/socraticlabs/socratic-cli/internal/api"
	"github.com/socraticlabs/socratic-cli/internal/app"
	"github.com/socraticlabs/socratic-cli/internal/auth"
	"github.com/socraticlabs/socratic-cli/internal/config"
	"github.com/socraticlabs/socratic-cli/internal/logging"
	"github.com/socraticlabs/socratic-cli/internal/store"
	"github.com/spf13/cobra"
)

// runApp builds the client dependencies and launches the TUI. When code is
// non-empty the app opens directly into that test session.
func runApp(cmd *cobra.Command, code string) error {
	cfg := config.Load()
	log := logging.New(cfg.LogFile, cfg.LogLevel)

	userID := cfg.UserID
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		userID = u
	}

	// Credentials are optional; anonymous use works against a dev server.
	var creds *auth.Credentials
	if dir, err := config.ConfigDir(); err == nil {
		if c, err := auth.Load(dir); err == nil {
			if c.Expired(time.Now()) {
				fmt.Fprintln(os.Stderr, "Your login has expired. Run: socratic login")
			}
			creds = c
		}
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	client := api.NewClient(cfg.APIBaseURL, userID, creds, api.Timeouts{
		Fetch:    cfg.FetchTimeout,
		Chat:     cfg.ChatTimeout,
		Validate: cfg.ValidateTimeout,
	}, log)

	return app.Run(app.Deps{
		Client:  client,
		Results: st.Results(),
		UserID:  userID,
		Log:     log,
	}, code)
}

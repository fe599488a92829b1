package cmd

import (
	"errors"
	"fmt"

	"github.com/socraticlabs/socratic-cli/internal/auth"
	"github.com/socraticlabs/socratic-cli/internal/config"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save platform credentials",
	Long: "Store an access token issued by the platform. The token is written to\n" +
		"the config directory and sent as a Bearer header on every API call.",
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		refresh, _ := cmd.Flags().GetString("refresh")
		name, _ := cmd.Flags().GetString("name")
		userType, _ := cmd.Flags().GetString("type")

		creds := &auth.Credentials{
			AccessToken:  token,
			RefreshToken: refresh,
			UserName:     name,
			UserType:     userType,
		}

		dir, err := config.ConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		if err := auth.Save(dir, creds); err != nil {
			return fmt.Errorf("save credentials: %w", err)
		}

		if exp, err := creds.ExpiresAt(); err == nil {
			fmt.Printf("Logged in. Token expires %s.\n", exp.Format("2006-01-02 15:04"))
		} else {
			fmt.Println("Logged in.")
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.ConfigDir()
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		if _, err := auth.Load(dir); errors.Is(err, auth.ErrNotLoggedIn) {
			fmt.Println("Not logged in.")
			return nil
		}
		if err := auth.Clear(dir); err != nil {
			return fmt.Errorf("clear credentials: %w", err)
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().String("token", "", "Access token (required)")
	loginCmd.Flags().String("refresh", "", "Refresh token")
	loginCmd.Flags().String("name", "", "Display name")
	loginCmd.Flags().String("type", "student", "Account type")
	_ = loginCmd.MarkFlagRequired("token")
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/jobagent/internal/google"
)

func newAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize Gmail access",
		Long: `Run the OAuth flow for the Gmail account jobagent should triage. Visit
the printed URL, grant access and paste the authorization code back. The
refresh token is cached; auth only needs to run again if access is revoked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
				return fmt.Errorf("google_client_id and google_client_secret must be configured")
			}

			auth := google.NewAuth(cfg.GoogleClientID, cfg.GoogleClientSecret)
			if auth.HasToken() {
				fmt.Println("A cached token already exists; continuing will replace it.")
			}

			fmt.Printf("Visit the following URL and authorize access:\n\n  %s\n\n", auth.AuthURL())
			fmt.Print("Paste the authorization code: ")

			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read authorization code: %w", err)
			}

			if err := auth.SaveToken(cmd.Context(), strings.TrimSpace(code)); err != nil {
				return err
			}

			fmt.Println("Token saved.")
			return nil
		},
	}
}

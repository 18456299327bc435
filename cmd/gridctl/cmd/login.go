package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the server",
	Long: `Authenticate against the GridWatch server and print an access token.

The password is read from GRIDWATCH_PASSWORD if set, otherwise prompted
for on the terminal. The token is printed to stdout so it can be
captured into GRIDWATCH_TOKEN.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "admin", "username")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := os.Getenv("GRIDWATCH_PASSWORD")
	if password == "" {
		fmt.Fprintf(os.Stderr, "Password for %s: ", loginUsername)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimSpace(string(raw))
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		TokenType   string `json:"token_type"`
	}
	body := map[string]string{"username": loginUsername, "password": password}
	if err := apiRequest("POST", "/api/v1/auth/login", body, &resp); err != nil {
		return err
	}

	if GetOutput() == "json" {
		printJSON(resp)
		return nil
	}

	// Token alone on stdout so it can be captured by shell substitution.
	fmt.Println(resp.AccessToken)
	fmt.Fprintf(os.Stderr, "Token valid for %d seconds\n", resp.ExpiresIn)
	return nil
}

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/drivewiki/drivewiki/internal/drive"
	"github.com/drivewiki/drivewiki/internal/tokenfile"
)

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize access to Google Drive",
		Long: `Runs the OAuth2 authorization flow and saves the resulting token.

Prints an authorization URL; open it in a browser, approve access, and paste
the code parameter from the redirect back into the terminal.`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}
}

func runLogin(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := buildLogger()

	oc, err := oauthConfig()
	if err != nil {
		return err
	}

	url := oc.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	fmt.Println("Open this URL in a browser and approve access:")
	fmt.Println()
	fmt.Println("  " + url)
	fmt.Println()
	fmt.Print("Paste the authorization code: ")

	reader := bufio.NewReader(os.Stdin)

	code, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading authorization code: %w", err)
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return fmt.Errorf("no authorization code provided")
	}

	tok, err := oc.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("exchanging authorization code: %w", err)
	}

	// Resolve the account email before saving so whoami works offline.
	client := drive.NewClient(drive.DefaultBaseURL, defaultHTTPClient(),
		drive.TokenAdapter{Source: oc.TokenSource(ctx, tok)}, logger)

	account := ""

	user, err := client.About(ctx)
	if err != nil {
		logger.Warn("could not resolve account email", "error", err)
	} else {
		account = user.Email
	}

	if err := tokenfile.Save(tokenPath(), tok, account); err != nil {
		return err
	}

	if account != "" {
		fmt.Printf("Logged in as %s\n", account)
	} else {
		fmt.Println("Logged in")
	}

	return nil
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the authenticated account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tok, account, err := tokenfile.Load(tokenPath())
			if err != nil {
				return err
			}

			if tok == nil {
				return errNotLoggedIn
			}

			if account != "" {
				fmt.Println(account)

				return nil
			}

			// Older token files lack the cached email; ask the API.
			client, err := buildDriveClient(cmd.Context(), buildLogger())
			if err != nil {
				return err
			}

			user, err := client.About(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println(user.Email)

			return nil
		},
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/oauth2"

	"github.com/drivewiki/drivewiki/internal/config"
	"github.com/drivewiki/drivewiki/internal/drive"
	"github.com/drivewiki/drivewiki/internal/tokenfile"
)

// errNotLoggedIn is returned when a command needs Drive access but no token
// file exists yet.
var errNotLoggedIn = errors.New("not logged in, run 'drivewiki login' first")

// tokenPath returns the configured token file location, falling back to the
// per-user default.
func tokenPath() string {
	if resolvedCfg != nil && resolvedCfg.Auth.TokenFile != "" {
		return resolvedCfg.Auth.TokenFile
	}

	return config.DefaultTokenPath()
}

// oauthConfig builds the OAuth2 client configuration from the resolved
// credentials.
func oauthConfig() (*oauth2.Config, error) {
	if resolvedCfg.Auth.ClientID == "" || resolvedCfg.Auth.ClientSecret == "" {
		return nil, errors.New("auth.client_id and auth.client_secret must be configured")
	}

	return &oauth2.Config{
		ClientID:     resolvedCfg.Auth.ClientID,
		ClientSecret: resolvedCfg.Auth.ClientSecret,
		Endpoint:     drive.OAuthEndpoint,
		Scopes:       []string{drive.OAuthScope},
		RedirectURL:  "http://localhost:8079/oauth/callback",
	}, nil
}

// buildDriveClient loads the saved token and returns an authenticated Drive
// client. The oauth2 token source refreshes transparently; refreshed tokens
// are not written back — the refresh token itself is long-lived.
func buildDriveClient(ctx context.Context, logger *slog.Logger) (*drive.Client, error) {
	oc, err := oauthConfig()
	if err != nil {
		return nil, err
	}

	tok, _, err := tokenfile.Load(tokenPath())
	if err != nil {
		return nil, err
	}

	if tok == nil {
		return nil, errNotLoggedIn
	}

	source := oc.TokenSource(ctx, tok)

	return drive.NewClient(drive.DefaultBaseURL, defaultHTTPClient(), drive.TokenAdapter{Source: source}, logger), nil
}

// driveMode returns the configured addressing mode.
func driveMode() drive.Mode {
	return drive.ParseMode(resolvedCfg.Drive.Mode)
}

// listOptions derives the listing parameters for the configured mode. Team
// mode addresses the shared drive explicitly; shared mode sends nothing.
func listOptions() drive.ListOptions {
	if driveMode() != drive.ModeTeam {
		return drive.ListOptions{}
	}

	return drive.ListOptions{
		Corpora:     "teamDrive",
		TeamDriveID: resolvedCfg.Drive.TeamDriveID,
	}
}

// requireRootFolder validates that the commands touching the remote tree have
// a configured root container.
func requireRootFolder() error {
	if resolvedCfg.Drive.RootFolderID == "" {
		return errors.New("drive.root_folder_id must be configured (or set DRIVEWIKI_ROOT_FOLDER_ID)")
	}

	return nil
}

// rootName returns the display label for the root container.
func rootName() string {
	if resolvedCfg.Drive.RootName != "" {
		return resolvedCfg.Drive.RootName
	}

	return "Library"
}

// describeMode returns the mode in human-readable form for log output.
func describeMode() string {
	if driveMode() == drive.ModeTeam {
		return fmt.Sprintf("team (%s)", resolvedCfg.Drive.TeamDriveID)
	}

	return "shared"
}

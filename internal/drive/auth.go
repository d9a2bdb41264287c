package drive

import (
	"golang.org/x/oauth2"
)

// TokenAdapter bridges an oauth2.TokenSource (which refreshes transparently)
// to the client's TokenSource interface.
type TokenAdapter struct {
	Source oauth2.TokenSource
}

// Token returns the current bearer token, refreshing it if expired.
func (a TokenAdapter) Token() (string, error) {
	tok, err := a.Source.Token()
	if err != nil {
		return "", err
	}

	return tok.AccessToken, nil
}

// OAuthScope is the Drive scope the site requires: full read access plus the
// ability to update parents (move) and trash files.
const OAuthScope = "https://www.googleapis.com/auth/drive"

// OAuthEndpoint is Google's OAuth2 endpoint.
var OAuthEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

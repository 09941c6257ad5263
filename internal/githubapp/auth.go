// Package githubapp handles GitHub App credentials and pull-request access.
package githubapp

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v68/github"
)

const appTokenTTL = 9 * time.Minute

// Credentials exchanges a GitHub App identity for short-lived installation
// access tokens: mint an RS256 app JWT, then POST to the installation's
// access-tokens endpoint.
type Credentials struct {
	appId      string
	privateKey *rsa.PrivateKey
	httpClient *http.Client
	baseURL    string
}

// NewCredentials parses the base64-encoded PEM private key the App was
// configured with.
func NewCredentials(appId, privateKeyB64 string) (*Credentials, error) {
	if appId == "" {
		return nil, fmt.Errorf("GitHub App id is not set")
	}
	pemBytes, err := base64.StdEncoding.DecodeString(privateKeyB64)
	if err != nil {
		return nil, fmt.Errorf("decoding GitHub App private key: %w", err)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing GitHub App private key: %w", err)
	}
	return &Credentials{
		appId:      appId,
		privateKey: key,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// NewCredentialsWithBaseURL points the token exchange at a custom API base
// URL. Intended for tests against an httptest server.
func NewCredentialsWithBaseURL(appId, privateKeyB64, baseURL string) (*Credentials, error) {
	creds, err := NewCredentials(appId, privateKeyB64)
	if err != nil {
		return nil, err
	}
	creds.baseURL = baseURL
	return creds, nil
}

// appJWT mints the app-level JWT GitHub expects: issuer is the app id, issued
// slightly in the past to tolerate clock drift.
func (c *Credentials) appJWT(now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    c.appId,
		IssuedAt:  jwt.NewNumericDate(now.Add(-30 * time.Second)),
		ExpiresAt: jwt.NewNumericDate(now.Add(appTokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.privateKey)
}

// InstallationToken exchanges an installation id for a short-lived access
// token scoped to that installation's repositories.
func (c *Credentials) InstallationToken(ctx context.Context, installationId int64) (string, error) {
	appToken, err := c.appJWT(time.Now())
	if err != nil {
		return "", fmt.Errorf("signing app JWT: %w", err)
	}

	client := github.NewClient(c.httpClient).WithAuthToken(appToken)
	if c.baseURL != "" {
		u, err := url.Parse(c.baseURL)
		if err != nil {
			return "", fmt.Errorf("parsing base URL: %w", err)
		}
		client.BaseURL = u
	}

	token, _, err := client.Apps.CreateInstallationToken(ctx, installationId, nil)
	if err != nil {
		return "", fmt.Errorf("creating installation token for installation %d: %w", installationId, err)
	}

	return token.GetToken(), nil
}

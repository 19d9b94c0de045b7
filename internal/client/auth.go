package client

import (
	"context"
	"fmt"

	"bridgelog-cli/pkg/models"
)

// Authenticate performs the two-step EEN login: exchange credentials for a
// short-lived token, then exchange the token for the long-lived auth_key
// cookie and the tenant base URL. There is no retry and no refresh; any
// failure here aborts the run.
func (c *EENClient) Authenticate(ctx context.Context, username, password string) (models.Session, error) {
	token, err := c.authenticate(ctx, username, password)
	if err != nil {
		return models.Session{}, err
	}
	return c.authorize(ctx, username, token)
}

// authenticate is step one: POST /g/aaa/authenticate with the credentials
// as query parameters, returning the one-shot token.
func (c *EENClient) authenticate(ctx context.Context, username, password string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, authenticateTimeout)
	defer cancel()

	var respData models.AuthenticateResponse

	resp, err := c.HTTP.R().
		SetContext(reqCtx).
		SetQueryParam("username", username).
		SetQueryParam("password", password).
		SetResult(&respData).
		Post(c.Config.LoginBaseURL + "/g/aaa/authenticate")

	if err != nil {
		return "", &AuthError{Msg: "authenticate request failed", Err: err}
	}

	if resp.IsError() {
		return "", &AuthError{Msg: fmt.Sprintf("authenticate failed with status %d: %s", resp.StatusCode(), snippet(resp.String()))}
	}

	if respData.Token == "" {
		return "", &AuthError{Msg: "authenticate succeeded but no token returned"}
	}

	return respData.Token, nil
}

// authorize is step two: POST /g/aaa/authorize with the token as form body.
// The auth_key cookie and the brand subdomain come back together.
func (c *EENClient) authorize(ctx context.Context, username, token string) (models.Session, error) {
	reqCtx, cancel := context.WithTimeout(ctx, authorizeTimeout)
	defer cancel()

	var respData models.AuthorizeResponse

	resp, err := c.HTTP.R().
		SetContext(reqCtx).
		SetFormData(map[string]string{"token": token}).
		SetResult(&respData).
		Post(c.Config.LoginBaseURL + "/g/aaa/authorize")

	if err != nil {
		return models.Session{}, &AuthError{Msg: "authorize request failed", Err: err}
	}

	if resp.IsError() {
		return models.Session{}, &AuthError{Msg: fmt.Sprintf("authorize failed with status %d: %s", resp.StatusCode(), snippet(resp.String()))}
	}

	authKey := ""
	for _, ck := range resp.Cookies() {
		if ck.Name == "auth_key" {
			authKey = ck.Value
			break
		}
	}
	if authKey == "" {
		return models.Session{}, &AuthError{Msg: "authorize succeeded but no auth_key cookie returned"}
	}

	if respData.ActiveBrandSubdomain == "" {
		return models.Session{}, &AuthError{Msg: "authorize succeeded but no active_brand_subdomain returned"}
	}

	return models.Session{
		AuthKey:  authKey,
		BaseURL:  fmt.Sprintf("https://%s.eagleeyenetworks.com", respData.ActiveBrandSubdomain),
		Username: username,
	}, nil
}

// snippet truncates response bodies quoted in error messages.
func snippet(s string) string {
	const max = 200
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

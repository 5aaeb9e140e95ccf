package httpclient

import (
	"context"
	"net/http"
	"time"

	"adaptik/pkg/adaptive"
)

// Legacy bearer-token surface. The modern API authenticates every call
// with the x-api-key header; these endpoints exchange the key for a
// short-lived token for callers that still need one.

// Authenticate exchanges the configured API key for a bearer token. The
// token is held by this client and replaced wholesale on refresh.
func (c *Client) Authenticate(ctx context.Context) (adaptive.AuthToken, error) {
	body, err := c.do(ctx, http.MethodPost, "client/auth", authRequest{APIKey: c.apiKey}, nil)
	if err != nil {
		return adaptive.AuthToken{}, err
	}
	token, err := mapAuthToken(body)
	if err != nil {
		return adaptive.AuthToken{}, err
	}
	c.token = token
	return token, nil
}

// RefreshToken trades the held token for a fresh one.
func (c *Client) RefreshToken(ctx context.Context) (adaptive.AuthToken, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.token.Token)
	body, err := c.do(ctx, http.MethodGet, "client/token", nil, header)
	if err != nil {
		return adaptive.AuthToken{}, err
	}
	token, err := mapAuthToken(body)
	if err != nil {
		return adaptive.AuthToken{}, err
	}
	c.token = token
	return token, nil
}

// Token returns a bearer token that is valid for at least the refresh
// window, authenticating or refreshing as needed.
func (c *Client) Token(ctx context.Context) (adaptive.AuthToken, error) {
	if c.token.Token == "" {
		return c.Authenticate(ctx)
	}
	if c.token.ExpiresSoon(time.Now()) {
		return c.RefreshToken(ctx)
	}
	return c.token, nil
}

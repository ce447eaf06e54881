package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCred caches an OAuth2 client-credentials token. It is safe for
// concurrent use.
type ClientCred struct {
	conf  clientcredentials.Config
	mu    sync.Mutex
	token *oauth2.Token
}

func NewClientCred(conf Conf) *ClientCred {
	return &ClientCred{
		conf: conf.toOauth2Config(),
	}
}

// GetToken retrieves a valid access token. If the current token is valid, it returns the existing token.
// Otherwise, it requests a new token using the client credentials configuration.
func (c *ClientCred) GetToken() (string, error) {
	tok, err := c.valid()
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

func (c *ClientCred) valid() (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != nil && c.token.Valid() {
		return c.token, nil
	}
	if err := c.fetch(); err != nil {
		return nil, err
	}
	return c.token, nil
}

// fetch must be called with mu held.
func (c *ClientCred) fetch() error {
	tok, err := c.conf.Token(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}
	c.token = tok
	return nil
}

// ForceRefresh retrieves a new token even when the cached one is still
// valid, e.g. after the model server rejected it.
func (c *ClientCred) ForceRefresh() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.fetch(); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

func (c *ClientCred) SetAuthHeader(r *http.Request) error {
	tok, err := c.valid()
	if err != nil {
		return err
	}
	tok.SetAuthHeader(r)
	return nil
}

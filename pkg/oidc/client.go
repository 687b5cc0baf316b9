package oidc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/admin-sso/gateway/pkg/oauth2"
)

// Config describes one OpenID Connect provider. All endpoint URLs are
// configured explicitly instead of being discovered, so the gateway also
// works with providers that do not publish a discovery document.
type Config struct {
	ClientID              string        `yaml:"client_id" validate:"required"`
	ClientSecret          SecretString  `yaml:"client_secret" validate:"required"`
	RedirectURI           string        `yaml:"redirect_uri" validate:"required"`
	Scopes                string        `yaml:"scopes" validate:"required"`
	GrantType             string        `yaml:"grant_type" validate:"required"`
	AuthorizationEndpoint string        `yaml:"authorization_endpoint" validate:"required"`
	TokenEndpoint         string        `yaml:"token_endpoint" validate:"required"`
	UserInfoEndpoint      string        `yaml:"user_info_endpoint" validate:"required"`
	// UserInfoAuthHeader selects how the bearer credential is presented to
	// the user-info endpoint: Authorization header when true, access_token
	// query parameter when false. Exactly one of the two is used.
	UserInfoAuthHeader bool          `yaml:"user_info_auth_header"`
	Timeout            time.Duration `yaml:"timeout"`
}

type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// AuthCodeURL builds the authorization endpoint URL. The state value is
// propagated verbatim; url.Values takes care of transport encoding so it
// round-trips byte for byte.
func (c *Client) AuthCodeURL(state string) string {
	query := url.Values{}
	query.Add("response_type", "code")
	query.Add("client_id", c.cfg.ClientID)
	query.Add("redirect_uri", c.cfg.RedirectURI)
	query.Add("scope", c.cfg.Scopes)
	query.Add("state", state)

	return fmt.Sprintf("%s?%s", c.cfg.AuthorizationEndpoint, query.Encode())
}

// Exchange trades an authorization code for a token response with a single
// form-encoded POST to the token endpoint.
func (c *Client) Exchange(ctx context.Context, code string) (*oauth2.TokenResponse, error) {
	params := url.Values{}
	params.Set("code", code)
	params.Set("client_id", c.cfg.ClientID)
	params.Set("client_secret", c.cfg.ClientSecret.Value())
	params.Set("redirect_uri", c.cfg.RedirectURI)
	params.Set("grant_type", c.cfg.GrantType)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenEndpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("unable to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange code for token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		oidcErr := new(oauth2.Error)
		if err := json.Unmarshal(body, oidcErr); err != nil || oidcErr.Code == "" {
			return nil, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return nil, oidcErr
	}

	var tokenResponse oauth2.TokenResponse
	if err := json.Unmarshal(body, &tokenResponse); err != nil {
		return nil, fmt.Errorf("unable to decode token response: %w", err)
	}

	return &tokenResponse, nil
}

// UserInfo fetches the user-info document. Claims are returned as a map
// because the attribute names for given and family name are configured, not
// fixed.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (map[string]any, error) {
	endpoint := c.cfg.UserInfoEndpoint
	if !c.cfg.UserInfoAuthHeader {
		query := url.Values{}
		query.Set("access_token", accessToken)
		endpoint = fmt.Sprintf("%s?%s", endpoint, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to build user-info request: %w", err)
	}
	if c.cfg.UserInfoAuthHeader {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read user-info response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("user-info endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	userInfo := make(map[string]any)
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("unable to decode user info: %w", err)
	}

	return userInfo, nil
}

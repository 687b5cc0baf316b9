package sso

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/admin-sso/gateway/pkg/oidc"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		OIDC: oidc.Config{
			ClientID:              "admin-cli",
			ClientSecret:          oidc.NewSecretString("top-secret"),
			RedirectURI:           "http://localhost:1337/oidc/callback",
			Scopes:                "openid profile email",
			GrantType:             "authorization_code",
			AuthorizationEndpoint: "https://idp.example.com/auth",
			TokenEndpoint:         "https://idp.example.com/token",
			UserInfoEndpoint:      "https://idp.example.com/userinfo",
			Timeout:               5 * time.Second,
		},
		FamilyNameField: "family_name",
		GivenNameField:  "given_name",
		IdPPublicHost:   "https://idp.example.com",
		Realm:           "master",
		PublicHost:      "https://sso.example.com",
		AdminURL:        "https://admin.example.com/admin",
		SessionTTL:      time.Hour,
		Addr:            ":8080",
	}
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

// A single missing setting must fail with the complete list of required
// keys, not just the missing one.
func TestValidateEnumeratesAllRequiredKeys(t *testing.T) {
	requiredKeys := []string{
		"OIDC_AUTHORIZATION_ENDPOINT",
		"OIDC_TOKEN_ENDPOINT",
		"OIDC_USER_INFO_ENDPOINT",
		"OIDC_CLIENT_ID",
		"OIDC_CLIENT_SECRET",
		"OIDC_REDIRECT_URI",
		"OIDC_SCOPES",
		"OIDC_GRANT_TYPE",
		"OIDC_FAMILY_NAME_FIELD",
		"OIDC_GIVEN_NAME_FIELD",
	}

	mutations := map[string]func(*Config){
		"client id":              func(c *Config) { c.OIDC.ClientID = "" },
		"client secret":          func(c *Config) { c.OIDC.ClientSecret = oidc.SecretString{} },
		"redirect uri":           func(c *Config) { c.OIDC.RedirectURI = "" },
		"scopes":                 func(c *Config) { c.OIDC.Scopes = "" },
		"grant type":             func(c *Config) { c.OIDC.GrantType = "" },
		"authorization endpoint": func(c *Config) { c.OIDC.AuthorizationEndpoint = "" },
		"token endpoint":         func(c *Config) { c.OIDC.TokenEndpoint = "" },
		"user info endpoint":     func(c *Config) { c.OIDC.UserInfoEndpoint = "" },
		"family name field":      func(c *Config) { c.FamilyNameField = "" },
		"given name field":       func(c *Config) { c.GivenNameField = "" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			for _, key := range requiredKeys {
				require.Contains(t, err.Error(), key)
			}
		})
	}
}

// The secret lives behind SecretString's unexported field, so it needs the
// custom type func to be visible to validation at all.
func TestValidateRejectsEmptyClientSecret(t *testing.T) {
	cfg := validConfig()
	cfg.OIDC.ClientSecret = oidc.SecretString{}
	require.Error(t, cfg.Validate())

	cfg.OIDC.ClientSecret = oidc.NewSecretString("")
	require.Error(t, cfg.Validate())
}

func TestLogoutURL(t *testing.T) {
	url := validConfig().LogoutURL()
	require.Equal(t,
		"https://idp.example.com/realms/master/protocol/openid-connect/logout?post_logout_redirect_uri=https://sso.example.com/oidc/&client_id=admin-cli",
		url)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sso.yaml")
	content := `
oidc:
  client_id: admin-cli
  client_secret: top-secret
  redirect_uri: http://localhost:1337/oidc/callback
  scopes: openid profile email
  grant_type: authorization_code
  authorization_endpoint: https://idp.example.com/auth
  token_endpoint: https://idp.example.com/token
  user_info_endpoint: https://idp.example.com/userinfo
family_name_field: family_name
given_name_field: given_name
default_roles:
  - "1"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	require.Equal(t, "admin-cli", cfg.OIDC.ClientID)
	require.Equal(t, "top-secret", cfg.OIDC.ClientSecret.Value())
	require.Equal(t, []string{"1"}, cfg.DefaultRoles)
	require.Equal(t, ":8080", cfg.Addr, "defaults apply when the file omits a setting")
}

func TestLoadConfigFileIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sso.yaml")
	require.NoError(t, os.WriteFile(path, []byte("oidc:\n  client_id: admin-cli\n"), 0o600))

	_, err := LoadConfigFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "OIDC_TOKEN_ENDPOINT")
}

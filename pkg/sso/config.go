package sso

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/admin-sso/gateway/pkg/oidc"
	"github.com/admin-sso/gateway/pkg/util"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RequiredSettings enumerates every mandatory setting. Validation failures
// report the full list, not just the missing key, so operators can fix the
// deployment in one pass.
const RequiredSettings = "OIDC_AUTHORIZATION_ENDPOINT, OIDC_TOKEN_ENDPOINT, " +
	"OIDC_USER_INFO_ENDPOINT, OIDC_CLIENT_ID, OIDC_CLIENT_SECRET, " +
	"OIDC_REDIRECT_URI, OIDC_SCOPES, OIDC_GRANT_TYPE, " +
	"OIDC_FAMILY_NAME_FIELD and OIDC_GIVEN_NAME_FIELD"

// Config is the full gateway configuration. It is loaded once and treated as
// read-only afterwards.
type Config struct {
	OIDC oidc.Config `yaml:"oidc"`

	// Attribute names holding the name parts in the user-info document.
	// They differ between providers, so they are configured, not fixed.
	FamilyNameField string `yaml:"family_name_field" validate:"required"`
	GivenNameField  string `yaml:"given_name_field" validate:"required"`

	// Role gating. Sign-in is authorized only when the token carries
	// RequiredRole under resource_access[RoleClientID]. Leaving either
	// empty disables the check and always authorizes.
	RoleClientID string `yaml:"role_client_id"`
	RequiredRole string `yaml:"required_role"`

	// RememberMe selects persistent over session-scoped client storage for
	// the issued session token.
	RememberMe bool `yaml:"remember_me"`

	// Pieces of the "try another account" logout link on the error page.
	IdPPublicHost string `yaml:"idp_public_host"`
	Realm         string `yaml:"realm"`
	PublicHost    string `yaml:"public_host"`

	// AdminURL is where the success page sends the browser after storing
	// the session token.
	AdminURL string `yaml:"admin_url"`

	// DefaultRoles are attached to newly provisioned users.
	DefaultRoles []string `yaml:"default_roles"`

	// WebhookURL receives the post-creation webhook. Empty disables it.
	WebhookURL string `yaml:"webhook_url"`

	SessionSecret oidc.SecretString `yaml:"session_secret"`
	SessionTTL    time.Duration     `yaml:"session_ttl"`

	Addr string `yaml:"addr"`
}

// FromEnv builds the configuration from environment variables. The OIDC_*
// names match what the admin framework's SSO plugin uses, so existing
// deployments carry over unchanged.
func FromEnv() Config {
	return Config{
		OIDC: oidc.Config{
			ClientID:              os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret:          oidc.NewSecretString(os.Getenv("OIDC_CLIENT_SECRET")),
			RedirectURI:           os.Getenv("OIDC_REDIRECT_URI"),
			Scopes:                os.Getenv("OIDC_SCOPES"),
			GrantType:             os.Getenv("OIDC_GRANT_TYPE"),
			AuthorizationEndpoint: os.Getenv("OIDC_AUTHORIZATION_ENDPOINT"),
			TokenEndpoint:         os.Getenv("OIDC_TOKEN_ENDPOINT"),
			UserInfoEndpoint:      os.Getenv("OIDC_USER_INFO_ENDPOINT"),
			UserInfoAuthHeader:    util.GetEnvBool("OIDC_USER_INFO_ENDPOINT_WITH_AUTH_HEADER", false),
			Timeout:               envDuration("SSO_HTTP_TIMEOUT", 10*time.Second),
		},
		FamilyNameField: os.Getenv("OIDC_FAMILY_NAME_FIELD"),
		GivenNameField:  os.Getenv("OIDC_GIVEN_NAME_FIELD"),
		RoleClientID:    os.Getenv("OIDC_CLIENT_ID_FOR_ROLE"),
		RequiredRole:    os.Getenv("OIDC_CLIENT_ROLE_CHECK"),
		RememberMe:      util.GetEnvBool("REMEMBER_ME", false),
		IdPPublicHost:   os.Getenv("OIDC_PUBLIC_HOST"),
		Realm:           os.Getenv("OIDC_REALM"),
		PublicHost:      os.Getenv("SSO_PUBLIC_HOST"),
		AdminURL:        util.GetEnv("SSO_ADMIN_URL", "/admin"),
		DefaultRoles:    splitNonEmpty(os.Getenv("OIDC_ROLES")),
		WebhookURL:      os.Getenv("SSO_WEBHOOK_URL"),
		SessionSecret:   oidc.NewSecretString(os.Getenv("SSO_SESSION_SECRET")),
		SessionTTL:      envDuration("SSO_SESSION_TTL", 30*24*time.Hour),
		Addr:            util.GetEnv("SERVER_ADDR", ":8080"),
	}
}

// LoadConfigFile reads the configuration from a YAML file instead of the
// environment.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := Config{
		OIDC:       oidc.Config{Timeout: 10 * time.Second},
		AdminURL:   "/admin",
		SessionTTL: 30 * 24 * time.Hour,
		Addr:       ":8080",
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that every mandatory setting is present. The flow must not
// run at all on a partial configuration, so a single aggregated error names
// the complete required set.
func (c Config) Validate() error {
	validate := validator.New()
	// SecretString hides its value behind an unexported field, which the
	// validator cannot see; expose the wrapped string so `required` checks
	// the secret itself.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) any {
		return field.Interface().(oidc.SecretString).Value()
	}, oidc.SecretString{})
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%s are required", RequiredSettings)
	}
	return nil
}

// LogoutURL builds the IdP logout link offered on the error page so the user
// can retry with another account.
func (c Config) LogoutURL() string {
	return fmt.Sprintf("%s/realms/%s/protocol/openid-connect/logout?post_logout_redirect_uri=%s/oidc/&client_id=%s",
		c.IdPPublicHost, c.Realm, c.PublicHost, c.OIDC.ClientID)
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitNonEmpty(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

package sso

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/admin-sso/gateway/pkg/events"
	"github.com/admin-sso/gateway/pkg/nonce"
	"github.com/admin-sso/gateway/pkg/oauth2"
	"github.com/admin-sso/gateway/pkg/oidc"
	"github.com/admin-sso/gateway/pkg/util"
)

// Error messages are part of the external surface: they end up verbatim on
// the rendered failure page.
var (
	ErrNoAuthorizationCode = errors.New("code Not Found")
	ErrPermissionNotFound  = errors.New("Permission not found")
)

// IdentityProvider is the relying-party view of the IdP.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.TokenResponse, error)
	UserInfo(ctx context.Context, accessToken string) (map[string]any, error)
}

// Service runs the sign-in flow: code exchange, claims gating, provisioning
// and session issuance. Collaborators are injected so tests can swap them.
type Service struct {
	cfg         Config
	idp         IdentityProvider
	provisioner *Provisioner
	issuer      TokenIssuer
	bus         events.Bus
	nonces      nonce.NonceService
}

func NewService(cfg Config, idp IdentityProvider, provisioner *Provisioner, issuer TokenIssuer, bus events.Bus, nonces nonce.NonceService) *Service {
	return &Service{
		cfg:         cfg,
		idp:         idp,
		provisioner: provisioner,
		issuer:      issuer,
		bus:         bus,
		nonces:      nonces,
	}
}

// AuthorizationURL builds the IdP redirect target. The state value passes
// through unmodified.
func (s *Service) AuthorizationURL(state string) string {
	return s.idp.AuthCodeURL(state)
}

// SignInResult is everything the callback response needs.
type SignInResult struct {
	Token string
	User  *User
	Nonce string
}

// Callback runs the whole post-redirect sequence. Every error it returns is
// rendered onto the failure page by the transport layer; the message text is
// all that may leak.
//
// The state parameter returned by the IdP is not matched against the one the
// flow started with; it only passes through. Closing that gap would change
// the external behavior of existing deployments, so it stays open here.
func (s *Service) Callback(ctx context.Context, code, acceptLanguage string) (*SignInResult, error) {
	if code == "" {
		return nil, ErrNoAuthorizationCode
	}

	tokenResponse, err := s.idp.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	slog.Debug("exchanged authorization code", "token", util.JWSToText(tokenResponse.AccessToken))

	userInfo, err := s.idp.UserInfo(ctx, tokenResponse.AccessToken)
	if err != nil {
		return nil, err
	}

	claims, err := oidc.DecodeClaims(tokenResponse.AccessToken)
	if err != nil {
		return nil, err
	}
	if claims == nil || !s.authorized(claims) {
		return nil, ErrPermissionNotFound
	}

	email, _ := userInfo["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("user info contains no email")
	}
	familyName, _ := userInfo[s.cfg.FamilyNameField].(string)
	givenName, _ := userInfo[s.cfg.GivenNameField].(string)

	roles := make([]RoleRef, 0, len(s.cfg.DefaultRoles))
	for _, id := range s.cfg.DefaultRoles {
		roles = append(roles, RoleRef{ID: id})
	}

	user, _, err := s.provisioner.Provision(ctx, email, familyName, givenName, LocaleFromHeader(acceptLanguage), roles)
	if err != nil {
		return nil, err
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}

	s.bus.Emit(ctx, events.AuthSuccess, map[string]any{
		"user":     user,
		"provider": "oidc",
	})

	nonceStr, err := s.nonces.Get()
	if err != nil {
		return nil, fmt.Errorf("unable to generate response nonce: %w", err)
	}

	return &SignInResult{
		Token: token,
		User:  user,
		Nonce: nonceStr,
	}, nil
}

// authorized applies role gating. An unset role client id or required role
// disables the check.
func (s *Service) authorized(claims map[string]any) bool {
	if s.cfg.RoleClientID == "" || s.cfg.RequiredRole == "" {
		return true
	}
	if oidc.HasResourceRole(claims, s.cfg.RoleClientID, s.cfg.RequiredRole) {
		slog.Debug("user has the required role", "role", s.cfg.RequiredRole)
		return true
	}
	slog.Warn("user does not have the required role", "role", s.cfg.RequiredRole)
	return false
}

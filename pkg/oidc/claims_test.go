package oidc

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func forgeToken(t *testing.T, claims map[string]any) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestDecodeClaimsEmptyToken(t *testing.T) {
	claims, err := DecodeClaims("")
	require.NoError(t, err)
	require.Nil(t, claims)
}

func TestDecodeClaims(t *testing.T) {
	token := forgeToken(t, map[string]any{
		"sub":   "1234",
		"email": "admin@example.com",
	})

	claims, err := DecodeClaims(token)
	require.NoError(t, err)
	require.Equal(t, "1234", claims["sub"])
	require.Equal(t, "admin@example.com", claims["email"])
}

func TestDecodeClaimsMalformed(t *testing.T) {
	cases := map[string]string{
		"no payload segment": "justonesegment",
		"bad base64":         "header.!!!not-base64!!!.sig",
		"bad json":           "header." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".sig",
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeClaims(token)
			require.Error(t, err)
		})
	}
}

func TestResourceRoles(t *testing.T) {
	claims := map[string]any{
		"resource_access": map[string]any{
			"admin-cli": map[string]any{
				"roles": []any{"sso-admin", "viewer"},
			},
		},
	}

	require.Equal(t, []string{"sso-admin", "viewer"}, ResourceRoles(claims, "admin-cli"))
	require.Nil(t, ResourceRoles(claims, "other-client"))
	require.Nil(t, ResourceRoles(map[string]any{}, "admin-cli"))
}

func TestHasResourceRole(t *testing.T) {
	token := forgeToken(t, map[string]any{
		"resource_access": map[string]any{
			"admin-cli": map[string]any{
				"roles": []any{"sso-admin"},
			},
		},
	})

	claims, err := DecodeClaims(token)
	require.NoError(t, err)

	require.True(t, HasResourceRole(claims, "admin-cli", "sso-admin"))
	require.False(t, HasResourceRole(claims, "admin-cli", "superuser"))
	require.False(t, HasResourceRole(claims, "unknown", "sso-admin"))
	require.False(t, HasResourceRole(nil, "admin-cli", "sso-admin"))
}

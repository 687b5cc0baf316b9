package oidc

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// DecodeClaims parses the payload segment of a compact JWS without checking
// its signature. The token was obtained directly from the token endpoint
// over a server-to-server call, which is the trust boundary here; adding
// signature verification would change behavior for malformed or foreign
// tokens and has to be introduced as an explicit option.
//
// An empty token yields (nil, nil) and a log entry. A malformed payload is
// an error and propagates to the caller.
func DecodeClaims(token string) (map[string]any, error) {
	if token == "" {
		slog.Warn("no token provided")
		return nil, nil
	}

	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, fmt.Errorf("token has no payload segment")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("unable to decode token payload: %w", err)
	}

	claims := make(map[string]any)
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("unable to parse token payload: %w", err)
	}

	return claims, nil
}

// ResourceRoles returns the role list under resource_access[clientID].roles,
// preserving order. Keycloak places client level roles there.
func ResourceRoles(claims map[string]any, clientID string) []string {
	resourceAccess, ok := claims["resource_access"].(map[string]any)
	if !ok {
		return nil
	}
	clientAccess, ok := resourceAccess[clientID].(map[string]any)
	if !ok {
		return nil
	}
	rawRoles, ok := clientAccess["roles"].([]any)
	if !ok {
		return nil
	}

	roles := make([]string, 0, len(rawRoles))
	for _, r := range rawRoles {
		if role, ok := r.(string); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// HasResourceRole reports whether the required role is present under
// resource_access[clientID].roles.
func HasResourceRole(claims map[string]any, clientID, role string) bool {
	for _, r := range ResourceRoles(claims, clientID) {
		if r == role {
			return true
		}
	}
	return false
}

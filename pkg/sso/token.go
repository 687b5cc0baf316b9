package sso

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/segmentio/ksuid"
)

// TokenIssuer mints the local session credential for a resolved user.
type TokenIssuer interface {
	Issue(user *User) (string, error)
}

// JWTIssuer signs HS256 session tokens the admin application accepts. Every
// sign-in gets a fresh token; prior tokens are neither reused nor revoked.
type JWTIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTIssuer(secret string, ttl time.Duration) *JWTIssuer {
	return &JWTIssuer{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (i *JWTIssuer) Issue(user *User) (string, error) {
	now := time.Now()

	sessionJwt := jwt.New()
	sessionJwt.Set(jwt.SubjectKey, user.ID)
	sessionJwt.Set(jwt.IssuedAtKey, now)
	sessionJwt.Set(jwt.ExpirationKey, now.Add(i.ttl))
	sessionJwt.Set(jwt.JwtIDKey, ksuid.New().String())
	sessionJwt.Set("email", user.Email)

	signed, err := jwt.Sign(sessionJwt, jwt.WithKey(jwa.HS256, i.secret))
	if err != nil {
		return "", fmt.Errorf("unable to sign session token: %w", err)
	}

	return string(signed), nil
}

var _ TokenIssuer = (*JWTIssuer)(nil)

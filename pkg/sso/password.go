package sso

import (
	"github.com/admin-sso/gateway/pkg/oauth2"
)

const passwordAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// passwordLength of 43 characters over a 62-symbol alphabet gives just over
// 256 bits of entropy.
const passwordLength = 43

// GeneratePassword returns the random password assigned to provisioned
// accounts. Nobody ever types it; users only sign in through the IdP.
func GeneratePassword() string {
	return oauth2.RandomString(passwordLength, passwordAlphabet)
}

// Package nonce issues single-use random values. The sign-in success page
// uses them to scope its inline script via a Content-Security-Policy header,
// so every value must be fresh and never repeat.
package nonce

// NonceService issues single-use nonces. The sign-in flow only ever issues;
// redemption stays on the concrete implementations for callers that need to
// consume nonces, e.g. a replay-protected API.
type NonceService interface {
	Get() (string, error)
}

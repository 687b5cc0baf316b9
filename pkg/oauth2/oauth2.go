package oauth2

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// TokenResponse is the body returned by the token endpoint after a
// successful authorization code exchange.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	IDToken      string `json:"id_token,omitempty"`
}

// Error is the standard OAuth2 error body returned by endpoints with a
// non-2xx status code.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// RandomString returns n characters drawn from alphabet using crypto/rand.
func RandomString(n int, alphabet string) string {
	ret := make([]byte, n)
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			panic("Random number generation failed")
		}
		ret[i] = alphabet[num.Int64()]
	}

	return string(ret)
}

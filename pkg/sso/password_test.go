package sso

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePassword(t *testing.T) {
	alphabet := regexp.MustCompile(`^[A-Za-z0-9]{43}$`)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		password := GeneratePassword()
		require.Regexp(t, alphabet, password)

		_, dup := seen[password]
		require.False(t, dup, "generated passwords must not repeat")
		seen[password] = struct{}{}
	}
}

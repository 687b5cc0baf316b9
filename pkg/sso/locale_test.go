package sso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocaleFromHeader(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"ja,en-US;q=0.9,en;q=0.8", "ja"},
		{"en-US,en;q=0.9", "en"},
		{"fr-FR,fr;q=0.9", "en"},
		{"", "en"},
		{"en-US;q=0.9,ja;q=0.8", "ja"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, LocaleFromHeader(tt.header), "header %q", tt.header)
	}
}

func TestGmailAlias(t *testing.T) {
	require.Equal(t, "user+dev@example.com", GmailAlias("user@example.com", "dev"))
	require.Equal(t, "user@example.com", GmailAlias("user@example.com", ""))
	require.Equal(t, "user+dev@example.com", GmailAlias("user@example.com", "+dev"))
	require.Equal(t, "no-at-sign", GmailAlias("no-at-sign", "dev"))
}

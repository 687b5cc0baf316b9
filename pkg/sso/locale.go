package sso

import "strings"

// LocaleFromHeader picks the admin UI locale for a new user from the
// Accept-Language header. Japanese is the only non-default locale the admin
// UI ships with.
func LocaleFromHeader(acceptLanguage string) string {
	if strings.Contains(acceptLanguage, "ja") {
		return "ja"
	}
	return "en"
}

// GmailAlias inserts a plus-alias before the @ of a base address, e.g.
// ("user@example.com", "dev") -> "user+dev@example.com". Empty alias returns
// the address unchanged.
func GmailAlias(baseEmail, alias string) string {
	if alias == "" {
		return baseEmail
	}
	alias = strings.ReplaceAll(alias, "+", "")
	at := strings.Index(baseEmail, "@")
	if at < 0 {
		return baseEmail
	}
	return baseEmail[:at] + "+" + alias + baseEmail[at:]
}

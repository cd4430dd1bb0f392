// Package matrix derives bare Matrix user IDs for the chat layer.
package matrix

import "strings"

// BareUserID maps a login email onto a bare Matrix ID on the configured
// homeserver, e.g. "a@b.com" -> "@a.b.com:matrix.example.com". Returns ""
// when either input is missing so the claim is simply omitted.
func BareUserID(email, domain string) string {
	if email == "" || domain == "" {
		return ""
	}

	localpart := strings.ToLower(email)
	localpart = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_', r == '-', r == '=':
			return r
		default:
			return '.'
		}
	}, localpart)

	return "@" + localpart + ":" + domain
}

package auth

// Identity is a normalized external identity returned by a provider adapter.
// It contains facts only, no authorization decisions; derived fields flow
// into the user record and the issued token, the struct itself is never
// persisted.
type Identity struct {
	Provider    string   // adapter name, e.g. "oidc", "slack", "hackclub"
	Subject     string   // provider-stable unique user identifier
	Email       string   // may be empty
	Username    string   // display name, may be empty
	Locale      string   // may be empty
	Tags        []string // provider-asserted tags, informational only
	AccessToken string   // upstream access token from the exchange
}

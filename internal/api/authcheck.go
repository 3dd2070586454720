package api

import (
	"net/http"
	"strings"
)

// IdentityEndpoint is the canonical "who am I" endpoint. Any 401 from it
// means the session credential itself was rejected.
const IdentityEndpoint = "/auth/me"

// sessionInvalidPhrases are the messages the backend's JWT middleware sends
// when the presented credential is unusable. Matched case-insensitively as
// substrings so wording drift around them doesn't break classification.
var sessionInvalidPhrases = []string{
	"invalid or expired token",
	"token has expired",
	"could not validate credentials",
	"missing authorization header",
	"not authenticated",
}

// IsSessionInvalid reports whether a failed response means the stored
// session is no longer valid. Only JWT-auth failures qualify: a 401 whose
// message matches a known token-rejection phrase, or any 401 from the
// identity endpoint. Third-party 401s (OAuth provider errors, file-host
// denials) relayed through other endpoints do not.
func IsSessionInvalid(status int, message, endpoint string) bool {
	if status != http.StatusUnauthorized {
		return false
	}
	if endpoint == IdentityEndpoint {
		return true
	}
	m := strings.ToLower(message)
	for _, phrase := range sessionInvalidPhrases {
		if strings.Contains(m, phrase) {
			return true
		}
	}
	return false
}

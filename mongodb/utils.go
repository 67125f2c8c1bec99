package mongodb

import (
	"net/url"
)

// RedactURI hides the password of a connection string so it can be logged.
// Unparsable input is fully masked.
func RedactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme == "" {
		return "***"
	}
	return u.Redacted()
}

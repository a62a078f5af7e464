// Wellspring - Mental Health Content Aggregation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellspring

package logging

import (
	"net/url"
	"strings"
)

// sensitiveParams are query parameter names that carry provider credentials.
// Several content providers authenticate with a key in the query string, so
// request URLs must be scrubbed before they reach a log line or an error.
var sensitiveParams = []string{
	"apikey",
	"api_key",
	"key",
	"token",
	"access_token",
	"client_secret",
}

// RedactURL returns raw with the values of credential-bearing query
// parameters replaced by "REDACTED". Unparseable input is returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.RawQuery == "" {
		return raw
	}

	q := u.Query()
	changed := false
	for name := range q {
		if isSensitiveParam(name) {
			q.Set(name, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return raw
	}

	u.RawQuery = q.Encode()
	return u.String()
}

// RedactSecret masks all but the last four characters of a secret.
func RedactSecret(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

func isSensitiveParam(name string) bool {
	lower := strings.ToLower(name)
	for _, p := range sensitiveParams {
		if lower == p {
			return true
		}
	}
	return false
}

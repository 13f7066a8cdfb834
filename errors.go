package xread

import (
	"errors"
	"fmt"
)

// ErrNoCredentials means no credential source yielded anything usable.
// Fatal for the calling operation; never retried.
var ErrNoCredentials = errors.New("no X credentials available")

// ErrLoginRejected means credentials were present but the login flow was
// refused, commonly an automated-challenge block that cookie auth bypasses.
var ErrLoginRejected = errors.New("X login rejected")

// noCredentialsHint is surfaced verbatim to the caller alongside
// ErrNoCredentials.
const noCredentialsHint = "set TWITTER_COOKIES to the raw cookie pairs from a logged-in browser session " +
	"(DevTools > Application > Cookies, copy auth_token and ct0 as name=value pairs), " +
	"or set TWITTER_USERNAME/TWITTER_PASSWORD (optionally TWITTER_EMAIL) for interactive login"

// loginRejectedHint recommends the cookie path, which sidesteps the
// bot-detection challenges that break password login.
const loginRejectedHint = "password login is frequently blocked by automated-challenge checks; " +
	"prefer cookie auth: export TWITTER_COOKIES with auth_token and ct0 from a browser session"

// ProtocolError is a non-success response from the direct GraphQL
// endpoint. Body is truncated and diagnostic only, never parsed.
type ProtocolError struct {
	Operation string
	Status    int
	Body      string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s HTTP %d: %s", e.Operation, e.Status, e.Body)
}

// newProtocolError builds a ProtocolError with the response body truncated
// to a diagnostic prefix.
func newProtocolError(operation string, status int, body []byte) *ProtocolError {
	return &ProtocolError{Operation: operation, Status: status, Body: truncateBytes(body, 200)}
}

func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

package xread

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pquerna/otp/totp"
)

// authTokenCookie and csrfTokenCookie are the two jar entries the direct
// protocol path needs: the bearer-equivalent session token and the
// anti-forgery token.
const (
	authTokenCookie = "auth_token"
	csrfTokenCookie = "ct0"
)

// session is the process-lifetime authentication state shared by the
// library path and the direct protocol path.
type session struct {
	authToken    string
	csrfToken    string
	cookieHeader string
}

// ensureSession returns the cached session, building it on first use.
// Restoration order: persisted cookie file, environment cookie pairs,
// interactive login. Each cookie path must pass a liveness check before
// being accepted. Concurrent first calls block on the same attempt.
func (c *Client) ensureSession(ctx context.Context) (*session, error) {
	c.sessMu.Lock()
	defer c.sessMu.Unlock()

	if c.sess != nil {
		return c.sess, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cookies, err := loadCookieFile(c.cfg.CookieFile)
	if err != nil {
		slog.Warn("cookie file unreadable", slog.String("path", c.cfg.CookieFile), slog.Any("error", err))
	}
	if len(cookies) > 0 {
		if s, ok := c.restoreFromCookies(cookies); ok {
			slog.Info("session restored from cookie file")
			c.sess = s
			return s, nil
		}
		slog.Warn("persisted cookies failed liveness check")
	}

	if envCk := cookiesFromEnv(); len(envCk) > 0 {
		if s, ok := c.restoreFromCookies(envCk); ok {
			slog.Info("session restored from environment cookies")
			c.sess = s
			return s, nil
		}
		slog.Warn("environment cookies failed liveness check")
	}

	triple, ok := resolveLoginTriple(c.cfg)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoCredentials, noCredentialsHint)
	}

	creds := []string{triple.Username, triple.Password}
	if triple.Email != "" {
		creds = append(creds, triple.Email)
	}
	if triple.TOTPSecret != "" {
		code, codeErr := totp.GenerateCode(triple.TOTPSecret, time.Now())
		if codeErr != nil {
			return nil, fmt.Errorf("totp code for %s: %w", triple.Username, codeErr)
		}
		creds = append(creds, code)
	}

	slog.Info("logging in", slog.String("user", triple.Username))
	if err := c.scraper.Login(creds...); err != nil {
		return nil, fmt.Errorf("%w for %s: %v; %s", ErrLoginRejected, triple.Username, err, loginRejectedHint)
	}

	s, err := c.adoptSession()
	if err != nil {
		return nil, err
	}
	slog.Info("login successful", slog.String("user", triple.Username))
	c.sess = s
	return s, nil
}

// restoreFromCookies installs a reconstructed cookie set and accepts it
// only when the session proves actually authenticated, not merely parsed.
func (c *Client) restoreFromCookies(cookies []*http.Cookie) (*session, bool) {
	c.scraper.SetCookies(cookies)
	if !c.scraper.IsLoggedIn() {
		return nil, false
	}
	s, err := c.adoptSession()
	if err != nil {
		slog.Warn("cookie session unusable", slog.Any("error", err))
		return nil, false
	}
	return s, true
}

// adoptSession persists the live cookie jar and extracts the two tokens
// the direct protocol path requires.
func (c *Client) adoptSession() (*session, error) {
	jar := c.scraper.GetCookies()

	if err := saveCookieFile(c.cfg.CookieFile, jar); err != nil {
		slog.Warn("cookie persist failed", slog.Any("error", err))
	}

	s := &session{cookieHeader: cookieHeaderValue(jar)}
	for _, ck := range jar {
		switch ck.Name {
		case authTokenCookie:
			s.authToken = ck.Value
		case csrfTokenCookie:
			s.csrfToken = ck.Value
		}
	}
	if s.authToken == "" {
		return nil, fmt.Errorf("session cookies missing %s", authTokenCookie)
	}
	if s.csrfToken == "" {
		return nil, fmt.Errorf("session cookies missing %s", csrfTokenCookie)
	}
	return s, nil
}

// cookieHeaderValue serializes a cookie jar into a raw Cookie header.
func cookieHeaderValue(cookies []*http.Cookie) string {
	pairs := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	return strings.Join(pairs, "; ")
}

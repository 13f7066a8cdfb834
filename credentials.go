package xread

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Credential sources in priority order: persisted cookie file, raw cookie
// pairs from the environment, then a username/password/email triple from
// the environment or the fallback credentials file. Resolution is a pure
// read; the session manager decides what to do with each source.

const (
	envCookies    = "TWITTER_COOKIES"
	envUsername   = "TWITTER_USERNAME"
	envPassword   = "TWITTER_PASSWORD"
	envEmail      = "TWITTER_EMAIL"
	envTOTPSecret = "TWITTER_TOTP_SECRET"
)

// cookieDomain scopes reconstructed cookies to the platform.
const cookieDomain = ".x.com"

// loadCookieFile reads a persisted session cookie set. A missing file is
// not an error; it just means source 1 is unavailable.
func loadCookieFile(path string) ([]*http.Cookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cookie file %s: %w", path, err)
	}
	var cookies []*http.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		return nil, fmt.Errorf("parse cookie file %s: %w", path, err)
	}
	return cookies, nil
}

// saveCookieFile persists the session cookie set, overwriting prior state.
func saveCookieFile(path string, cookies []*http.Cookie) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write cookie file %s: %w", path, err)
	}
	return nil
}

// cookiesFromEnv parses raw cookie pairs from the environment, if set.
func cookiesFromEnv() []*http.Cookie {
	return parseCookiePairs(os.Getenv(envCookies))
}

// parseCookiePairs parses "name=value" pairs separated by ";" or newlines
// into discrete cookies scoped to the platform domain.
func parseCookiePairs(raw string) []*http.Cookie {
	var cookies []*http.Cookie
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == '\n'
	}) {
		part = strings.TrimSpace(part)
		name, value, ok := strings.Cut(part, "=")
		if !ok || name == "" || value == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Name:   strings.TrimSpace(name),
			Value:  strings.TrimSpace(value),
			Domain: cookieDomain,
			Path:   "/",
		})
	}
	return cookies
}

// loginTriple holds credentials for interactive login.
type loginTriple struct {
	Username   string
	Password   string
	Email      string
	TOTPSecret string
}

// resolveLoginTriple gathers the login triple from config overrides, the
// process environment, and the fallback credentials file, in that order
// per field. Returns ok=false when no usable username/password pair
// exists anywhere.
func resolveLoginTriple(cfg ClientConfig) (loginTriple, bool) {
	fileVars := map[string]string{}
	if data, err := os.ReadFile(cfg.CredentialsFile); err == nil {
		fileVars = parseEnvFile(string(data))
	}

	pick := func(override, envKey string) string {
		if override != "" {
			return override
		}
		if v := os.Getenv(envKey); v != "" {
			return v
		}
		return fileVars[envKey]
	}

	t := loginTriple{
		Username:   pick(cfg.Username, envUsername),
		Password:   pick(cfg.Password, envPassword),
		Email:      pick(cfg.Email, envEmail),
		TOTPSecret: pick(cfg.TOTPSecret, envTOTPSecret),
	}
	return t, t.Username != "" && t.Password != ""
}

// parseEnvFile parses NAME="value" lines. Quotes are optional; blank
// lines and #-comments are skipped.
func parseEnvFile(data string) map[string]string {
	vars := make(map[string]string)
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"`)
		if name == "" || value == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

package xread

import stealth "github.com/anatolykoptev/go-stealth"

// defaultUserAgent is the fallback User-Agent when none is configured.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// graphqlHeaders returns the headers required by the direct GraphQL
// endpoint: bearer authorization, anti-forgery token, the raw session
// cookie header, and the platform client hints.
func graphqlHeaders(csrfToken, cookieHeader, userAgent string) map[string]string {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	h := map[string]string{
		"authorization":             "Bearer " + BearerToken,
		"x-csrf-token":              csrfToken,
		"x-twitter-active-user":     "yes",
		"x-twitter-auth-type":       "OAuth2Session",
		"x-twitter-client-language": "en",
		"content-type":              "application/json",
		"cookie":                    cookieHeader,
		"user-agent":                userAgent,
		"accept":                    "*/*",
		"accept-language":           "en-US,en;q=0.9",
		"accept-encoding":           "gzip, deflate, br",
		"referer":                   "https://x.com/",
		"origin":                    "https://x.com",
		"sec-fetch-dest":            "empty",
		"sec-fetch-mode":            "cors",
		"sec-fetch-site":            "same-origin",
	}
	if ch := stealth.ClientHintsHeaders(userAgent); ch != nil {
		for k, v := range ch {
			h[k] = v
		}
	}
	return h
}

// graphqlHeaderOrder is the header order for TLS fingerprint consistency.
var graphqlHeaderOrder = []string{
	"authorization",
	"content-type",
	"x-csrf-token",
	"x-twitter-active-user",
	"x-twitter-client-language",
	"sec-ch-ua",
	"sec-ch-ua-mobile",
	"sec-ch-ua-platform",
	"sec-fetch-dest",
	"sec-fetch-mode",
	"sec-fetch-site",
	"cookie",
	"user-agent",
	"accept",
	"accept-language",
	"accept-encoding",
}

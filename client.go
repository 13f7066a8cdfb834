package xread

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	stealth "github.com/anatolykoptev/go-stealth"
	twitterscraper "github.com/imperatrona/twitter-scraper"
)

// Client is the top-level read client. It combines a wrapped scraping
// library (single posts, threads, profiles) with a direct GraphQL call
// for search, sharing one lazily-built session between the two paths.
type Client struct {
	cfg     ClientConfig
	wire    wireClient
	scraper scrapeClient

	// sessMu serializes session initialization: the first caller builds
	// the session, concurrent callers block on the same attempt.
	sessMu sync.Mutex
	sess   *session
}

// wireClient is the transport for direct protocol calls.
// *stealth.BrowserClient satisfies it.
type wireClient interface {
	DoWithHeaderOrder(method, url string, headers map[string]string, body io.Reader, order []string) ([]byte, map[string]string, int, error)
}

// scrapeClient is the slice of the scraping library the client uses.
// *twitterscraper.Scraper satisfies it.
type scrapeClient interface {
	SetCookies(cookies []*http.Cookie)
	GetCookies() []*http.Cookie
	IsLoggedIn() bool
	Login(credentials ...string) error
	GetTweet(id string) (*twitterscraper.Tweet, error)
	GetProfile(username string) (twitterscraper.Profile, error)
	FetchTweets(user string, maxTweetsNbr int, cursor string) ([]*twitterscraper.Tweet, string, error)
	FetchTweetsAndReplies(user string, maxTweetsNbr int, cursor string) ([]*twitterscraper.Tweet, string, error)
}

// NewClient creates a fully-wired read client. No network traffic happens
// here; the session is built on the first data request.
func NewClient(cfg ClientConfig) (*Client, error) {
	cfg.defaults()

	opts := []stealth.ClientOption{
		stealth.WithHeaderOrder(graphqlHeaderOrder),
	}
	if cfg.Proxy != "" {
		opts = append(opts, stealth.WithProxy(cfg.Proxy))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}

	return &Client{
		cfg:     cfg,
		wire:    bc,
		scraper: twitterscraper.New(),
	}, nil
}

// doGET executes one authenticated direct protocol request. Failures
// propagate immediately; there is no retry loop.
func (c *Client) doGET(ctx context.Context, endpoint, url string, sess *session) ([]byte, error) {
	// Anti-fingerprint jitter
	if err := stealth.DefaultJitter.Sleep(ctx); err != nil {
		return nil, err
	}

	headers := graphqlHeaders(sess.csrfToken, sess.cookieHeader, c.cfg.UserAgent)
	body, _, status, err := c.wire.DoWithHeaderOrder("GET", url, headers, nil, graphqlHeaderOrder)
	if err != nil {
		c.recordAPICall(endpoint, false)
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	if status != 200 {
		c.recordAPICall(endpoint, false)
		return nil, newProtocolError(endpoint, status, body)
	}
	c.recordAPICall(endpoint, true)
	return body, nil
}

// recordAPICall calls the metrics hook if configured.
func (c *Client) recordAPICall(endpoint string, success bool) {
	if c.cfg.MetricsHook != nil {
		c.cfg.MetricsHook(endpoint, success)
	}
}

// addGraphQLParams builds the full URL with variables and features as
// JSON-encoded query parameters.
func addGraphQLParams(url string, variables, features map[string]any) string {
	v, _ := json.Marshal(variables)
	f, _ := json.Marshal(features)
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	return url + sep + "variables=" + jsonEscape(v) + "&features=" + jsonEscape(f)
}

func jsonEscape(b []byte) string {
	s := string(b)
	var result strings.Builder
	for _, ch := range s {
		switch {
		case ch == ' ':
			result.WriteString("%20")
		case ch == '%':
			result.WriteString("%25")
		case ch == '&':
			result.WriteString("%26")
		case ch == '=':
			result.WriteString("%3D")
		case ch == '#':
			result.WriteString("%23")
		case ch == '+':
			result.WriteString("%2B")
		case ch == '"':
			result.WriteString("%22")
		case ch == '{':
			result.WriteString("%7B")
		case ch == '}':
			result.WriteString("%7D")
		case ch == '[':
			result.WriteString("%5B")
		case ch == ']':
			result.WriteString("%5D")
		case ch == ':':
			result.WriteString("%3A")
		case ch == ',':
			result.WriteString("%2C")
		case ch == '\'':
			result.WriteString("%27")
		case ch == '|':
			result.WriteString("%7C")
		default:
			result.WriteRune(ch)
		}
	}
	return result.String()
}

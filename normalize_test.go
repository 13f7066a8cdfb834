package xread

import (
	"encoding/json"
	"testing"
	"time"

	twitterscraper "github.com/imperatrona/twitter-scraper"
	"github.com/stretchr/testify/require"
)

func decodeResult(t *testing.T, body string) tweetResult {
	t.Helper()
	var r tweetResult
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	return r
}

func TestPostFromResult(t *testing.T) {
	r := decodeResult(t, `{
		"__typename": "Tweet",
		"rest_id": "123",
		"core": {"user_results": {"result": {
			"rest_id": "999",
			"legacy": {"name": "Test User", "screen_name": "testuser"}
		}}},
		"legacy": {
			"full_text": "hello world",
			"created_at": "Mon Jan 02 15:04:05 +0000 2024",
			"conversation_id_str": "120",
			"favorite_count": 10,
			"retweet_count": 5,
			"reply_count": 2,
			"quote_count": 1,
			"bookmark_count": 3,
			"entities": {
				"urls": [{"expanded_url": "https://example.com"}],
				"user_mentions": [{"screen_name": "bob"}],
				"hashtags": [{"text": "golang"}]
			}
		},
		"views": {"count": "1000"}
	}`)

	p, err := postFromResult(r)
	require.NoError(t, err)
	require.Equal(t, "123", p.ID)
	require.Equal(t, "120", p.ConversationID)
	require.Equal(t, "999", p.AuthorID)
	require.Equal(t, "testuser", p.Username)
	require.Equal(t, "Test User", p.DisplayName)
	require.Equal(t, "hello world", p.Text)
	require.Equal(t, 2024, p.CreatedAt.Year())
	require.Equal(t, Metrics{Likes: 10, Retweets: 5, Replies: 2, Quotes: 1, Impressions: 1000, Bookmarks: 3}, p.Metrics)
	require.Equal(t, []string{"https://example.com"}, p.URLs)
	require.Equal(t, []string{"bob"}, p.Mentions)
	require.Equal(t, []string{"golang"}, p.Hashtags)
	require.Equal(t, "https://x.com/testuser/status/123", p.Permalink)
}

func TestPostFromResult_MissingEntities(t *testing.T) {
	r := decodeResult(t, `{
		"rest_id": "1",
		"core": {"user_results": {"result": {"rest_id": "9", "legacy": {"screen_name": "u"}}}},
		"legacy": {"full_text": "no entities container"}
	}`)

	p, err := postFromResult(r)
	require.NoError(t, err)
	// Empty lists, never nil and never an error.
	require.NotNil(t, p.URLs)
	require.NotNil(t, p.Mentions)
	require.NotNil(t, p.Hashtags)
	require.Len(t, p.URLs, 0)
	require.Len(t, p.Mentions, 0)
	require.Len(t, p.Hashtags, 0)
	require.Equal(t, Metrics{}, p.Metrics)
}

func TestPostFromResult_NoAuthor(t *testing.T) {
	r := decodeResult(t, `{
		"rest_id": "1",
		"legacy": {"full_text": "orphan"}
	}`)
	_, err := postFromResult(r)
	require.Error(t, err)
}

func TestPostFromResult_NoID(t *testing.T) {
	r := decodeResult(t, `{
		"core": {"user_results": {"result": {"rest_id": "9"}}},
		"legacy": {"full_text": "no id"}
	}`)
	_, err := postFromResult(r)
	require.Error(t, err)
}

func TestPostFromResult_NameSentinel(t *testing.T) {
	r := decodeResult(t, `{
		"rest_id": "1",
		"core": {"user_results": {"result": {"rest_id": "9"}}},
		"legacy": {"full_text": "anonymous"}
	}`)
	p, err := postFromResult(r)
	require.NoError(t, err)
	require.Equal(t, "?", p.Username)
	require.Equal(t, "?", p.DisplayName)
}

func TestPostFromResult_CoreNameFields(t *testing.T) {
	r := decodeResult(t, `{
		"rest_id": "1",
		"core": {"user_results": {"result": {
			"rest_id": "9",
			"core": {"name": "New Shape", "screen_name": "newshape"}
		}}},
		"legacy": {"full_text": "x"}
	}`)
	p, err := postFromResult(r)
	require.NoError(t, err)
	require.Equal(t, "newshape", p.Username)
	require.Equal(t, "New Shape", p.DisplayName)
}

func TestPostFromScraped(t *testing.T) {
	parsed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tw := &twitterscraper.Tweet{
		ID:             "42",
		ConversationID: "40",
		UserID:         "7",
		Username:       "alice",
		Name:           "Alice",
		Text:           "scraped",
		TimeParsed:     parsed,
		Timestamp:      1111111111,
		Likes:          3,
		Retweets:       2,
		Replies:        1,
		Views:          500,
		PermanentURL:   "https://x.com/alice/status/42",
		URLs:           []string{"https://example.org"},
		Hashtags:       []string{"go"},
		Mentions:       []twitterscraper.Mention{{Username: "bob"}},
	}

	p, err := postFromScraped(tw)
	require.NoError(t, err)
	require.Equal(t, "42", p.ID)
	require.Equal(t, "40", p.ConversationID)
	require.Equal(t, "7", p.AuthorID)
	// Pre-parsed time wins over the epoch field.
	require.Equal(t, parsed, p.CreatedAt)
	require.Equal(t, Metrics{Likes: 3, Retweets: 2, Replies: 1, Impressions: 500}, p.Metrics)
	require.Equal(t, []string{"bob"}, p.Mentions)
	// Source-supplied permalink preferred over a constructed one.
	require.Equal(t, "https://x.com/alice/status/42", p.Permalink)
}

func TestPostFromScraped_EpochFallback(t *testing.T) {
	tw := &twitterscraper.Tweet{
		ID:        "42",
		Username:  "alice",
		Timestamp: 1709294400,
	}
	p, err := postFromScraped(tw)
	require.NoError(t, err)
	require.Equal(t, time.Unix(1709294400, 0).UTC(), p.CreatedAt)
	// No source permalink: constructed from username + id.
	require.Equal(t, "https://x.com/alice/status/42", p.Permalink)
}

func TestPostFromScraped_NoID(t *testing.T) {
	_, err := postFromScraped(&twitterscraper.Tweet{Username: "alice"})
	require.Error(t, err)
	_, err = postFromScraped(nil)
	require.Error(t, err)
}

func TestPostFromScraped_NoAuthor(t *testing.T) {
	// An id alone is not an author: with neither user id nor username
	// the tweet yields no record at all.
	_, err := postFromScraped(&twitterscraper.Tweet{ID: "1", Text: "orphan"})
	require.Error(t, err)
}

func TestPostFromScraped_NameSentinel(t *testing.T) {
	p, err := postFromScraped(&twitterscraper.Tweet{ID: "1", UserID: "9"})
	require.NoError(t, err)
	require.Equal(t, "?", p.Username)
	require.Equal(t, "?", p.DisplayName)
	require.NotNil(t, p.URLs)
	require.NotNil(t, p.Mentions)
	require.NotNil(t, p.Hashtags)
}

package xread

import (
	"fmt"
	"strconv"
	"time"

	twitterscraper "github.com/imperatrona/twitter-scraper"
)

// twitterTimeLayout is the created_at format of the GraphQL result tree.
const twitterTimeLayout = "Mon Jan 02 15:04:05 +0000 2006"

// unknownSentinel stands in for a missing display name, or a missing
// username when the author id is known. A missing post id, or an author
// with neither id nor username, is a hard reject instead; normalization
// never fabricates identity.
const unknownSentinel = "?"

// tweetResult is the direct-protocol raw shape of one post.
type tweetResult struct {
	TypeName string `json:"__typename"`
	RestID   string `json:"rest_id"`

	// Tweet is set when the result is wrapped in a visibility-limited
	// envelope (TweetWithVisibilityResults).
	Tweet *tweetResult `json:"tweet"`

	Core struct {
		UserResults struct {
			Result struct {
				RestID string `json:"rest_id"`
				Legacy struct {
					Name       string `json:"name"`
					ScreenName string `json:"screen_name"`
				} `json:"legacy"`
				// Newer responses carry the name fields here instead
				// of legacy.
				Core struct {
					Name       string `json:"name"`
					ScreenName string `json:"screen_name"`
				} `json:"core"`
			} `json:"result"`
		} `json:"user_results"`
	} `json:"core"`

	Legacy struct {
		FullText          string `json:"full_text"`
		CreatedAt         string `json:"created_at"`
		ConversationIDStr string `json:"conversation_id_str"`
		FavoriteCount     int    `json:"favorite_count"`
		RetweetCount      int    `json:"retweet_count"`
		ReplyCount        int    `json:"reply_count"`
		QuoteCount        int    `json:"quote_count"`
		BookmarkCount     int    `json:"bookmark_count"`
		Entities          *struct {
			URLs []struct {
				ExpandedURL string `json:"expanded_url"`
			} `json:"urls"`
			UserMentions []struct {
				ScreenName string `json:"screen_name"`
			} `json:"user_mentions"`
			Hashtags []struct {
				Text string `json:"text"`
			} `json:"hashtags"`
		} `json:"entities"`
	} `json:"legacy"`

	Views struct {
		Count string `json:"count"`
	} `json:"views"`
}

// postFromResult maps a direct-protocol result tree onto the canonical
// record. It rejects results without an id or a resolvable author record;
// every other field degrades to a safe default.
func postFromResult(r tweetResult) (*Post, error) {
	if r.RestID == "" {
		return nil, fmt.Errorf("empty tweet rest_id (typename=%s)", r.TypeName)
	}
	author := r.Core.UserResults.Result
	if author.RestID == "" {
		return nil, fmt.Errorf("tweet %s has no resolvable author", r.RestID)
	}

	username := author.Legacy.ScreenName
	if username == "" {
		username = author.Core.ScreenName
	}
	displayName := author.Legacy.Name
	if displayName == "" {
		displayName = author.Core.Name
	}
	if username == "" {
		username = unknownSentinel
	}
	if displayName == "" {
		displayName = unknownSentinel
	}

	var createdAt time.Time
	if r.Legacy.CreatedAt != "" {
		if t, err := time.Parse(twitterTimeLayout, r.Legacy.CreatedAt); err == nil {
			createdAt = t.UTC()
		}
	}

	impressions := 0
	if r.Views.Count != "" {
		impressions, _ = strconv.Atoi(r.Views.Count)
	}

	urls := []string{}
	mentions := []string{}
	hashtags := []string{}
	if ent := r.Legacy.Entities; ent != nil {
		for _, u := range ent.URLs {
			if u.ExpandedURL != "" {
				urls = append(urls, u.ExpandedURL)
			}
		}
		for _, m := range ent.UserMentions {
			if m.ScreenName != "" {
				mentions = append(mentions, m.ScreenName)
			}
		}
		for _, h := range ent.Hashtags {
			if h.Text != "" {
				hashtags = append(hashtags, h.Text)
			}
		}
	}

	return &Post{
		ID:             r.RestID,
		ConversationID: r.Legacy.ConversationIDStr,
		AuthorID:       author.RestID,
		Username:       username,
		DisplayName:    displayName,
		Text:           r.Legacy.FullText,
		CreatedAt:      createdAt,
		Metrics: Metrics{
			Likes:       r.Legacy.FavoriteCount,
			Retweets:    r.Legacy.RetweetCount,
			Replies:     r.Legacy.ReplyCount,
			Quotes:      r.Legacy.QuoteCount,
			Impressions: impressions,
			Bookmarks:   r.Legacy.BookmarkCount,
		},
		URLs:      urls,
		Mentions:  mentions,
		Hashtags:  hashtags,
		Permalink: permalinkFor(username, r.RestID),
	}, nil
}

// postFromScraped maps the scraping library's native tweet object onto the
// canonical record. The library supplies either a pre-parsed creation time
// or a raw epoch-seconds value; it never supplies both reliably, so the
// former is preferred with an epoch fallback.
func postFromScraped(t *twitterscraper.Tweet) (*Post, error) {
	if t == nil || t.ID == "" {
		return nil, fmt.Errorf("scraped tweet without id")
	}
	if t.UserID == "" && t.Username == "" {
		return nil, fmt.Errorf("scraped tweet %s has no resolvable author", t.ID)
	}

	username := t.Username
	if username == "" {
		username = unknownSentinel
	}
	displayName := t.Name
	if displayName == "" {
		displayName = unknownSentinel
	}

	var createdAt time.Time
	switch {
	case !t.TimeParsed.IsZero():
		createdAt = t.TimeParsed.UTC()
	case t.Timestamp > 0:
		createdAt = time.Unix(t.Timestamp, 0).UTC()
	}

	permalink := t.PermanentURL
	if permalink == "" {
		permalink = permalinkFor(username, t.ID)
	}

	urls := []string{}
	urls = append(urls, t.URLs...)
	hashtags := []string{}
	hashtags = append(hashtags, t.Hashtags...)
	mentions := []string{}
	for _, m := range t.Mentions {
		if m.Username != "" {
			mentions = append(mentions, m.Username)
		}
	}

	return &Post{
		ID:             t.ID,
		ConversationID: t.ConversationID,
		AuthorID:       t.UserID,
		Username:       username,
		DisplayName:    displayName,
		Text:           t.Text,
		CreatedAt:      createdAt,
		Metrics: Metrics{
			Likes:       t.Likes,
			Retweets:    t.Retweets,
			Replies:     t.Replies,
			Impressions: t.Views,
		},
		URLs:      urls,
		Mentions:  mentions,
		Hashtags:  hashtags,
		Permalink: permalink,
	}, nil
}

func permalinkFor(username, id string) string {
	return "https://x.com/" + username + "/status/" + id
}

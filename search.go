package xread

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// maxSearchPageSize is the protocol maximum for one SearchTimeline page.
const maxSearchPageSize = 100

const defaultSearchResults = 20

// Search fetches posts matching a free-text query via the direct protocol,
// paginating up to opts.Pages calls. A failed page aborts further
// pagination but the posts accumulated from earlier pages are returned
// alongside the error.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]*Post, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = defaultSearchResults
	}
	if opts.Pages <= 0 {
		opts.Pages = 1
	}

	var floor time.Time
	if opts.Since != "" {
		var err error
		floor, err = parseSince(opts.Since, time.Now())
		if err != nil {
			return nil, err
		}
		// The protocol's date operator has day granularity; sub-day
		// precision is enforced client-side below.
		query = fmt.Sprintf("%s since:%s", query, floor.UTC().Format("2006-01-02"))
	}

	sess, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	var posts []*Post
	var cursor string
	for page := 0; page < opts.Pages && len(posts) < opts.MaxResults; page++ {
		select {
		case <-ctx.Done():
			return posts, ctx.Err()
		default:
		}

		count := min(maxSearchPageSize, opts.MaxResults-len(posts))
		sp, err := c.searchOnePage(ctx, sess, query, count, opts.SortOrder, cursor)
		if err != nil {
			return posts, err
		}
		for _, p := range sp.Posts {
			if !floor.IsZero() && p.CreatedAt.Before(floor) {
				continue
			}
			posts = append(posts, p)
			if len(posts) >= opts.MaxResults {
				break
			}
		}
		if sp.Cursor == "" {
			break
		}
		cursor = sp.Cursor
	}
	return posts, nil
}

// searchOnePage issues one SearchTimeline request and decodes it.
func (c *Client) searchOnePage(ctx context.Context, sess *session, query string, count int, order SortOrder, cursor string) (*searchPage, error) {
	if count > maxSearchPageSize {
		count = maxSearchPageSize
	}
	if count < 1 {
		count = 1
	}
	product := "Top"
	if order == SortLatest {
		product = "Latest"
	}

	variables := map[string]any{
		"rawQuery":    query,
		"count":       count,
		"querySource": "typed_query",
		"product":     product,
	}
	if cursor != "" {
		variables["cursor"] = cursor
	}
	url := addGraphQLParams(searchEndpoint.URL(), variables, searchEndpoint.Features)

	body, err := c.doGET(ctx, searchEndpoint.Name, url, sess)
	if err != nil {
		return nil, err
	}
	return decodeSearchTimeline(body)
}

// --- Timeline decode types ---

type timelineObj struct {
	Instructions []timelineInstruction `json:"instructions"`
}

type timelineInstruction struct {
	Type    string          `json:"type"`
	Entries []timelineEntry `json:"entries"`
	Entry   *timelineEntry  `json:"entry"`
}

type timelineEntry struct {
	EntryID string          `json:"entryId"`
	Content timelineContent `json:"content"`
}

type timelineContent struct {
	EntryType   string          `json:"entryType"`
	TypeName    string          `json:"__typename"`
	ItemContent json.RawMessage `json:"itemContent"`
	Value       string          `json:"value"`
	CursorType  string          `json:"cursorType"`
}

// decodeSearchTimeline walks the instruction/entry tree of a
// SearchTimeline response. Entries prefixed "tweet-" become posts,
// "cursor-bottom-" yields the next-page cursor, and everything else is
// skipped: the response schema evolves outside this module's control, so
// unrecognized kinds are never an error.
func decodeSearchTimeline(body []byte) (*searchPage, error) {
	var raw struct {
		Data struct {
			SearchByRawQuery struct {
				SearchTimeline struct {
					Timeline timelineObj `json:"timeline"`
				} `json:"search_timeline"`
			} `json:"search_by_raw_query"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal search timeline: %w", err)
	}

	page := &searchPage{}
	for _, instruction := range raw.Data.SearchByRawQuery.SearchTimeline.Timeline.Instructions {
		entries := instruction.Entries
		if instruction.Entry != nil {
			entries = append(entries, *instruction.Entry)
		}
		for _, entry := range entries {
			switch {
			case strings.HasPrefix(entry.EntryID, "tweet-"):
				p, ok := postFromEntry(entry)
				if !ok {
					continue
				}
				page.Posts = append(page.Posts, p)

			case strings.HasPrefix(entry.EntryID, "cursor-bottom-"),
				entry.Content.CursorType == "Bottom":
				if entry.Content.Value != "" {
					page.Cursor = entry.Content.Value
				}
			}
		}
	}
	return page, nil
}

// postFromEntry extracts a canonical post from one tweet-bearing entry.
func postFromEntry(entry timelineEntry) (*Post, bool) {
	if entry.Content.ItemContent == nil {
		return nil, false
	}
	var item struct {
		TweetResults struct {
			Result tweetResult `json:"result"`
		} `json:"tweet_results"`
	}
	if err := json.Unmarshal(entry.Content.ItemContent, &item); err != nil {
		slog.Debug("skip undecodable entry", slog.String("entry", entry.EntryID), slog.Any("error", err))
		return nil, false
	}
	result := item.TweetResults.Result
	// Visibility-limited envelope: unwrap one level.
	if result.Tweet != nil {
		result = *result.Tweet
	}
	p, err := postFromResult(result)
	if err != nil {
		slog.Debug("skip malformed post", slog.String("entry", entry.EntryID), slog.Any("error", err))
		return nil, false
	}
	return p, true
}

var relativeSinceRe = regexp.MustCompile(`^(\d+)(m|h|d)$`)

// sinceLayouts are the accepted absolute timestamp forms, most to least
// specific.
var sinceLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseSince translates a since expression into an absolute cutoff.
// Relative shorthands are "<n>m", "<n>h", and "<n>d".
func parseSince(since string, now time.Time) (time.Time, error) {
	if m := relativeSinceRe.FindStringSubmatch(since); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid since value %q: %w", since, err)
		}
		switch m[2] {
		case "m":
			return now.Add(-time.Duration(n) * time.Minute), nil
		case "h":
			return now.Add(-time.Duration(n) * time.Hour), nil
		default:
			return now.AddDate(0, 0, -n), nil
		}
	}
	for _, layout := range sinceLayouts {
		if t, err := time.Parse(layout, since); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid since value %q (want <n>m|h|d or an absolute timestamp)", since)
}

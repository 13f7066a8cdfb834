package xread

import "time"

// Post is the canonical record exchanged across all components. Both raw
// source shapes (the scraping library's native tweet object and the direct
// GraphQL result tree) normalize into it.
type Post struct {
	ID             string
	ConversationID string
	AuthorID       string
	Username       string
	DisplayName    string
	Text           string
	CreatedAt      time.Time
	Metrics        Metrics
	URLs           []string
	Mentions       []string
	Hashtags       []string
	Permalink      string
}

// Metrics holds per-post engagement counts. Absent source fields stay 0.
type Metrics struct {
	Likes       int
	Retweets    int
	Replies     int
	Quotes      int
	Impressions int
	Bookmarks   int
}

// Profile represents an X account profile with its recent timeline posts.
type Profile struct {
	UserID      string
	Username    string
	DisplayName string
	Bio         string
	Followers   int
	Following   int
	TweetCount  int
	IsVerified  bool
	Joined      time.Time
	Posts       []*Post
}

// SortOrder selects the ranking product for a search request.
type SortOrder string

const (
	// SortTop requests relevance-ranked results.
	SortTop SortOrder = "top"
	// SortLatest requests recency-ranked results.
	SortLatest SortOrder = "latest"
)

// SearchOptions controls a Search call.
type SearchOptions struct {
	// MaxResults caps the total number of posts across all pages.
	MaxResults int

	// Pages caps the number of protocol calls. Pagination also stops
	// early when the response carries no bottom cursor.
	Pages int

	// SortOrder is SortTop (default) or SortLatest.
	SortOrder SortOrder

	// Since restricts results to posts created at or after the cutoff.
	// Accepts a relative shorthand ("30m", "2h", "7d") or an absolute
	// timestamp (RFC3339, "2006-01-02 15:04:05", or "2006-01-02").
	Since string
}

// ThreadOptions controls a Thread call.
type ThreadOptions struct {
	// Pages budgets the reply search at Pages protocol calls of up to
	// maxSearchPageSize results each.
	Pages int
}

// ProfileOptions controls a Profile call.
type ProfileOptions struct {
	// Count caps the number of timeline posts fetched.
	Count int

	// IncludeReplies includes the user's replies in the timeline.
	IncludeReplies bool
}

// searchPage is one page of direct-protocol search results. An empty
// cursor signals exhaustion.
type searchPage struct {
	Posts  []*Post
	Cursor string
}

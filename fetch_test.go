package xread

import (
	"context"
	"testing"
	"time"

	twitterscraper "github.com/imperatrona/twitter-scraper"
	"github.com/stretchr/testify/require"
)

func TestGetTweet(t *testing.T) {
	scraper := &fakeScraper{tweets: map[string]*twitterscraper.Tweet{
		"42": scrapedTweet("42", "7", "alice"),
	}}
	c := newTestClient(&fakeWire{}, scraper)

	p, err := c.GetTweet(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "42", p.ID)
	require.Equal(t, "alice", p.Username)

	missing, err := c.GetTweet(context.Background(), "404")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestProfile(t *testing.T) {
	joined := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	scraper := &fakeScraper{
		profile: twitterscraper.Profile{
			UserID:         "7",
			Username:       "alice",
			Name:           "Alice",
			Biography:      "gopher",
			FollowersCount: 120,
			FollowingCount: 30,
			TweetsCount:    400,
			IsVerified:     true,
			Joined:         &joined,
		},
		timeline: []*twitterscraper.Tweet{
			scrapedTweet("1", "7", "alice"),
			scrapedTweet("2", "7", "alice"),
			{Username: "alice"}, // id-less entries are skipped, not fatal
			scrapedTweet("3", "7", "alice"),
		},
	}
	c := newTestClient(&fakeWire{}, scraper)

	prof, err := c.Profile(context.Background(), "alice", ProfileOptions{Count: 10})
	require.NoError(t, err)
	require.Equal(t, "7", prof.UserID)
	require.Equal(t, "Alice", prof.DisplayName)
	require.Equal(t, 120, prof.Followers)
	require.Equal(t, joined, prof.Joined)
	require.Len(t, prof.Posts, 3)

	capped, err := c.Profile(context.Background(), "alice", ProfileOptions{Count: 2})
	require.NoError(t, err)
	require.Len(t, capped.Posts, 2)
}

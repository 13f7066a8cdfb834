package xread

import (
	"context"
	"fmt"
	"log/slog"
)

const defaultProfilePosts = 20

// GetTweet fetches a single post by id through the wrapped library.
func (c *Client) GetTweet(ctx context.Context, id string) (*Post, error) {
	if _, err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	raw, err := c.scraper.GetTweet(id)
	if err != nil {
		return nil, fmt.Errorf("get tweet %s: %w", id, err)
	}
	if raw == nil {
		return nil, nil
	}
	return postFromScraped(raw)
}

// Profile fetches a user profile and their recent timeline posts through
// the wrapped library. Timeline pagination is sequential and stops early
// when the library reports no further cursor.
func (c *Client) Profile(ctx context.Context, username string, opts ProfileOptions) (*Profile, error) {
	if opts.Count <= 0 {
		opts.Count = defaultProfilePosts
	}
	if _, err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	raw, err := c.scraper.GetProfile(username)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", username, err)
	}

	prof := &Profile{
		UserID:      raw.UserID,
		Username:    raw.Username,
		DisplayName: raw.Name,
		Bio:         raw.Biography,
		Followers:   raw.FollowersCount,
		Following:   raw.FollowingCount,
		TweetCount:  raw.TweetsCount,
		IsVerified:  raw.IsVerified,
		Posts:       []*Post{},
	}
	if raw.Joined != nil {
		prof.Joined = raw.Joined.UTC()
	}

	fetch := c.scraper.FetchTweets
	if opts.IncludeReplies {
		fetch = c.scraper.FetchTweetsAndReplies
	}

	var cursor string
	for len(prof.Posts) < opts.Count {
		select {
		case <-ctx.Done():
			return prof, ctx.Err()
		default:
		}

		batch, next, err := fetch(username, opts.Count-len(prof.Posts), cursor)
		if err != nil {
			return prof, fmt.Errorf("timeline %s: %w", username, err)
		}
		for _, t := range batch {
			p, perr := postFromScraped(t)
			if perr != nil {
				slog.Debug("skip timeline tweet", slog.String("user", username), slog.Any("error", perr))
				continue
			}
			prof.Posts = append(prof.Posts, p)
			if len(prof.Posts) >= opts.Count {
				break
			}
		}
		if next == "" || len(batch) == 0 {
			break
		}
		cursor = next
	}
	return prof, nil
}

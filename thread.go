package xread

import (
	"context"
	"fmt"
	"log/slog"
)

// Thread reconstructs a conversation: the root post, the author's embedded
// self-thread continuation, and replies found via a conversation search,
// merged in that order with replies deduplicated against the first two
// sources.
//
// A failed reply search is swallowed; root plus self-thread is still a
// useful answer. A failed root fetch propagates, while a root that simply
// does not exist yields an empty result.
func (c *Client) Thread(ctx context.Context, conversationID string, opts ThreadOptions) ([]*Post, error) {
	if opts.Pages <= 0 {
		opts.Pages = 1
	}
	if _, err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	root, err := c.scraper.GetTweet(conversationID)
	if err != nil {
		return nil, fmt.Errorf("thread root %s: %w", conversationID, err)
	}
	if root == nil {
		return []*Post{}, nil
	}

	var posts []*Post
	if p, perr := postFromScraped(root); perr == nil {
		posts = append(posts, p)
	}
	// The continuation excludes only entries matching the root id; a
	// duplicate entry inside the continuation itself is left for the
	// reply-merge identity set to absorb downstream.
	for _, t := range root.Thread {
		if t == nil || t.ID == root.ID {
			continue
		}
		p, perr := postFromScraped(t)
		if perr != nil {
			continue
		}
		posts = append(posts, p)
	}

	seen := make(map[string]bool, len(posts))
	for _, p := range posts {
		seen[p.ID] = true
	}

	// Threads read chronologically, so the reply search uses recency
	// ranking rather than relevance.
	replies, err := c.Search(ctx, "conversation_id:"+conversationID, SearchOptions{
		MaxResults: opts.Pages * maxSearchPageSize,
		Pages:      opts.Pages,
		SortOrder:  SortLatest,
	})
	if err != nil {
		slog.Warn("thread reply search failed",
			slog.String("conversation", conversationID),
			slog.Any("error", err))
		return posts, nil
	}

	for _, p := range replies {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		posts = append(posts, p)
	}
	return posts, nil
}

package xread

import "sort"

// Metric selects an engagement count for sorting.
type Metric string

const (
	MetricLikes       Metric = "likes"
	MetricImpressions Metric = "impressions"
	MetricRetweets    Metric = "retweets"
	MetricReplies     Metric = "replies"
)

// metricValue reads the selected count from a post.
func metricValue(p *Post, m Metric) int {
	switch m {
	case MetricImpressions:
		return p.Metrics.Impressions
	case MetricRetweets:
		return p.Metrics.Retweets
	case MetricReplies:
		return p.Metrics.Replies
	default:
		return p.Metrics.Likes
	}
}

// SortByMetric returns the posts sorted descending by the selected metric.
// The sort is stable: equal-metric posts keep their relative input order.
// The input slice is not modified.
func SortByMetric(posts []*Post, m Metric) []*Post {
	out := make([]*Post, len(posts))
	copy(out, posts)
	sort.SliceStable(out, func(i, j int) bool {
		return metricValue(out[i], m) > metricValue(out[j], m)
	})
	return out
}

// Thresholds holds minimum engagement requirements. A zero field imposes
// no constraint.
type Thresholds struct {
	MinLikes       int
	MinImpressions int
	MinRetweets    int
	MinReplies     int
}

// FilterEngagement retains posts meeting all supplied minimums.
func FilterEngagement(posts []*Post, t Thresholds) []*Post {
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if p.Metrics.Likes < t.MinLikes ||
			p.Metrics.Impressions < t.MinImpressions ||
			p.Metrics.Retweets < t.MinRetweets ||
			p.Metrics.Replies < t.MinReplies {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Dedupe retains the first occurrence per id in input order.
func Dedupe(posts []*Post) []*Post {
	seen := make(map[string]bool, len(posts))
	out := make([]*Post, 0, len(posts))
	for _, p := range posts {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}

package xread

import "fmt"

const graphqlBase = "https://x.com/i/api/graphql"

// BearerToken is the X web-app bearer token sent on direct protocol calls.
// It is public (shipped with the web client), not a secret.
const BearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

// Endpoint holds the operation ID, path name, and feature flags of a
// GraphQL operation.
type Endpoint struct {
	ID       string
	Name     string
	Features map[string]any
}

// URL returns the full URL for this endpoint.
func (e Endpoint) URL() string {
	return fmt.Sprintf("%s/%s/%s", graphqlBase, e.ID, e.Name)
}

// searchEndpoint is the direct search operation. The library's own search
// implementation goes stale as the platform rotates operation IDs, so the
// client issues this one itself.
var searchEndpoint = Endpoint{
	ID:       "AIdc203rPpK_k_2KWSdm7g",
	Name:     "SearchTimeline",
	Features: searchFeatures(),
}

// searchFeatures returns the feature-flag bundle accompanying every search
// request. It is a protocol compatibility shim: the platform expects the
// full bundle, and omitted flags can change the response shape.
func searchFeatures() map[string]any {
	return map[string]any{
		"articles_preview_enabled":                                                false,
		"c9s_tweet_anatomy_moderator_badge_enabled":                               true,
		"communities_web_enable_tweet_community_results_fetch":                    true,
		"creator_subscriptions_quote_tweet_preview_enabled":                       false,
		"creator_subscriptions_tweet_preview_api_enabled":                         true,
		"freedom_of_speech_not_reach_fetch_enabled":                               true,
		"graphql_is_translatable_rweb_tweet_is_translatable_enabled":              true,
		"longform_notetweets_consumption_enabled":                                 true,
		"longform_notetweets_inline_media_enabled":                                true,
		"longform_notetweets_rich_text_read_enabled":                              true,
		"premium_content_api_read_enabled":                                        false,
		"profile_label_improvements_pcf_label_in_post_enabled":                    false,
		"responsive_web_edit_tweet_api_enabled":                                   true,
		"responsive_web_enhance_cards_enabled":                                    false,
		"responsive_web_graphql_exclude_directive_enabled":                        true,
		"responsive_web_graphql_skip_user_profile_image_extensions_enabled":       false,
		"responsive_web_graphql_timeline_navigation_enabled":                      true,
		"responsive_web_grok_analyze_button_fetch_trends_enabled":                 false,
		"responsive_web_grok_analyze_post_followups_enabled":                      false,
		"responsive_web_grok_image_annotation_enabled":                            false,
		"responsive_web_grok_share_attachment_enabled":                            false,
		"responsive_web_media_download_video_enabled":                             false,
		"responsive_web_twitter_article_tweet_consumption_enabled":                true,
		"rweb_tipjar_consumption_enabled":                                         true,
		"rweb_video_timestamps_enabled":                                           true,
		"standardized_nudges_misinfo":                                             true,
		"tweet_awards_web_tipping_enabled":                                        false,
		"tweet_with_visibility_results_prefer_gql_limited_actions_policy_enabled": true,
		"tweet_with_visibility_results_prefer_gql_media_interstitial_enabled":     false,
		"tweetypie_unmention_optimization_enabled":                                true,
		"verified_phone_label_enabled":                                            false,
		"view_counts_everywhere_api_enabled":                                      true,
	}
}

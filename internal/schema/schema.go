// Package schema fixes the column-to-type mapping for the Twitter API
// v2 export produced by twarc, before and after the format pass.
package schema

import (
	"github.com/melaniewalsh/tweetframe/pkg/types"
)

// rawColumns types every column of the upstream tweet export. Nested
// structures (entities, annotations, media descriptors) are kept as
// opaque text rather than decoded. Casting id columns as strings
// avoids the scientific-notation problem with large numeric ids.
var rawColumns = map[string]types.DataType{
	// opaque nested structures
	"attachments.media":                    types.ObjectType,
	"attachments.media_keys":               types.ObjectType,
	"attachments.poll.options":             types.ObjectType,
	"attachments.poll_ids":                 types.ObjectType,
	"author.entities.description.cashtags": types.ObjectType,
	"author.entities.description.hashtags": types.ObjectType,
	"author.entities.description.mentions": types.ObjectType,
	"author.entities.description.urls":     types.ObjectType,
	"author.entities.url.urls":             types.ObjectType,
	"author.withheld.country_codes":        types.ObjectType,
	"context_annotations":                  types.ObjectType,
	"edit_history_tweet_ids":               types.ObjectType,
	"entities.annotations":                 types.ObjectType,
	"entities.cashtags":                    types.ObjectType,
	"entities.hashtags":                    types.ObjectType,
	"entities.mentions":                    types.ObjectType,
	"entities.urls":                        types.ObjectType,
	"geo.coordinates.coordinates":          types.ObjectType,
	"geo.geo.bbox":                         types.ObjectType,
	"matching_rules":                       types.ObjectType,
	"withheld.country_codes":               types.ObjectType,
	// stray unnamed column present in the upstream export
	"Unnamed: 78": types.ObjectType,

	// text
	"attachments.poll.id":              types.StringType,
	"attachments.poll.voting_status":   types.StringType,
	"author.description":               types.StringType,
	"author.id":                        types.StringType,
	"author.location":                  types.StringType,
	"author.name":                      types.StringType,
	"author.pinned_tweet_id":           types.StringType,
	"author.profile_image_url":         types.StringType,
	"author.url":                       types.StringType,
	"author.username":                  types.StringType,
	"author_id":                        types.StringType,
	"conversation_id":                  types.StringType,
	"geo.coordinates.type":             types.StringType,
	"geo.country":                      types.StringType,
	"geo.country_code":                 types.StringType,
	"geo.full_name":                    types.StringType,
	"geo.geo.type":                     types.StringType,
	"geo.id":                           types.StringType,
	"geo.name":                         types.StringType,
	"geo.place_id":                     types.StringType,
	"geo.place_type":                   types.StringType,
	"id":                               types.StringType,
	"in_reply_to_user_id":              types.StringType,
	"lang":                             types.StringType,
	"quoted_user_id":                   types.StringType,
	"referenced_tweets.quoted.id":      types.StringType,
	"referenced_tweets.replied_to.id":  types.StringType,
	"referenced_tweets.retweeted.id":   types.StringType,
	"reply_settings":                   types.StringType,
	"retweeted_user_id":                types.StringType,
	"source":                           types.StringType,
	"text":                             types.StringType,
	"__twarc.url":                      types.StringType,
	"__twarc.version":                  types.StringType,

	// floating point
	"attachments.poll.duration_minutes": types.FloatType,

	// integers
	"author.public_metrics.followers_count": types.IntType,
	"author.public_metrics.following_count": types.IntType,
	"author.public_metrics.listed_count":    types.IntType,
	"author.public_metrics.tweet_count":     types.IntType,
	"edit_controls.edits_remaining":         types.IntType,
	"public_metrics.impression_count":       types.IntType,
	"public_metrics.like_count":             types.IntType,
	"public_metrics.quote_count":            types.IntType,
	"public_metrics.reply_count":            types.IntType,
	"public_metrics.retweet_count":          types.IntType,

	// booleans (tri-state: true, false or null)
	"author.protected":              types.BooleanType,
	"author.verified":               types.BooleanType,
	"author.withheld.copyright":     types.BooleanType,
	"edit_controls.is_edit_eligible": types.BooleanType,
	"possibly_sensitive":            types.BooleanType,
	"withheld.copyright":            types.BooleanType,

	// enums, stored as text
	"author.withheld.scope": types.EnumType,
	"withheld.scope":        types.EnumType,

	// timestamps
	"attachments.poll.end_datetime": types.TimestampType,
	"author.created_at":             types.TimestampType,
	"created_at":                    types.TimestampType,
	"edit_controls.editable_until":  types.TimestampType,
	"__twarc.retrieved_at":          types.TimestampType,
}

// transformedColumns types the columns that exist only after the
// format pass: derived columns and the renamed short names.
var transformedColumns = map[string]types.DataType{
	"tweet_url":   types.StringType,
	"media":       types.StringType,
	"username":    types.StringType,
	"name":        types.StringType,
	"user_bio":    types.StringType,
	"tweet_count": types.IntType,
	"impressions": types.IntType,
	"likes":       types.IntType,
	"quotes":      types.IntType,
	"replies":     types.IntType,
	"retweets":    types.IntType,
	"verified":    types.BooleanType,
	"type":        types.EnumType,
	"date":        types.TimestampType,
}

// renames is the fixed raw-to-short rename table applied by the
// format pass. It joins the raw schema to the transformed one.
var renames = map[string]string{
	"author.name":                     "name",
	"author.username":                 "username",
	"author.verified":                 "verified",
	"author.description":              "user_bio",
	"public_metrics.impression_count": "impressions",
	"public_metrics.like_count":       "likes",
	"public_metrics.quote_count":      "quotes",
	"public_metrics.reply_count":      "replies",
	"public_metrics.retweet_count":    "retweets",
}

// keepers is the reduced column set worth holding on to after the
// format pass, to shrink a frame for analysis.
var keepers = []string{
	"context_annotations",
	"created_at",
	"date",
	"in_reply_to_user_id",
	"lang",
	"likes",
	"media",
	"name",
	"quotes",
	"replies",
	"retweets",
	"text",
	"tweet_url",
	"tweet_count",
	"type",
	"user_bio",
	"username",
	"verified",
}

// TypeOf returns the semantic type for a column name, checking the raw
// export schema first and the post-transform schema second. Unknown
// columns degrade to opaque text so an unexpected column never aborts
// a load.
func TypeOf(name string) types.DataType {
	if t, ok := rawColumns[name]; ok {
		return t
	}
	if t, ok := transformedColumns[name]; ok {
		return t
	}
	return types.ObjectType
}

// Raw returns a copy of the raw export column-to-type map.
func Raw() map[string]types.DataType {
	out := make(map[string]types.DataType, len(rawColumns))
	for k, v := range rawColumns {
		out[k] = v
	}
	return out
}

// Transformed returns a copy of the post-transform column-to-type map.
func Transformed() map[string]types.DataType {
	out := make(map[string]types.DataType, len(transformedColumns))
	for k, v := range transformedColumns {
		out[k] = v
	}
	return out
}

// Renames returns a copy of the raw-to-short rename table.
func Renames() map[string]string {
	out := make(map[string]string, len(renames))
	for k, v := range renames {
		out[k] = v
	}
	return out
}

// Keepers returns a copy of the reduced column list.
func Keepers() []string {
	out := make([]string, len(keepers))
	copy(out, keepers)
	return out
}

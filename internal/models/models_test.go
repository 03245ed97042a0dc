package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseForum(t *testing.T) {
	cases := map[string]Forum{
		"lesswrong":          ForumLessWrong,
		"lw":                 ForumLessWrong,
		"LW":                 ForumLessWrong,
		"less-wrong":         ForumLessWrong,
		"eaforum":            ForumEAForum,
		"ea":                 ForumEAForum,
		"effective-altruism": ForumEAForum,
		"alignmentforum":     ForumAlignmentForum,
		"af":                 ForumAlignmentForum,
		" alignment-forum ":  ForumAlignmentForum,
	}
	for input, want := range cases {
		got, err := ParseForum(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseForum("reddit")
	assert.Error(t, err)
}

func TestParseSubscriptionType(t *testing.T) {
	got, err := ParseSubscriptionType("user")
	require.NoError(t, err)
	assert.Equal(t, SubscriptionUser, got)

	got, err = ParseSubscriptionType("Topic")
	require.NoError(t, err)
	assert.Equal(t, SubscriptionTopic, got)

	_, err = ParseSubscriptionType("feed")
	assert.Error(t, err)
}

func TestSubscriptionKey(t *testing.T) {
	sub := Subscription{Type: SubscriptionUser, Forum: ForumLessWrong, Slug: "daniel-kokotajlo"}
	assert.Equal(t, "lesswrong/user/daniel-kokotajlo", sub.Key())
}

func TestForumName(t *testing.T) {
	assert.Equal(t, "EA Forum", ForumEAForum.Name())
	assert.Contains(t, ForumLessWrong.Aliases(), "lw")
}

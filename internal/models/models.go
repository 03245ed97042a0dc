package models

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Forum identifies one of the supported content platforms. All three share the
// same GraphQL schema shape and differ only by endpoint.
type Forum string

const (
	ForumLessWrong      Forum = "lesswrong"
	ForumEAForum        Forum = "eaforum"
	ForumAlignmentForum Forum = "alignmentforum"
)

var forumAliases = map[string]Forum{
	"lesswrong":          ForumLessWrong,
	"lw":                 ForumLessWrong,
	"less-wrong":         ForumLessWrong,
	"eaforum":            ForumEAForum,
	"ea":                 ForumEAForum,
	"ea-forum":           ForumEAForum,
	"effective-altruism": ForumEAForum,
	"alignmentforum":     ForumAlignmentForum,
	"af":                 ForumAlignmentForum,
	"alignment":          ForumAlignmentForum,
	"alignment-forum":    ForumAlignmentForum,
}

var forumNames = map[Forum]string{
	ForumLessWrong:      "LessWrong",
	ForumEAForum:        "EA Forum",
	ForumAlignmentForum: "Alignment Forum",
}

// ParseForum resolves a forum name or alias to its canonical value.
func ParseForum(s string) (Forum, error) {
	forum, ok := forumAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("unknown forum %q, valid options: lesswrong, eaforum, alignmentforum", s)
	}
	return forum, nil
}

// Forums returns the supported forums in canonical order.
func Forums() []Forum {
	return []Forum{ForumLessWrong, ForumEAForum, ForumAlignmentForum}
}

// Name returns the human-readable forum name.
func (f Forum) Name() string {
	if name, ok := forumNames[f]; ok {
		return name
	}
	return string(f)
}

// Aliases returns the accepted aliases for a forum, excluding the canonical key.
func (f Forum) Aliases() []string {
	var aliases []string
	for alias, forum := range forumAliases {
		if forum == f && alias != string(f) {
			aliases = append(aliases, alias)
		}
	}
	sort.Strings(aliases)
	return aliases
}

// SubscriptionType distinguishes tracked users from tracked topics.
type SubscriptionType string

const (
	SubscriptionUser  SubscriptionType = "user"
	SubscriptionTopic SubscriptionType = "topic"
)

// ParseSubscriptionType validates a subscription type value.
func ParseSubscriptionType(s string) (SubscriptionType, error) {
	switch SubscriptionType(strings.ToLower(strings.TrimSpace(s))) {
	case SubscriptionUser:
		return SubscriptionUser, nil
	case SubscriptionTopic:
		return SubscriptionTopic, nil
	}
	return "", fmt.Errorf("unknown subscription type %q, valid options: user, topic", s)
}

// Subscription is a tracked user or topic on a forum. Immutable once loaded;
// identity is the (type, forum, slug) triple.
type Subscription struct {
	Type  SubscriptionType `json:"type"`
	Forum Forum            `json:"forum"`
	Slug  string           `json:"slug"`
}

// Key returns the stable identity of the subscription.
func (s Subscription) Key() string {
	return fmt.Sprintf("%s/%s/%s", s.Forum, s.Type, s.Slug)
}

// ItemKind distinguishes posts from comments.
type ItemKind string

const (
	KindPost    ItemKind = "post"
	KindComment ItemKind = "comment"
)

// ActivityItem is a normalized post or comment fetched from a forum.
type ActivityItem struct {
	Kind         ItemKind  `json:"kind"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	Author       string    `json:"author"`
	Date         time.Time `json:"date"`
	MarkdownBody string    `json:"markdown_body"`
	Score        int       `json:"score"`
}

// BeliefUpdate is a detected passage suggesting the author changed their
// stated opinion. Rationale is filled by an optional downstream summarizer.
type BeliefUpdate struct {
	Item          ActivityItem `json:"item"`
	QuotedPassage string       `json:"quoted_passage"`
	Rationale     string       `json:"rationale,omitempty"`
}

// Section holds the activity fetched for one subscription.
type Section struct {
	Subscription Subscription   `json:"subscription"`
	Items        []ActivityItem `json:"items"`
}

// FetchFailure records a subscription whose fetch failed. Failures do not
// abort the digest; they are reported in a trailing section.
type FetchFailure struct {
	Subscription Subscription `json:"subscription"`
	Err          error        `json:"-"`
}

// Digest is the aggregated activity report for one time window. Sections
// follow subscription declaration order; every item date falls within
// [PeriodStart, PeriodEnd] and every update references an item in Sections.
type Digest struct {
	PeriodStart time.Time      `json:"period_start"`
	PeriodEnd   time.Time      `json:"period_end"`
	Sections    []Section      `json:"sections"`
	Updates     []BeliefUpdate `json:"updates"`
	Failures    []FetchFailure `json:"failures,omitempty"`
}

// ActivitySource retrieves recent activity for a subscription. Implementations
// return zero items without error when nothing was published in the window.
type ActivitySource interface {
	FetchUserActivity(ctx context.Context, forum Forum, slug string, since time.Time) ([]ActivityItem, error)
	FetchTopicActivity(ctx context.Context, forum Forum, slug string, since time.Time) ([]ActivityItem, error)
}

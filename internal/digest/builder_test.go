package digest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alethic/forumdigest/internal/detector"
	"github.com/alethic/forumdigest/internal/forum"
	"github.com/alethic/forumdigest/internal/models"
)

var testEnd = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

// fakeSource serves canned activity per subscription key, with optional
// per-key delays to scramble completion order.
type fakeSource struct {
	items  map[string][]models.ActivityItem
	errs   map[string]error
	delays map[string]time.Duration
}

func (f *fakeSource) fetch(kind models.SubscriptionType, forumID models.Forum, slug string) ([]models.ActivityItem, error) {
	key := string(forumID) + "/" + string(kind) + "/" + slug
	if d := f.delays[key]; d > 0 {
		time.Sleep(d)
	}
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.items[key], nil
}

func (f *fakeSource) FetchUserActivity(ctx context.Context, forumID models.Forum, slug string, since time.Time) ([]models.ActivityItem, error) {
	return f.fetch(models.SubscriptionUser, forumID, slug)
}

func (f *fakeSource) FetchTopicActivity(ctx context.Context, forumID models.Forum, slug string, since time.Time) ([]models.ActivityItem, error) {
	return f.fetch(models.SubscriptionTopic, forumID, slug)
}

func post(title, url string, daysAgo int) models.ActivityItem {
	return models.ActivityItem{
		Kind:  models.KindPost,
		Title: title,
		URL:   url,
		Date:  testEnd.AddDate(0, 0, -daysAgo),
	}
}

func comment(title, url string, daysAgo int) models.ActivityItem {
	item := post(title, url, daysAgo)
	item.Kind = models.KindComment
	return item
}

func newTestBuilder(source models.ActivitySource, subs []models.Subscription) *Builder {
	b := NewBuilder(source, detector.NewLexicon(), subs, 7)
	b.now = func() time.Time { return testEnd }
	return b
}

func TestBuildSectionOrderIgnoresCompletionOrder(t *testing.T) {
	subs := []models.Subscription{
		{Type: models.SubscriptionUser, Forum: models.ForumLessWrong, Slug: "alice"},
		{Type: models.SubscriptionUser, Forum: models.ForumEAForum, Slug: "bob"},
		{Type: models.SubscriptionTopic, Forum: models.ForumLessWrong, Slug: "ai-safety"},
	}
	source := &fakeSource{
		items: map[string][]models.ActivityItem{
			"lesswrong/user/alice":      {post("A", "https://lw/a", 1)},
			"eaforum/user/bob":          {post("B", "https://ea/b", 1)},
			"lesswrong/topic/ai-safety": {post("C", "https://lw/c", 1)},
		},
		// The first subscription finishes last.
		delays: map[string]time.Duration{"lesswrong/user/alice": 50 * time.Millisecond},
	}

	d, err := newTestBuilder(source, subs).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Sections, 3)
	assert.Equal(t, "alice", d.Sections[0].Subscription.Slug)
	assert.Equal(t, "bob", d.Sections[1].Subscription.Slug)
	assert.Equal(t, "ai-safety", d.Sections[2].Subscription.Slug)
}

func TestBuildWindowInvariant(t *testing.T) {
	subs := []models.Subscription{{Type: models.SubscriptionUser, Forum: models.ForumLessWrong, Slug: "alice"}}
	source := &fakeSource{items: map[string][]models.ActivityItem{
		"lesswrong/user/alice": {
			post("in window", "https://lw/1", 3),
			post("too old", "https://lw/2", 10),
			post("future", "https://lw/3", -1),
		},
	}}

	d, err := newTestBuilder(source, subs).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Sections[0].Items, 1)
	assert.Equal(t, "in window", d.Sections[0].Items[0].Title)

	for _, item := range d.Sections[0].Items {
		assert.False(t, item.Date.Before(d.PeriodStart))
		assert.False(t, item.Date.After(d.PeriodEnd))
	}
}

func TestBuildPartialFailureContinues(t *testing.T) {
	subs := []models.Subscription{
		{Type: models.SubscriptionTopic, Forum: models.ForumLessWrong, Slug: "nonexistent-topic"},
		{Type: models.SubscriptionUser, Forum: models.ForumLessWrong, Slug: "alice"},
	}
	source := &fakeSource{
		items: map[string][]models.ActivityItem{
			"lesswrong/user/alice": {post("A", "https://lw/a", 1)},
		},
		errs: map[string]error{
			"lesswrong/topic/nonexistent-topic": &forum.NotFoundError{Forum: models.ForumLessWrong, Kind: "topic", Slug: "nonexistent-topic"},
		},
	}

	d, err := newTestBuilder(source, subs).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Failures, 1)
	assert.Equal(t, "nonexistent-topic", d.Failures[0].Subscription.Slug)
	require.Len(t, d.Sections, 1)
	assert.Equal(t, "alice", d.Sections[0].Subscription.Slug)
}

func TestBuildAllFailuresErrors(t *testing.T) {
	subs := []models.Subscription{
		{Type: models.SubscriptionUser, Forum: models.ForumLessWrong, Slug: "alice"},
		{Type: models.SubscriptionUser, Forum: models.ForumEAForum, Slug: "bob"},
	}
	source := &fakeSource{errs: map[string]error{
		"lesswrong/user/alice": &forum.NetworkError{Forum: models.ForumLessWrong},
		"eaforum/user/bob":     &forum.NetworkError{Forum: models.ForumEAForum},
	}}

	_, err := newTestBuilder(source, subs).Build(context.Background())
	require.Error(t, err)
}

func TestBuildCrossSubscriptionDedup(t *testing.T) {
	subs := []models.Subscription{
		{Type: models.SubscriptionUser, Forum: models.ForumLessWrong, Slug: "alice"},
		{Type: models.SubscriptionTopic, Forum: models.ForumLessWrong, Slug: "ai-safety"},
	}
	shared := post("Shared Post", "https://lw/shared", 1)
	source := &fakeSource{items: map[string][]models.ActivityItem{
		"lesswrong/user/alice":      {shared},
		"lesswrong/topic/ai-safety": {shared, post("Topic Only", "https://lw/topic-only", 2)},
	}}

	d, err := newTestBuilder(source, subs).Build(context.Background())
	require.NoError(t, err)
	// The user subscription comes first in config order and keeps the item.
	require.Len(t, d.Sections[0].Items, 1)
	require.Len(t, d.Sections[1].Items, 1)
	assert.Equal(t, "Topic Only", d.Sections[1].Items[0].Title)
}

func TestBuildDetectsUpdatesInSectionOrder(t *testing.T) {
	subs := []models.Subscription{
		{Type: models.SubscriptionUser, Forum: models.ForumLessWrong, Slug: "alice"},
		{Type: models.SubscriptionUser, Forum: models.ForumLessWrong, Slug: "bob"},
	}
	alicePost := post("Alice Post", "https://lw/alice", 1)
	alicePost.MarkdownBody = "I was wrong about timelines."
	bobComment := comment("On: Something", "https://lw/bob", 2)
	bobComment.MarkdownBody = "I've updated toward shorter timelines."

	source := &fakeSource{items: map[string][]models.ActivityItem{
		"lesswrong/user/alice": {alicePost},
		"lesswrong/user/bob":   {bobComment},
	}}

	d, err := newTestBuilder(source, subs).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Updates, 2)
	assert.Contains(t, d.Updates[0].QuotedPassage, "I was wrong about timelines.")
	assert.Equal(t, "https://lw/alice", d.Updates[0].Item.URL)
	assert.Equal(t, "https://lw/bob", d.Updates[1].Item.URL)

	// Every update references an item present in the digest.
	urls := map[string]bool{}
	for _, section := range d.Sections {
		for _, item := range section.Items {
			urls[item.URL] = true
		}
	}
	for _, update := range d.Updates {
		assert.True(t, urls[update.Item.URL])
	}
}

func TestBuildItemOrderWithinSection(t *testing.T) {
	subs := []models.Subscription{{Type: models.SubscriptionUser, Forum: models.ForumLessWrong, Slug: "alice"}}
	source := &fakeSource{items: map[string][]models.ActivityItem{
		"lesswrong/user/alice": {
			comment("On: Newest", "https://lw/c1", 1),
			post("Older Post", "https://lw/p1", 3),
			post("Newer Post", "https://lw/p2", 2),
			comment("On: Oldest", "https://lw/c2", 4),
		},
	}}

	d, err := newTestBuilder(source, subs).Build(context.Background())
	require.NoError(t, err)

	items := d.Sections[0].Items
	require.Len(t, items, 4)
	assert.Equal(t, "Newer Post", items[0].Title)
	assert.Equal(t, "Older Post", items[1].Title)
	assert.Equal(t, "On: Newest", items[2].Title)
	assert.Equal(t, "On: Oldest", items[3].Title)
}

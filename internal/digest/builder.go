// Package digest assembles and renders activity digests across subscriptions.
package digest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/alethic/forumdigest/internal/detector"
	"github.com/alethic/forumdigest/internal/models"
)

// Builder fetches activity for every subscription and assembles a digest.
type Builder struct {
	source     models.ActivitySource
	detector   detector.Detector
	subs       []models.Subscription
	windowDays int

	now func() time.Time
}

// NewBuilder creates a digest builder over the given subscriptions.
func NewBuilder(source models.ActivitySource, det detector.Detector, subs []models.Subscription, windowDays int) *Builder {
	return &Builder{
		source:     source,
		detector:   det,
		subs:       subs,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Build fetches all subscriptions and assembles the digest. Fetches run
// concurrently but results are slotted by subscription index, so section
// order always matches declaration order regardless of completion order.
//
// A failing subscription is logged and recorded in the digest's failure list;
// Build returns an error only when every subscription failed.
func (b *Builder) Build(ctx context.Context) (*models.Digest, error) {
	end := b.now().UTC()
	start := end.AddDate(0, 0, -b.windowDays)

	results := make([][]models.ActivityItem, len(b.subs))
	fetchErrs := make([]error, len(b.subs))

	var wg sync.WaitGroup
	for i, sub := range b.subs {
		wg.Add(1)
		go func(i int, sub models.Subscription) {
			defer wg.Done()
			results[i], fetchErrs[i] = b.fetch(ctx, sub, start)
		}(i, sub)
	}
	wg.Wait()

	digest := &models.Digest{
		PeriodStart: start,
		PeriodEnd:   end,
	}

	seenURLs := make(map[string]struct{})
	failed := 0
	for i, sub := range b.subs {
		if err := fetchErrs[i]; err != nil {
			failed++
			logrus.WithError(err).WithField("subscription", sub.Key()).Warn("subscription fetch failed, skipping")
			digest.Failures = append(digest.Failures, models.FetchFailure{Subscription: sub, Err: err})
			continue
		}

		items := make([]models.ActivityItem, 0, len(results[i]))
		for _, item := range results[i] {
			if item.Date.Before(start) || item.Date.After(end) {
				continue
			}
			// The same post can surface under both a user and a topic
			// subscription; the first subscription in config order keeps it.
			if item.URL != "" {
				if _, dup := seenURLs[item.URL]; dup {
					continue
				}
				seenURLs[item.URL] = struct{}{}
			}
			items = append(items, item)
		}
		sortItems(items)

		digest.Sections = append(digest.Sections, models.Section{Subscription: sub, Items: items})
	}

	if len(b.subs) > 0 && failed == len(b.subs) {
		return nil, errors.New("all subscription fetches failed")
	}

	for _, section := range digest.Sections {
		for _, item := range section.Items {
			digest.Updates = append(digest.Updates, b.detector.Detect(item)...)
		}
	}

	return digest, nil
}

func (b *Builder) fetch(ctx context.Context, sub models.Subscription, since time.Time) ([]models.ActivityItem, error) {
	switch sub.Type {
	case models.SubscriptionUser:
		return b.source.FetchUserActivity(ctx, sub.Forum, sub.Slug, since)
	case models.SubscriptionTopic:
		return b.source.FetchTopicActivity(ctx, sub.Forum, sub.Slug, since)
	}
	return nil, errors.Errorf("unknown subscription type %q", sub.Type)
}

// sortItems orders a section the way the digest presents it: posts before
// comments, newest first within each kind.
func sortItems(items []models.ActivityItem) {
	rank := func(kind models.ItemKind) int {
		if kind == models.KindPost {
			return 0
		}
		return 1
	}
	sort.SliceStable(items, func(i, j int) bool {
		if rank(items[i].Kind) != rank(items[j].Kind) {
			return rank(items[i].Kind) < rank(items[j].Kind)
		}
		return items[i].Date.After(items[j].Date)
	})
}

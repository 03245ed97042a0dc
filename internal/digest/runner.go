package digest

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alethic/forumdigest/internal/cache"
	"github.com/alethic/forumdigest/internal/models"
)

// Notifier delivers a written digest to an external channel.
type Notifier interface {
	SendDigest(ctx context.Context, d *models.Digest, path string) error
}

// Runner regenerates digests on an interval. Items reported in an earlier
// cycle are filtered through the seen cache so each cycle only delivers new
// activity.
type Runner struct {
	builder   *Builder
	seen      *cache.Cache
	outputDir string
	interval  time.Duration
	notifier  Notifier
}

// NewRunner creates a watch-mode runner. notifier may be nil.
func NewRunner(builder *Builder, seen *cache.Cache, outputDir string, interval time.Duration, notifier Notifier) *Runner {
	return &Runner{
		builder:   builder,
		seen:      seen,
		outputDir: outputDir,
		interval:  interval,
		notifier:  notifier,
	}
}

// Run generates one digest immediately, then one per interval until the
// context is canceled.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.cycle(ctx); err != nil {
		logrus.WithError(err).Error("digest cycle failed")
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := r.cycle(ctx); err != nil {
				logrus.WithError(err).Error("digest cycle failed")
			}
		}
	}
}

func (r *Runner) cycle(ctx context.Context) error {
	d, err := r.builder.Build(ctx)
	if err != nil {
		return err
	}

	d = r.filterSeen(d)
	if itemCount(d) == 0 && len(d.Failures) == 0 {
		logrus.Debug("no new activity, skipping digest")
		return nil
	}

	path, err := Write(d, r.outputDir)
	if err != nil {
		return err
	}
	logrus.WithField("path", path).WithField("items", itemCount(d)).Info("digest written")

	if r.notifier != nil {
		if err := r.notifier.SendDigest(ctx, d, path); err != nil {
			logrus.WithError(err).Warn("digest delivery failed")
		}
	}
	return nil
}

// filterSeen drops items delivered in earlier cycles, along with belief
// updates whose source item was dropped.
func (r *Runner) filterSeen(d *models.Digest) *models.Digest {
	kept := make(map[string]struct{})
	filtered := &models.Digest{
		PeriodStart: d.PeriodStart,
		PeriodEnd:   d.PeriodEnd,
		Failures:    d.Failures,
	}

	for _, section := range d.Sections {
		items := r.seen.FilterNew(section.Items)
		for _, item := range items {
			kept[item.URL] = struct{}{}
		}
		filtered.Sections = append(filtered.Sections, models.Section{
			Subscription: section.Subscription,
			Items:        items,
		})
	}

	for _, update := range d.Updates {
		if _, ok := kept[update.Item.URL]; ok {
			filtered.Updates = append(filtered.Updates, update)
		}
	}
	return filtered
}

func itemCount(d *models.Digest) int {
	count := 0
	for _, section := range d.Sections {
		count += len(section.Items)
	}
	return count
}

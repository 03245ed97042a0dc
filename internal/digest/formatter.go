package digest

import (
	"fmt"
	"strings"

	"github.com/alethic/forumdigest/internal/models"
)

const dateLayout = "Jan 2, 2006"

// Format renders a digest as markdown. Output is deterministic: the same
// digest always yields byte-identical markdown.
//
// Grouping order: forum (first appearance in subscription order), then
// subscription, then posts before comments, then date descending. Belief
// updates follow all forums, in source-item order; failed subscriptions are
// listed last.
func Format(d *models.Digest) string {
	var sb strings.Builder

	sb.WriteString("# Forum Activity Digest\n\n")
	fmt.Fprintf(&sb, "**Period:** %s to %s\n",
		d.PeriodStart.UTC().Format("2006-01-02"),
		d.PeriodEnd.UTC().Format("2006-01-02"))

	for _, forum := range forumOrder(d.Sections) {
		fmt.Fprintf(&sb, "\n## %s\n", forum.Name())
		for _, section := range d.Sections {
			if section.Subscription.Forum != forum {
				continue
			}
			formatSection(&sb, section)
		}
	}

	if len(d.Updates) > 0 {
		sb.WriteString("\n## Notable belief updates\n\n")
		for _, update := range d.Updates {
			fmt.Fprintf(&sb, "- %s in [%s](%s): %q\n",
				update.Item.Author, update.Item.Title, update.Item.URL, update.QuotedPassage)
			if update.Rationale != "" {
				fmt.Fprintf(&sb, "  - %s\n", update.Rationale)
			}
		}
	}

	if len(d.Failures) > 0 {
		sb.WriteString("\n## Errors\n\n")
		for _, failure := range d.Failures {
			fmt.Fprintf(&sb, "- %s: %v\n", failure.Subscription.Key(), failure.Err)
		}
	}

	return sb.String()
}

// forumOrder returns the forums in order of first appearance across sections,
// which mirrors subscription declaration order.
func forumOrder(sections []models.Section) []models.Forum {
	var order []models.Forum
	seen := make(map[models.Forum]struct{})
	for _, section := range sections {
		forum := section.Subscription.Forum
		if _, ok := seen[forum]; ok {
			continue
		}
		seen[forum] = struct{}{}
		order = append(order, forum)
	}
	return order
}

func formatSection(sb *strings.Builder, section models.Section) {
	switch section.Subscription.Type {
	case models.SubscriptionTopic:
		fmt.Fprintf(sb, "\n### Topic: %s\n", section.Subscription.Slug)
	default:
		fmt.Fprintf(sb, "\n### @%s\n", section.Subscription.Slug)
	}

	var posts, comments []models.ActivityItem
	for _, item := range section.Items {
		if item.Kind == models.KindComment {
			comments = append(comments, item)
		} else {
			posts = append(posts, item)
		}
	}

	fmt.Fprintf(sb, "\n#### Posts (%d)\n", len(posts))
	if len(posts) == 0 {
		sb.WriteString("\nNo posts in this period.\n")
	} else {
		sb.WriteString("\n")
		for _, post := range posts {
			formatItem(sb, post, section.Subscription.Type == models.SubscriptionTopic)
		}
	}

	// Topic subscriptions only carry posts.
	if section.Subscription.Type == models.SubscriptionTopic {
		return
	}

	fmt.Fprintf(sb, "\n#### Comments (%d)\n", len(comments))
	if len(comments) == 0 {
		sb.WriteString("\nNo comments in this period.\n")
	} else {
		sb.WriteString("\n")
		for _, comment := range comments {
			formatItem(sb, comment, false)
		}
	}
}

func formatItem(sb *strings.Builder, item models.ActivityItem, withAuthor bool) {
	fmt.Fprintf(sb, "- [%s](%s)", item.Title, item.URL)
	if withAuthor && item.Author != "" {
		fmt.Fprintf(sb, " by %s", item.Author)
	}
	fmt.Fprintf(sb, " (%s, score %d)\n", item.Date.UTC().Format(dateLayout), item.Score)
}

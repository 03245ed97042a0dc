// Package telegram delivers digest summaries to a Telegram chat.
package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/alethic/forumdigest/internal/models"
)

// Telegram caps messages at 4096 characters; the summary stays well under it.
const maxSummaryItems = 5

// Bot sends one-way digest notifications to a fixed chat.
type Bot struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewBot creates a notification bot for the given chat.
func NewBot(token string, chatID int64) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "creating telegram bot")
	}
	return &Bot{api: api, chatID: chatID}, nil
}

// SendDigest sends a short summary of the digest with a pointer to the
// written file.
func (b *Bot) SendDigest(ctx context.Context, d *models.Digest, path string) error {
	msg := tgbotapi.NewMessage(b.chatID, formatSummary(d, path))
	msg.DisableWebPagePreview = true

	_, err := b.api.Send(msg)
	return errors.Wrap(err, "sending telegram message")
}

func formatSummary(d *models.Digest, path string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Forum digest %s\n\n", d.PeriodEnd.UTC().Format("2006-01-02"))

	total := 0
	for _, section := range d.Sections {
		total += len(section.Items)
	}
	fmt.Fprintf(&sb, "%d new items across %d subscriptions\n", total, len(d.Sections))

	listed := 0
	for _, section := range d.Sections {
		if len(section.Items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %d items\n", section.Subscription.Key(), len(section.Items))
		listed++
		if listed >= maxSummaryItems {
			break
		}
	}

	if len(d.Updates) > 0 {
		fmt.Fprintf(&sb, "\n%d notable belief updates\n", len(d.Updates))
	}
	if len(d.Failures) > 0 {
		fmt.Fprintf(&sb, "%d subscriptions failed\n", len(d.Failures))
	}

	fmt.Fprintf(&sb, "\nFull digest: %s", path)
	return sb.String()
}

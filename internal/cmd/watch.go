package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alethic/forumdigest/internal/cache"
	"github.com/alethic/forumdigest/internal/detector"
	"github.com/alethic/forumdigest/internal/digest"
	"github.com/alethic/forumdigest/internal/telegram"
)

var (
	watchInterval  time.Duration
	watchRetention time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the digest on an interval, reporting only new activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Subscriptions) == 0 {
			return errors.New("no subscriptions configured, add some to config.json")
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		seen := cache.New(watchRetention)
		defer seen.Close()

		var notifier digest.Notifier
		if cfg.Telegram != nil && cfg.Telegram.Token != "" {
			bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
			if err != nil {
				return err
			}
			notifier = bot
		}

		builder := digest.NewBuilder(newClient(cfg), detector.NewLexicon(), cfg.Subscriptions, cfg.DigestDays)
		runner := digest.NewRunner(builder, seen, cfg.OutputDir, watchInterval, notifier)

		logrus.WithField("interval", watchInterval.String()).Info("watching subscriptions")
		if err := runner.Run(ctx); err != nil {
			return err
		}
		logrus.Info("watch stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Hour, "Time between digest cycles")
	watchCmd.Flags().DurationVar(&watchRetention, "retention", 7*24*time.Hour, "How long delivered items are remembered")
	rootCmd.AddCommand(watchCmd)
}

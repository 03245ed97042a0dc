package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alethic/forumdigest/internal/ai"
	"github.com/alethic/forumdigest/internal/detector"
	"github.com/alethic/forumdigest/internal/digest"
	"github.com/alethic/forumdigest/internal/telegram"
)

var (
	digestDays   int
	digestOutDir string
	digestStdout bool
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Generate an activity digest for all configured subscriptions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Subscriptions) == 0 {
			return errors.New("no subscriptions configured, add some to config.json")
		}

		days := cfg.DigestDays
		if digestDays > 0 {
			days = digestDays
		}
		outDir := cfg.OutputDir
		if digestOutDir != "" {
			outDir = digestOutDir
		}

		builder := digest.NewBuilder(newClient(cfg), detector.NewLexicon(), cfg.Subscriptions, days)
		d, err := builder.Build(cmd.Context())
		if err != nil {
			return err
		}

		if cfg.OpenAIAPIKey != "" && len(d.Updates) > 0 {
			summarizer := ai.NewSummarizer(cfg.OpenAIAPIKey)
			enriched, err := summarizer.SummarizeRationales(cmd.Context(), d.Updates)
			if err != nil {
				logrus.WithError(err).Warn("rationale summarization failed, keeping plain passages")
			} else {
				d.Updates = enriched
			}
		}

		if digestStdout {
			fmt.Print(digest.Format(d))
			return nil
		}

		path, err := digest.Write(d, outDir)
		if err != nil {
			return err
		}
		logrus.WithField("path", path).Info("digest written")

		if cfg.Telegram != nil && cfg.Telegram.Token != "" {
			bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID)
			if err != nil {
				return err
			}
			if err := bot.SendDigest(cmd.Context(), d, path); err != nil {
				logrus.WithError(err).Warn("telegram delivery failed")
			}
		}
		return nil
	},
}

func init() {
	digestCmd.Flags().IntVarP(&digestDays, "days", "d", 0, "Override the configured digest window in days")
	digestCmd.Flags().StringVar(&digestOutDir, "output-dir", "", "Override the configured output directory")
	digestCmd.Flags().BoolVar(&digestStdout, "stdout", false, "Print the digest instead of writing a file")
	rootCmd.AddCommand(digestCmd)
}

// Package cmd wires the forumdigest CLI.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/alethic/forumdigest/internal/config"
	"github.com/alethic/forumdigest/internal/forum"
	"github.com/alethic/forumdigest/internal/models"
)

var (
	configPath string
	forumFlag  string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "forumdigest",
	Short: "Activity digests for LessWrong, the EA Forum, and the Alignment Forum",
	Long: `forumdigest tracks users and topics across LessWrong, the EA Forum, and
the Alignment Forum via their GraphQL APIs, and writes periodic markdown
digests of their activity, flagging passages where authors changed their mind.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&forumFlag, "forum", "f", "lesswrong", "Forum to query: lesswrong (lw), eaforum (ea), alignmentforum (af)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func selectedForum() (models.Forum, error) {
	return models.ParseForum(forumFlag)
}

func newClient(cfg *config.Config) *forum.Client {
	return forum.NewClient(forum.WithAuth(cfg.AuthTokens()))
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchTopicsLimit int

var searchTopicsCmd = &cobra.Command{
	Use:   "search-topics <query>",
	Short: "Search for topic tags by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		f, err := selectedForum()
		if err != nil {
			return err
		}

		tags, err := newClient(cfg).SearchTags(cmd.Context(), f, args[0], searchTopicsLimit)
		if err != nil {
			return err
		}

		fmt.Printf("Topics matching %q:\n", args[0])
		for _, tag := range tags {
			fmt.Printf("  %s (slug: %s, posts: %d)\n", tag.Name, tag.Slug, tag.PostCount)
		}
		return nil
	},
}

func init() {
	searchTopicsCmd.Flags().IntVarP(&searchTopicsLimit, "limit", "l", 10, "Maximum results")
	rootCmd.AddCommand(searchTopicsCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	topicActivityDays int
	topicActivityJSON bool
)

var topicActivityCmd = &cobra.Command{
	Use:   "topic-activity <slug>",
	Short: "Show recent posts for a topic tag",
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

		since := time.Now().UTC().AddDate(0, 0, -topicActivityDays)
		items, err := newClient(cfg).FetchTopicActivity(cmd.Context(), f, args[0], since)
		if err != nil {
			return err
		}

		if topicActivityJSON {
			return json.NewEncoder(os.Stdout).Encode(items)
		}

		fmt.Printf("[%s] Topic: %s (last %d days)\n", f.Name(), args[0], topicActivityDays)
		fmt.Printf("\nRecent posts (%d):\n", len(items))
		if len(items) == 0 {
			fmt.Println("  No posts in this period.")
		}
		for _, item := range items {
			fmt.Printf("  [%s] %s by %s (score: %d)\n", item.Date.UTC().Format("Jan 2, 2006"), item.Title, item.Author, item.Score)
			fmt.Printf("    %s\n", item.URL)
		}
		return nil
	},
}

func init() {
	topicActivityCmd.Flags().IntVarP(&topicActivityDays, "days", "d", 7, "Number of days to look back")
	topicActivityCmd.Flags().BoolVarP(&topicActivityJSON, "json", "j", false, "Output as JSON")
	rootCmd.AddCommand(topicActivityCmd)
}

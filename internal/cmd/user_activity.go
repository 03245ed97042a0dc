package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alethic/forumdigest/internal/models"
)

var (
	userActivityDays int
	userActivityJSON bool
)

var userActivityCmd = &cobra.Command{
	Use:   "user-activity <slug>",
	Short: "Show a user's recent posts and comments",
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

		since := time.Now().UTC().AddDate(0, 0, -userActivityDays)
		items, err := newClient(cfg).FetchUserActivity(cmd.Context(), f, args[0], since)
		if err != nil {
			return err
		}

		if userActivityJSON {
			return json.NewEncoder(os.Stdout).Encode(items)
		}
		printActivity(fmt.Sprintf("[%s] @%s (last %d days)", f.Name(), args[0], userActivityDays), items)
		return nil
	},
}

func printActivity(header string, items []models.ActivityItem) {
	fmt.Println(header)

	var posts, comments []models.ActivityItem
	for _, item := range items {
		if item.Kind == models.KindComment {
			comments = append(comments, item)
		} else {
			posts = append(posts, item)
		}
	}

	fmt.Printf("\nPosts (%d):\n", len(posts))
	if len(posts) == 0 {
		fmt.Println("  No posts in this period.")
	}
	for _, post := range posts {
		fmt.Printf("  [%s] %s (score: %d)\n", post.Date.UTC().Format("Jan 2, 2006"), post.Title, post.Score)
		fmt.Printf("    %s\n", post.URL)
	}

	fmt.Printf("\nComments (%d):\n", len(comments))
	if len(comments) == 0 {
		fmt.Println("  No comments in this period.")
	}
	for i, comment := range comments {
		if i == 10 {
			fmt.Printf("  ... and %d more comments\n", len(comments)-10)
			break
		}
		fmt.Printf("  [%s] %s (score: %d)\n", comment.Date.UTC().Format("Jan 2, 2006"), comment.Title, comment.Score)
		fmt.Printf("    %s\n", comment.URL)
	}
}

func init() {
	userActivityCmd.Flags().IntVarP(&userActivityDays, "days", "d", 7, "Number of days to look back")
	userActivityCmd.Flags().BoolVarP(&userActivityJSON, "json", "j", false, "Output as JSON")
	rootCmd.AddCommand(userActivityCmd)
}

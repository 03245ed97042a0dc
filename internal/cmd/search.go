package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search posts by text query",
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

		posts, err := newClient(cfg).SearchPosts(cmd.Context(), f, args[0], searchLimit)
		if err != nil {
			return err
		}

		if searchJSON {
			return json.NewEncoder(os.Stdout).Encode(posts)
		}

		fmt.Printf("Posts matching %q (%d results):\n\n", args[0], len(posts))
		for _, post := range posts {
			author := "Unknown"
			if post.User != nil && post.User.DisplayName != "" {
				author = post.User.DisplayName
			}
			fmt.Printf("  [%s] %s\n", post.PostedAt.UTC().Format("Jan 2, 2006"), post.Title)
			fmt.Printf("    By %s | Score: %d\n", author, post.BaseScore)
			fmt.Printf("    %s\n\n", post.PageURL)
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "l", 20, "Maximum results")
	searchCmd.Flags().BoolVarP(&searchJSON, "json", "j", false, "Output as JSON")
	rootCmd.AddCommand(searchCmd)
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var postJSON bool

var postCmd = &cobra.Command{
	Use:   "post <id|slug|url>",
	Short: "Read a single post",
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

		client := newClient(cfg)
		post, err := client.GetPost(cmd.Context(), f, args[0])
		if err != nil {
			return err
		}

		if postJSON {
			return json.NewEncoder(os.Stdout).Encode(post)
		}

		author := "Unknown"
		if post.User != nil && post.User.DisplayName != "" {
			author = post.User.DisplayName
		}
		fmt.Printf("\n%s\n", post.Title)
		fmt.Printf("By %s | %s\n", author, post.PostedAt.UTC().Format("Jan 2, 2006"))
		fmt.Printf("Score: %d | Comments: %d\n", post.BaseScore, post.CommentCount)
		fmt.Printf("URL: %s\n\n", post.PageURL)

		if post.Contents != nil && post.Contents.Markdown != "" {
			fmt.Println(post.Contents.Markdown)
		} else {
			fmt.Println("(No content)")
		}
		return nil
	},
}

func init() {
	postCmd.Flags().BoolVarP(&postJSON, "json", "j", false, "Output as JSON")
	rootCmd.AddCommand(postCmd)
}

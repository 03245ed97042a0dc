package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/alethic/forumdigest/internal/forum"
)

var (
	draftTitle    string
	draftContent  string
	draftFile     string
	draftURL      string
	draftQuestion bool
)

var createDraftCmd = &cobra.Command{
	Use:   "create-draft",
	Short: "Create a draft post (requires auth)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		f, err := selectedForum()
		if err != nil {
			return err
		}

		markdown := draftContent
		if markdown == "" && draftFile != "" {
			data, err := os.ReadFile(draftFile)
			if err != nil {
				return errors.Wrapf(err, "reading %s", draftFile)
			}
			markdown = string(data)
		}
		if markdown == "" {
			return errors.New("must specify --content or --file")
		}

		draft, err := newClient(cfg).CreateDraft(cmd.Context(), f, forum.DraftInput{
			Title:    draftTitle,
			Markdown: markdown,
			URL:      draftURL,
			Question: draftQuestion,
		})
		if err != nil {
			return err
		}

		fmt.Println("Draft created successfully!")
		fmt.Printf("  Title: %s\n", draft.Title)
		fmt.Printf("  ID: %s\n", draft.ID)
		fmt.Printf("  URL: %s\n", draft.PageURL)
		return nil
	},
}

func init() {
	createDraftCmd.Flags().StringVarP(&draftTitle, "title", "t", "", "Post title")
	createDraftCmd.Flags().StringVarP(&draftContent, "content", "c", "", "Post content (markdown)")
	createDraftCmd.Flags().StringVar(&draftFile, "file", "", "Read content from file")
	createDraftCmd.Flags().StringVarP(&draftURL, "url", "u", "", "URL for link posts")
	createDraftCmd.Flags().BoolVarP(&draftQuestion, "question", "q", false, "Create as question post")
	createDraftCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(createDraftCmd)
}

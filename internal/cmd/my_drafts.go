package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	myDraftsLimit int
	myDraftsJSON  bool
)

var myDraftsCmd = &cobra.Command{
	Use:   "my-drafts",
	Short: "List your draft posts (requires auth)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		f, err := selectedForum()
		if err != nil {
			return err
		}

		drafts, err := newClient(cfg).MyDrafts(cmd.Context(), f, myDraftsLimit)
		if err != nil {
			return err
		}

		if myDraftsJSON {
			return json.NewEncoder(os.Stdout).Encode(drafts)
		}

		fmt.Printf("Your drafts (%d):\n\n", len(drafts))
		for _, draft := range drafts {
			modified := draft.ModifiedAt
			if modified.IsZero() {
				modified = draft.CreatedAt
			}
			fmt.Printf("  %s\n", draft.Title)
			if !modified.IsZero() {
				fmt.Printf("    Modified: %s\n", modified.UTC().Format("Jan 2, 2006"))
			}
			fmt.Printf("    URL: %s\n\n", draft.PageURL)
		}
		return nil
	},
}

func init() {
	myDraftsCmd.Flags().IntVarP(&myDraftsLimit, "limit", "l", 50, "Maximum results")
	myDraftsCmd.Flags().BoolVarP(&myDraftsJSON, "json", "j", false, "Output as JSON")
	rootCmd.AddCommand(myDraftsCmd)
}

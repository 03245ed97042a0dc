package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alethic/forumdigest/internal/forum"
	"github.com/alethic/forumdigest/internal/models"
)

var listForumsCmd = &cobra.Command{
	Use:   "list-forums",
	Short: "List the supported forums and their aliases",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Available forums:")
		for _, f := range models.Forums() {
			fmt.Printf("  %s (%s)\n", f, strings.Join(f.Aliases(), ", "))
			fmt.Printf("    %s: %s\n", f.Name(), forum.BaseURL(f))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listForumsCmd)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tokenValue string

var setTokenCmd = &cobra.Command{
	Use:   "set-token",
	Short: "Store a loginToken for a forum",
	Long: `Store a Meteor loginToken for authenticated operations. The token can be
copied from browser dev tools while logged in. The Alignment Forum shares the
LessWrong account, so its token is stored under lesswrong.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		f, err := selectedForum()
		if err != nil {
			return err
		}

		cfg.SetAuthToken(f, tokenValue)
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Printf("Auth token saved for %s\n", f)
		return nil
	},
}

func init() {
	setTokenCmd.Flags().StringVarP(&tokenValue, "token", "t", "", "Auth token (from browser dev tools)")
	setTokenCmd.MarkFlagRequired("token")
	rootCmd.AddCommand(setTokenCmd)
}

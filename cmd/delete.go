package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <story_id>",
	Short: "Delete one of your stories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		sess, closeStore, err := openSession(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()
		if err := requireLogin(sess); err != nil {
			return err
		}

		st, err := sess.RemoveStory(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", st.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		sess, closeStore, err := openSession(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		out := cmd.OutOrStdout()
		if !sess.LoggedIn() {
			fmt.Fprintln(out, "Not logged in")
			return nil
		}
		u := sess.User
		fmt.Fprintf(out, "%s (%s)\n", u.Username, u.Name)
		fmt.Fprintf(out, "member since %s, %d favorites, %d stories\n", u.CreatedAt, len(u.Favorites), len(u.OwnStories))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

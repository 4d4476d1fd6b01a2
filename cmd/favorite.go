package cmd

import (
	"context"
	"fmt"

	"hack-or-snooze/internal/session"

	"github.com/spf13/cobra"
)

var favoriteToggle bool

var favoriteCmd = &cobra.Command{
	Use:   "favorite <story_id>",
	Short: "Mark a story as favorite (--toggle flips it)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLoggedInSession(func(ctx context.Context, sess *session.Session) error {
			id := args[0]
			if favoriteToggle {
				on, err := sess.ToggleFavorite(ctx, id)
				if err != nil {
					return err
				}
				printFavoriteState(cmd, id, on)
				return nil
			}
			if err := sess.AddFavorite(ctx, id); err != nil {
				return err
			}
			printFavoriteState(cmd, id, true)
			return nil
		})
	},
}

var unfavoriteCmd = &cobra.Command{
	Use:   "unfavorite <story_id>",
	Short: "Remove a story from favorites",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLoggedInSession(func(ctx context.Context, sess *session.Session) error {
			if err := sess.RemoveFavorite(ctx, args[0]); err != nil {
				return err
			}
			printFavoriteState(cmd, args[0], false)
			return nil
		})
	},
}

func withLoggedInSession(fn func(ctx context.Context, sess *session.Session) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	sess, closeStore, err := openSession(ctx, GetConfig())
	if err != nil {
		return err
	}
	defer closeStore()
	if err := requireLogin(sess); err != nil {
		return err
	}
	return fn(ctx, sess)
}

func printFavoriteState(cmd *cobra.Command, id string, on bool) {
	if on {
		fmt.Fprintf(cmd.OutOrStdout(), "★ %s is a favorite\n", id)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "☆ %s is not a favorite\n", id)
}

func init() {
	favoriteCmd.Flags().BoolVar(&favoriteToggle, "toggle", false, "unfavorite if already a favorite")
	rootCmd.AddCommand(favoriteCmd)
	rootCmd.AddCommand(unfavoriteCmd)
}

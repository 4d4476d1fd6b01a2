package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hack-or-snooze/internal/model"
	"hack-or-snooze/internal/render"

	"github.com/spf13/cobra"
)

var (
	storiesMine      bool
	storiesFavorites bool
	storiesLimit     int
)

var storiesCmd = &cobra.Command{
	Use:     "stories",
	Aliases: []string{"ls"},
	Short:   "List stories (all, --favorites or --mine)",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if storiesMine && storiesFavorites {
			return errors.New("--mine and --favorites are mutually exclusive")
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		sess, closeStore, err := openSession(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		var (
			heading string
			list    []model.Story
		)
		switch {
		case storiesMine:
			if err := requireLogin(sess); err != nil {
				return err
			}
			heading, list = "Your stories", sess.User.OwnStories
		case storiesFavorites:
			if err := requireLogin(sess); err != nil {
				return err
			}
			heading, list = "Favorites", sess.User.Favorites
		default:
			if _, err := sess.LoadStories(ctx); err != nil {
				return err
			}
			list = sess.Stories.Stories
		}
		if storiesLimit > 0 && len(list) > storiesLimit {
			list = list[:storiesLimit]
		}

		out, err := render.Stories(heading, list, sess.User, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	storiesCmd.Flags().BoolVar(&storiesMine, "mine", false, "show stories you submitted")
	storiesCmd.Flags().BoolVar(&storiesFavorites, "favorites", false, "show your favorites")
	storiesCmd.Flags().IntVarP(&storiesLimit, "limit", "n", 0, "show at most n stories")
	rootCmd.AddCommand(storiesCmd)
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hack-or-snooze/internal/draft"
	"hack-or-snooze/internal/model"

	"github.com/spf13/cobra"
)

var (
	submitFile   string
	submitTitle  string
	submitAuthor string
	submitURL    string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a story from flags or a Markdown draft (--file)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ns, err := storyFromFlags()
		if err != nil {
			return err
		}

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

		st, err := sess.AddStory(ctx, ns)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Submitted %q as story %s\n", st.Title, st.StoryID)
		return nil
	},
}

func storyFromFlags() (model.NewStory, error) {
	if strings.TrimSpace(submitFile) != "" {
		if submitTitle != "" || submitAuthor != "" || submitURL != "" {
			return model.NewStory{}, errors.New("--file cannot be combined with --title, --author or --url")
		}
		return draft.LoadStory(submitFile)
	}
	if submitTitle == "" || submitAuthor == "" || submitURL == "" {
		return model.NewStory{}, errors.New("requires --title, --author and --url, or --file")
	}
	return model.NewStory{Title: submitTitle, Author: submitAuthor, URL: submitURL}, nil
}

func init() {
	submitCmd.Flags().StringVarP(&submitFile, "file", "f", "", "markdown draft with title/author/url frontmatter")
	submitCmd.Flags().StringVar(&submitTitle, "title", "", "story title")
	submitCmd.Flags().StringVar(&submitAuthor, "author", "", "story author")
	submitCmd.Flags().StringVar(&submitURL, "url", "", "story url")
	rootCmd.AddCommand(submitCmd)
}

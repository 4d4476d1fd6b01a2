package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hack-or-snooze/internal/ai"
	"hack-or-snooze/internal/model"
	"hack-or-snooze/internal/scrape"
	"hack-or-snooze/internal/session"

	"github.com/spf13/cobra"
)

var readSummarize bool

var readCmd = &cobra.Command{
	Use:   "read <story_id>",
	Short: "Fetch a story's article and print its text or an AI summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		var summarizer ai.Summarizer
		if readSummarize {
			c, err := ai.NewOpenAI(ai.Config{APIKey: cfg.OpenAI.APIKey, Model: cfg.OpenAI.Model, BaseURL: cfg.OpenAI.BaseURL})
			if err != nil {
				return fmt.Errorf("--summarize needs openai.api_key: %w", err)
			}
			summarizer = c
		}

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		sess, closeStore, err := openSession(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		st, err := findStory(ctx, sess, args[0])
		if err != nil {
			return err
		}
		article, err := scrape.NewReader(0).Read(ctx, st.URL)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n%s\n\n", st.Title, st.URL)
		if summarizer != nil {
			summary, err := summarizer.SummarizeArticle(ctx, st.Title, article.Content, cfg.OpenAI.Language)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, summary)
			return nil
		}
		if article.Byline != "" {
			fmt.Fprintf(out, "By %s\n\n", article.Byline)
		}
		fmt.Fprintln(out, strings.TrimSpace(article.Content))
		return nil
	},
}

// findStory looks in the user's collections first, then the feed.
func findStory(ctx context.Context, sess *session.Session, id string) (model.Story, error) {
	if sess.User != nil {
		for _, list := range [][]model.Story{sess.User.Favorites, sess.User.OwnStories} {
			if st, ok := model.NewStoryList(list).Find(id); ok {
				return st, nil
			}
		}
	}
	if _, err := sess.LoadStories(ctx); err != nil {
		return model.Story{}, err
	}
	if st, ok := sess.Stories.Find(id); ok {
		return st, nil
	}
	slog.Debug("read: story not in feed", "storyId", id, "feed", sess.Stories.Len())
	return model.Story{}, fmt.Errorf("story %s not found", id)
}

func init() {
	readCmd.Flags().BoolVar(&readSummarize, "summarize", false, "summarize with OpenAI instead of printing the text")
	rootCmd.AddCommand(readCmd)
}

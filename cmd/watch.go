package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hack-or-snooze/internal/model"
	"hack-or-snooze/internal/redisclient"
	"hack-or-snooze/internal/render"
	"hack-or-snooze/internal/storage"
	"hack-or-snooze/worker"

	"github.com/spf13/cobra"
)

var watchBacklog bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the story feed and print new stories as they appear",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		interval, err := time.ParseDuration(cfg.Watch.Interval)
		if err != nil {
			return fmt.Errorf("invalid watch.interval: %w", err)
		}
		seenTTL, err := time.ParseDuration(cfg.Watch.SeenTTL)
		if err != nil {
			return fmt.Errorf("invalid watch.seen_ttl: %w", err)
		}
		client, err := newAPIClient(cfg)
		if err != nil {
			return err
		}

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()
		out := cmd.OutOrStdout()

		w := &worker.StoryWatcher{
			Client:          client,
			Store:           storage.NewRedisStore(rdb),
			Feed:            feedName(cfg.API.BaseURL),
			Interval:        interval,
			SeenTTL:         seenTTL,
			AnnounceBacklog: watchBacklog,
			OnNew:           printNewStories(out, time.Now),
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("watch: received signal, shutting down", "signal", s.String())
			cancel()
		}()

		slog.Info("watch: starting", "feed", w.Feed, "interval", interval)
		return worker.NewManager(w).Start(ctx)
	},
}

func printNewStories(out io.Writer, now func() time.Time) func([]model.Story) {
	return func(stories []model.Story) {
		text, err := render.Stories("New stories", stories, nil, now())
		if err != nil {
			slog.Error("watch: render error", "error", err)
			return
		}
		fmt.Fprintln(out, text)
	}
}

// feedName keys the seen set by API host so several deployments can share
// one redis.
func feedName(baseURL string) string {
	if u, err := url.Parse(baseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return "stories"
}

func init() {
	watchCmd.Flags().BoolVar(&watchBacklog, "backlog", false, "print the current feed on the first poll")
	rootCmd.AddCommand(watchCmd)
}

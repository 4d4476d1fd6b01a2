package cmd

import (
	"context"
	"fmt"
	"time"

	"hack-or-snooze/internal/redisclient"
	"hack-or-snooze/internal/storage"

	"github.com/spf13/cobra"
)

// pingCmd checks the configured Redis server and reports what it holds for
// the story watcher.
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Ping Redis and show how many stories the watcher remembers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		rdb := redisclient.New(cfg.Redis)
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		res, err := rdb.Ping(ctx).Result()
		if err != nil {
			return err
		}
		seen, err := storage.NewRedisStore(rdb).SeenCount(ctx, feedName(cfg.API.BaseURL))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d stories seen)\n", res, seen)
		return nil
	},
}

func init() {
	redisCmd.AddCommand(pingCmd)
}

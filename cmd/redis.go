package cmd

import "github.com/spf13/cobra"

// redisCmd groups Redis-related subcommands. Redis backs `watch` and the
// redis session backend.
var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Redis utilities",
}

func init() {
	rootCmd.AddCommand(redisCmd)
}

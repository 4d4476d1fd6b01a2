package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		// No Restore: logging out needs no round trip to the API.
		store, closeStore, err := openCredentialStore(cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

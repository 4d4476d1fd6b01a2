package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and remember the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		password, err := readPassword(cmd, loginPassword)
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

		u, err := sess.Login(ctx, args[0], password)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", u.Username, u.Name)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

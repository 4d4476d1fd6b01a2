package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	signupName     string
	signupPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup <username>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if strings.TrimSpace(signupName) == "" {
			return errors.New("--name is required")
		}
		password, err := readPassword(cmd, signupPassword)
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

		u, err := sess.Signup(ctx, args[0], password, signupName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s! Logged in as %s\n", u.Name, u.Username)
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupName, "name", "", "full name")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "password (prompted when omitted)")
	rootCmd.AddCommand(signupCmd)
}

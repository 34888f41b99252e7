package main

import (
	"fmt"

	"welfare-cms/internal/auth/adapter/security"

	"github.com/spf13/cobra"
)

var plainPassword string

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password",
	Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := security.HashPassword(plainPassword)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	hashPasswordCmd.Flags().StringVarP(&plainPassword, "password", "p", "", "admin password to hash")
	_ = hashPasswordCmd.MarkFlagRequired("password")
}

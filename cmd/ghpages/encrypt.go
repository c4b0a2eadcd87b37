package main

import (
	"fmt"

	"github.com/gingerrexayers/ghpages-go/internal/ghpages/auth"
	"github.com/gingerrexayers/ghpages-go/internal/ghpages/config"
	"github.com/spf13/cobra"
)

func NewEncryptCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encrypt <value>",
		Short: "Encrypt a password for the settings file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.New()
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			cipher := auth.SecretCipher{MasterPassword: v.GetString(config.KeyMasterPassword)}
			encrypted, err := cipher.Encrypt(args[0])
			if err != nil {
				return fmt.Errorf("could not encrypt value: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), encrypted)
			return nil
		},
	}

	cmd.Flags().String("master-password", "", "Master password (or GHPAGES_MASTER_PASSWORD)")
	return cmd
}

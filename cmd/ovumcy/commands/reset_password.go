package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/ovumcy-insights/internal/cli"
)

func newResetPasswordCommand() *cobra.Command {
	var email string

	command := &cobra.Command{
		Use:   "reset-password",
		Short: "Replace a user's password with a generated temporary one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database, closeDatabase, err := openDatabase(cfg.DBPath, logger)
			if err != nil {
				return err
			}
			defer closeDatabase()
			if err := cli.RunResetPasswordCommand(cmd.Context(), database, email, cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("reset password: %w", err)
			}
			logger.Info().Str("email", email).Msg("password reset")
			return nil
		},
	}
	command.Flags().StringVarP(&email, "email", "e", "", "email of the account to reset")
	_ = command.MarkFlagRequired("email")
	return command
}
